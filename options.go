// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"github.com/centidb/centidb/pack"
	"github.com/centidb/centidb/tuple"
)

// storeConfig holds the resolved result of applying StoreOptions.
type storeConfig struct {
	prefix  []byte
	logger  Logger
	metrics *Metrics
	packers []pack.Packer
}

// StoreOption configures Open.
type StoreOption func(*storeConfig)

// WithPrefix scopes every key the Store touches under prefix, so that
// multiple stores may coexist on one engine.
func WithPrefix(prefix []byte) StoreOption {
	return func(c *storeConfig) { c.prefix = append([]byte(nil), prefix...) }
}

// WithLogger attaches a Logger for non-fatal diagnostics. The default
// is a no-op logger.
func WithLogger(l Logger) StoreOption {
	return func(c *storeConfig) { c.logger = l }
}

// WithMetrics attaches a Metrics instance built by NewMetrics. The
// default is nil, under which all metrics calls are no-ops.
func WithMetrics(m *Metrics) StoreOption {
	return func(c *storeConfig) { c.metrics = m }
}

// WithPackers registers additional Packer implementations so values
// written with them can be read back; PlainPacker and ZlibPacker are
// always registered. Collections still default to PlainPacker unless
// told otherwise via CollectionOptions.
func WithPackers(packers ...pack.Packer) StoreOption {
	return func(c *storeConfig) { c.packers = append(c.packers, packers...) }
}

func defaultStoreConfig() *storeConfig {
	return &storeConfig{logger: nopLogger{}}
}

// collectionConfig holds the resolved result of applying
// CollectionOptions.
type collectionConfig struct {
	keyFunc     func(value any) (tuple.Tuple, error)
	txnKeyFunc  func(txn keyTxn, value any) (tuple.Tuple, error)
	derivedKeys bool
	virginKeys  bool
	encoder     pack.Encoder
	packer      pack.Packer
	counterName string
	counterPfx  tuple.Tuple
}

// CollectionOption configures Store.Collection.
type CollectionOption func(*collectionConfig)

// WithKeyFunc sets the collection's key-assignment function: given a
// record's value, it returns the key to store it under. Mutually
// exclusive in effect with WithTxnKeyFunc (the last one supplied
// wins).
func WithKeyFunc(fn func(value any) (tuple.Tuple, error)) CollectionOption {
	return func(c *collectionConfig) { c.keyFunc = fn; c.txnKeyFunc = nil }
}

// WithTxnKeyFunc is WithKeyFunc's transaction-aware counterpart, for
// key functions that need to read other state (for example, a
// counter) during assignment.
func WithTxnKeyFunc(fn func(txn keyTxn, value any) (tuple.Tuple, error)) CollectionOption {
	return func(c *collectionConfig) { c.txnKeyFunc = fn; c.keyFunc = nil }
}

// WithDerivedKeys marks the key function as deriving the key from the
// record's value, so a changed value reassigns the key and the
// previous primary/index entries are deleted automatically.
func WithDerivedKeys() CollectionOption {
	return func(c *collectionConfig) { c.derivedKeys = true }
}

// WithVirginKeys marks the key function as never reassigning the same
// key twice, letting Put skip the old-record lookup it would
// otherwise perform before writing. Always in effect for a
// counter-keyed collection, regardless of this option.
func WithVirginKeys() CollectionOption {
	return func(c *collectionConfig) { c.virginKeys = true }
}

// WithEncoder sets the value encoder; defaults to pack.PickleEncoder.
func WithEncoder(enc pack.Encoder) CollectionOption {
	return func(c *collectionConfig) { c.encoder = enc }
}

// WithPacker sets the default packer used by Put when none is
// specified per call; defaults to pack.PlainPacker.
func WithPacker(p pack.Packer) CollectionOption {
	return func(c *collectionConfig) { c.packer = p }
}

// WithCounterName overrides the Store counter used to assign keys
// when the collection has no key function; defaults to
// "key:<collection name>".
func WithCounterName(name string) CollectionOption {
	return func(c *collectionConfig) { c.counterName = name }
}

// WithCounterPrefix prefixes counter-assigned keys with a fixed
// tuple, so the counter value becomes the last element of the key
// rather than the whole key.
func WithCounterPrefix(prefix tuple.Tuple) CollectionOption {
	return func(c *collectionConfig) { c.counterPfx = prefix }
}

func defaultCollectionConfig() *collectionConfig {
	return &collectionConfig{
		encoder: pack.PickleEncoder{},
		packer:  pack.PlainPacker{},
	}
}
