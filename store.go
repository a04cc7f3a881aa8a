// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package centidb implements an embedded record-management layer atop
// an ordered byte-string key/value engine (package kv): collections
// of structured records with secondary indices, auto-assigned or
// derived keys, per-record batching, and counters.
package centidb

import (
	"github.com/cockroachdb/errors"

	"github.com/centidb/centidb/kv"
	"github.com/centidb/centidb/pack"
	"github.com/centidb/centidb/tuple"
)

const (
	collectionsCollectionIdx = 0
	countersCollectionIdx    = 1
	collectionsIdxCounter    = "\x00collections_idx"
	firstUserCollectionIdx   = 10
)

// Store owns an engine handle and a global key prefix, and manages
// the two built-in metadata collections every centidb database
// carries: the collection registry (index 0) and the counter registry
// (index 1). Multiple Stores may share one Engine by using disjoint
// prefixes.
type Store struct {
	engine  kv.Engine
	prefix  []byte
	logger  Logger
	metrics *Metrics
	packers *pack.Registry

	collections *Collection
	counters    *Collection
}

// Open returns a Store backed by engine.
func Open(engine kv.Engine, opts ...StoreOption) (*Store, error) {
	cfg := defaultStoreConfig()
	for _, o := range opts {
		o(cfg)
	}

	s := &Store{
		engine:  engine,
		prefix:  cfg.prefix,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		packers: pack.NewRegistry(append([]pack.Packer{pack.PlainPacker{}, pack.ZlibPacker{}}, cfg.packers...)...),
	}

	s.collections = s.bootstrapMetaCollection("\x00collections", collectionsCollectionIdx)
	s.counters = s.bootstrapMetaCollection("\x00counters", countersCollectionIdx)
	return s, nil
}

// bootstrapMetaCollection constructs one of the two fixed-index
// metadata collections directly, bypassing the usual name->index
// lookup (they ARE that lookup's backing store).
func (s *Store) bootstrapMetaCollection(name string, idx uint64) *Collection {
	return &Collection{
		store:       s,
		name:        name,
		idx:         idx,
		prefix:      collectionPrefix(s.prefix, idx),
		keyFunc:     func(v any) (tuple.Tuple, error) { return v.(tuple.Tuple)[:1], nil },
		derivedKeys: false,
		virginKeys:  true,
		encoder:     pack.KeyEncoder{},
		packer:      pack.PlainPacker{},
		indices:     map[string]*Index{},
	}
}

// getInfo looks up or lazily creates a collection's metadata record
// (name, index, indexFor), matching Store._get_info. indexFor is ""
// for a primary collection, or the owning collection's name for an
// index.
func (s *Store) getInfo(name string, indexFor string) (idx uint64, err error) {
	rec, err := s.collections.getRaw(tuple.Tuple{name})
	if err == nil {
		return uint64(rec[1].(int64)), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	idx, err = s.Count(collectionsIdxCounter, 1, firstUserCollectionIdx, nil)
	if err != nil {
		return 0, err
	}
	var indexForValue any
	if indexFor != "" {
		indexForValue = indexFor
	}
	if _, err := s.collections.Put(tuple.Tuple{name, int64(idx), indexForValue}, nil); err != nil {
		return 0, err
	}
	return idx, nil
}

// Count increments the named counter by n and returns its value
// before the increment, creating it with value init if it does not
// yet exist. Counter names beginning with a null byte are reserved
// for internal use. Pass a non-nil txn to group the read-modify-write
// with other operations for atomicity.
func (s *Store) Count(name string, n, init int64, txn kv.Txn) (uint64, error) {
	store := rw(s.engine)
	if txn != nil {
		store = txn
	}
	return s.count(store, name, n, init)
}

// count is Count's implementation over an already-resolved rw, used
// both by the public Count and by counter-keyed collections'
// txn_key_func, which already hold a resolved store handle.
func (s *Store) count(store rw, name string, n, init int64) (uint64, error) {
	rec, err := s.counters.getRawWith(store, tuple.Tuple{name})
	var prior int64
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return 0, err
		}
		prior = init
	} else {
		prior = rec[1].(int64)
	}

	if _, err := s.counters.putRawWith(store, tuple.Tuple{name, prior + n}); err != nil {
		return 0, err
	}
	s.metrics.incCounterAllocations(name)
	return uint64(prior), nil
}

// Engine returns the underlying kv.Engine.
func (s *Store) Engine() kv.Engine { return s.engine }

// Close releases the underlying engine's resources. A Store does not
// own any state beyond its engine handle, so Close is equivalent to
// s.Engine().Close().
func (s *Store) Close() error { return s.engine.Close() }

// Collections returns the store's built-in collection registry,
// letting callers (such as cmd/centidb's `collections` subcommand)
// iterate every collection and index name/index-number pair ever
// created in this Store.
func (s *Store) Collections() *Collection { return s.collections }

// Counters returns the store's built-in counter registry, for callers
// that want to enumerate every counter name and its current value
// (such as cmd/centidb's `counters` subcommand).
func (s *Store) Counters() *Collection { return s.counters }

// HasCollection reports whether a collection or index with the given
// name has ever been created in this Store, without creating it. Used
// by read-only tooling, which must not trigger Collection's lazy
// metadata write.
func (s *Store) HasCollection(name string) (bool, error) {
	_, err := s.collections.getRaw(tuple.Tuple{name})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Collection opens (creating metadata lazily on first reference) the
// named primary record collection.
func (s *Store) Collection(name string, opts ...CollectionOption) (*Collection, error) {
	return s.newCollection(name, "", opts...)
}

func (s *Store) newCollection(name string, indexFor string, opts ...CollectionOption) (*Collection, error) {
	idx, err := s.getInfo(name, indexFor)
	if err != nil {
		return nil, errors.Wrapf(err, "opening collection %s", errors.Safe(name))
	}

	cfg := defaultCollectionConfig()
	for _, o := range opts {
		o(cfg)
	}

	c := &Collection{
		store:       s,
		name:        name,
		idx:         idx,
		prefix:      collectionPrefix(s.prefix, idx),
		keyFunc:     cfg.keyFunc,
		txnKeyFunc:  cfg.txnKeyFunc,
		derivedKeys: cfg.derivedKeys,
		virginKeys:  cfg.virginKeys,
		encoder:     cfg.encoder,
		packer:      cfg.packer,
		indices:     map[string]*Index{},
	}

	if c.keyFunc == nil && c.txnKeyFunc == nil {
		counterName := cfg.counterName
		if counterName == "" {
			counterName = "key:" + name
		}
		counterPrefix := cfg.counterPfx
		c.txnKeyFunc = func(txn keyTxn, _ any) (tuple.Tuple, error) {
			store := rw(s.engine)
			if txn != nil {
				store = txn
			}
			n, err := s.count(store, counterName, 1, 1)
			if err != nil {
				return nil, err
			}
			return append(append(tuple.Tuple{}, counterPrefix...), int64(n)), nil
		}
		c.derivedKeys = false
		c.virginKeys = true
	}

	return c, nil
}
