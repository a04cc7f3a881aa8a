// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package leveldbkv implements kv.Engine on top of a single on-disk
// LevelDB database using github.com/syndtr/goleveldb, the production
// engine this module ships.
package leveldbkv

import (
	"github.com/cockroachdb/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/centidb/centidb/kv"
)

// Options configures Open.
type Options struct {
	// ReadOnly opens the database without permitting writes, used by
	// the inspection subcommands of cmd/centidb.
	ReadOnly bool
	// BloomFilterBits configures the bloom filter used to cut disk
	// checks on point lookups, in bits per key. 0 selects the default
	// of 10; the filter is always enabled.
	BloomFilterBits int
}

func (o Options) withDefaults() Options {
	if o.BloomFilterBits == 0 {
		o.BloomFilterBits = 10
	}
	return o
}

// Open opens (creating if absent) a LevelDB database at path and
// returns it as a kv.Engine.
func Open(path string, opts Options) (kv.Engine, error) {
	opts = opts.withDefaults()
	ldbOpts := &opt.Options{
		Filter:   filter.NewBloomFilter(opts.BloomFilterBits),
		ReadOnly: opts.ReadOnly,
	}
	db, err := leveldb.OpenFile(path, ldbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb database at %s", errors.Safe(path))
	}
	return &engine{db: db}, nil
}

type engine struct {
	db *leveldb.DB
}

func (e *engine) Get(key []byte) ([]byte, error) {
	v, err := e.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, kv.ErrNotFound
		}
		return nil, errors.Wrap(err, "leveldbkv: get")
	}
	return v, nil
}

func (e *engine) Put(key, value []byte) error {
	if err := e.db.Put(key, value, nil); err != nil {
		return errors.Wrap(err, "leveldbkv: put")
	}
	return nil
}

func (e *engine) Delete(key []byte) error {
	if err := e.db.Delete(key, nil); err != nil {
		return errors.Wrap(err, "leveldbkv: delete")
	}
	return nil
}

func (e *engine) Scan(start []byte, reverse bool) (kv.Iterator, error) {
	var rng *util.Range
	if !reverse {
		rng = &util.Range{Start: start}
	} else {
		// util.Range.Limit is exclusive, so an inclusive reverse scan
		// from start needs the iterator created over the full
		// preceding range and then seeked to its last entry <= start.
		rng = &util.Range{Limit: append(append([]byte(nil), start...), 0x00)}
	}
	return &ldbIter{it: e.db.NewIterator(rng, nil), reverse: reverse}, nil
}

func (e *engine) Update(fn func(kv.Txn) error) error {
	txn, err := e.db.OpenTransaction()
	if err != nil {
		return errors.Wrap(err, "leveldbkv: begin transaction")
	}
	if err := fn(&ldbTxn{txn: txn}); err != nil {
		txn.Discard()
		return err
	}
	if err := txn.Commit(); err != nil {
		return errors.Wrap(err, "leveldbkv: commit transaction")
	}
	return nil
}

func (e *engine) Close() error {
	return e.db.Close()
}

// ldbTxn adapts *leveldb.Transaction, which shares its Get/Put/Delete
// signatures with *leveldb.DB, to kv.Txn.
type ldbTxn struct {
	txn *leveldb.Transaction
}

func (t *ldbTxn) Get(key []byte) ([]byte, error) {
	v, err := t.txn.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, kv.ErrNotFound
		}
		return nil, errors.Wrap(err, "leveldbkv: txn get")
	}
	return v, nil
}

func (t *ldbTxn) Put(key, value []byte) error {
	if err := t.txn.Put(key, value, nil); err != nil {
		return errors.Wrap(err, "leveldbkv: txn put")
	}
	return nil
}

func (t *ldbTxn) Delete(key []byte) error {
	if err := t.txn.Delete(key, nil); err != nil {
		return errors.Wrap(err, "leveldbkv: txn delete")
	}
	return nil
}

func (t *ldbTxn) Scan(start []byte, reverse bool) (kv.Iterator, error) {
	var rng *util.Range
	if !reverse {
		rng = &util.Range{Start: start}
	} else {
		rng = &util.Range{Limit: append(append([]byte(nil), start...), 0x00)}
	}
	return &ldbIter{it: t.txn.NewIterator(rng, nil), reverse: reverse}, nil
}

// ldbIter adapts a goleveldb iterator.Iterator, which walks forward
// via Next and backward via Prev and is positioned with a single
// First/Last/Next/Prev call per step, to kv.Iterator's uniform Next.
type ldbIter struct {
	it      iterator.Iterator
	reverse bool
	started bool
}

func (it *ldbIter) Next() bool {
	if !it.started {
		it.started = true
		if it.reverse {
			return it.it.Last()
		}
		return it.it.Next()
	}
	if it.reverse {
		return it.it.Prev()
	}
	return it.it.Next()
}

func (it *ldbIter) Key() []byte   { return it.it.Key() }
func (it *ldbIter) Value() []byte { return it.it.Value() }
func (it *ldbIter) Close() error {
	it.it.Release()
	return it.it.Error()
}
