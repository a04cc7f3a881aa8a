// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package kv defines the ordered byte-string key/value contract that
// centidb is built on, and the small set of operations the record
// layer requires of it: point get/put/delete, and a bounded,
// directional range scan. Durability, replication, and multi-writer
// concurrency control are properties of a concrete Engine
// implementation, not of this package.
package kv

import "github.com/cockroachdb/errors"

// ErrNotFound is returned by Get (and by Txn.Get) when the key is
// absent. It is never returned from Iterator methods; an exhausted
// iterator simply stops.
var ErrNotFound = errors.New("kv: key not found")

// Engine is an ordered, byte-string keyed store. Implementations must
// return keys from Scan in unsigned lexicographic byte order.
//
// centidb treats the engine as an opaque dependency and never assumes
// anything about its durability or replication properties.
type Engine interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error

	// Scan returns a lazy iterator over entries with key >= start (or
	// <= start, when reverse is true), in ascending order (or
	// descending, when reverse is true). The caller must Close the
	// returned Iterator.
	Scan(start []byte, reverse bool) (Iterator, error)

	// Update runs fn against a transactional view of the engine. If fn
	// returns an error, or the engine cannot commit, no writes made
	// through txn are observable afterward. Engines that cannot offer
	// cross-call atomicity may implement this as a no-op wrapper that
	// simply passes the Engine itself through as the Txn, treating
	// each call as its own transaction.
	Update(fn func(txn Txn) error) error

	// Close releases any resources held by the engine.
	Close() error
}

// Txn is the transactional handle passed to Engine.Update's callback.
// It exposes the same point and range operations as Engine; centidb's
// write path (Collection.Put/Delete) issues every step of one logical
// operation through a single Txn so the engine's atomicity covers the
// whole of it.
type Txn interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Scan(start []byte, reverse bool) (Iterator, error)
}

// Iterator walks an Engine's key space lazily; each call to Next may
// issue one engine read. Iterators are forward-only and must not be
// reused once exhausted.
type Iterator interface {
	// Next advances the iterator and reports whether an entry is
	// available. It must be called before the first Key/Value.
	Next() bool
	Key() []byte
	Value() []byte
	// Close releases resources held by the iterator and returns any
	// error encountered during iteration.
	Close() error
}

// Collect drains it into a slice of key/value pairs, closing it
// afterward. It is intended for tests and small scans (CLI tooling),
// not for the hot path.
func Collect(it Iterator) ([]Pair, error) {
	var out []Pair
	for it.Next() {
		out = append(out, Pair{Key: append([]byte(nil), it.Key()...), Value: append([]byte(nil), it.Value()...)})
	}
	return out, it.Close()
}

// Pair is a materialized key/value entry, as returned by Collect.
type Pair struct {
	Key   []byte
	Value []byte
}
