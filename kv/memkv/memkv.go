// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package memkv implements an in-memory kv.Engine for tests and
// development. It is not durable: all data is lost when the
// process exits.
package memkv

import (
	"bytes"
	"sort"
	"sync"

	"github.com/centidb/centidb/kv"
)

// New returns an empty in-memory Engine.
func New() kv.Engine {
	return &memEngine{}
}

// memEngine is a naive sorted-slice-backed kv.Engine, guarded by a
// single mutex. Good enough for tests and small demos; not for
// anything write-heavy.
type memEngine struct {
	mu   sync.Mutex
	keys [][]byte
	vals [][]byte
}

func (e *memEngine) search(key []byte) int {
	return sort.Search(len(e.keys), func(i int) bool { return bytes.Compare(e.keys[i], key) >= 0 })
}

func (e *memEngine) Get(key []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.search(key)
	if i < len(e.keys) && bytes.Equal(e.keys[i], key) {
		return append([]byte(nil), e.vals[i]...), nil
	}
	return nil, kv.ErrNotFound
}

func (e *memEngine) Put(key, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.putLocked(key, value)
	return nil
}

func (e *memEngine) putLocked(key, value []byte) {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	i := e.search(k)
	if i < len(e.keys) && bytes.Equal(e.keys[i], k) {
		e.vals[i] = v
		return
	}
	e.keys = append(e.keys, nil)
	e.vals = append(e.vals, nil)
	copy(e.keys[i+1:], e.keys[i:])
	copy(e.vals[i+1:], e.vals[i:])
	e.keys[i] = k
	e.vals[i] = v
}

func (e *memEngine) Delete(key []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deleteLocked(key)
	return nil
}

func (e *memEngine) deleteLocked(key []byte) {
	i := e.search(key)
	if i < len(e.keys) && bytes.Equal(e.keys[i], key) {
		e.keys = append(e.keys[:i], e.keys[i+1:]...)
		e.vals = append(e.vals[:i], e.vals[i+1:]...)
	}
}

func (e *memEngine) Scan(start []byte, reverse bool) (kv.Iterator, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	keys := append([][]byte(nil), e.keys...)
	vals := append([][]byte(nil), e.vals...)
	if !reverse {
		i := sort.Search(len(keys), func(i int) bool { return bytes.Compare(keys[i], start) >= 0 })
		return &memIter{keys: keys[i:], vals: vals[i:], pos: -1}, nil
	}
	// Reverse: last index with key <= start, walking backward from there.
	i := sort.Search(len(keys), func(i int) bool { return bytes.Compare(keys[i], start) > 0 })
	return &memIter{keys: keys[:i], vals: vals[:i], pos: i, reverse: true}, nil
}

func (e *memEngine) Update(fn func(kv.Txn) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&memTxn{e: e})
}

func (e *memEngine) Close() error { return nil }

// memTxn runs directly against memEngine while its mutex is already
// held by Update. There is no rollback: a returned error simply means
// some writes may already be visible, acceptable for an in-memory
// reference engine.
type memTxn struct{ e *memEngine }

func (t *memTxn) Get(key []byte) ([]byte, error) {
	i := t.e.search(key)
	if i < len(t.e.keys) && bytes.Equal(t.e.keys[i], key) {
		return append([]byte(nil), t.e.vals[i]...), nil
	}
	return nil, kv.ErrNotFound
}

func (t *memTxn) Put(key, value []byte) error {
	t.e.putLocked(key, value)
	return nil
}

func (t *memTxn) Delete(key []byte) error {
	t.e.deleteLocked(key)
	return nil
}

func (t *memTxn) Scan(start []byte, reverse bool) (kv.Iterator, error) {
	keys := append([][]byte(nil), t.e.keys...)
	vals := append([][]byte(nil), t.e.vals...)
	if !reverse {
		i := sort.Search(len(keys), func(i int) bool { return bytes.Compare(keys[i], start) >= 0 })
		return &memIter{keys: keys[i:], vals: vals[i:], pos: -1}, nil
	}
	i := sort.Search(len(keys), func(i int) bool { return bytes.Compare(keys[i], start) > 0 })
	return &memIter{keys: keys[:i], vals: vals[:i], pos: i, reverse: true}, nil
}

// memIter walks a materialized snapshot slice, forward or backward.
type memIter struct {
	keys, vals [][]byte
	pos        int
	reverse    bool
}

func (it *memIter) Next() bool {
	if it.reverse {
		it.pos--
		return it.pos >= 0
	}
	it.pos++
	return it.pos < len(it.keys)
}

func (it *memIter) Key() []byte   { return it.keys[it.pos] }
func (it *memIter) Value() []byte { return it.vals[it.pos] }
func (it *memIter) Close() error  { return nil }
