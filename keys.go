// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"github.com/centidb/centidb/kv"
	"github.com/centidb/centidb/tuple"
)

// KeyTxn is the point read/write/scan surface that both kv.Engine and
// kv.Txn satisfy structurally. Every internal helper threads one of
// these through instead of a concrete type, so a nil *transaction*
// argument from the public API can be resolved once, up front, to
// either the caller's kv.Txn or the Store's kv.Engine. It is also the
// handle passed to a WithTxnKeyFunc key function: the active
// transaction when the caller supplied one, the store's engine
// otherwise.
type KeyTxn interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Scan(start []byte, reverse bool) (kv.Iterator, error)
}

// rw is an alias kept for brevity at internal call sites.
type rw = KeyTxn

// keyTxn is the same alias under the name CollectionOption's key-func
// signatures use.
type keyTxn = KeyTxn

// collectionPrefix returns storePrefix followed by the varint
// encoding of idx: the fixed prefix for every key belonging to
// collection idx.
func collectionPrefix(storePrefix []byte, idx uint64) []byte {
	return tuple.AppendVarint(append([]byte(nil), storePrefix...), idx)
}

// encodeAgainst encodes key against an owner's prefix, as the range
// iterator and write path do throughout.
func encodeAgainst(prefix []byte, key tuple.Key) ([]byte, error) {
	return tuple.Encode(prefix, key)
}
