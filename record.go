// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import "github.com/centidb/centidb/tuple"

// Record wraps a record value with the key and index keys it was last
// saved under, letting Collection.Put and Collection.Delete avoid
// redundant reads and writes when the caller round-trips a value it
// already fetched with Get.
//
// A Record obtained from Get may be reused across one Put or Delete
// call; after that call it is updated in place to reflect the new
// state, mirroring the source object's lifecycle. Constructing a
// Record directly (NewRecord) is equivalent to calling Put with a
// bare value: there is no old state to reconcile.
type Record struct {
	// Value is the record's payload, as recognized by the owning
	// collection's Encoder. It is the only field a caller should ever
	// mutate directly.
	Value any

	coll      *Collection
	key       tuple.Tuple
	batch     bool
	txnID     string
	indexKeys [][]byte
}

// NewRecord wraps value with no prior key, as if it had never been
// saved.
func NewRecord(value any) *Record {
	return &Record{Value: value}
}

// Key returns the key the record was last saved under, or nil if it
// has never been saved (or was just deleted).
func (r *Record) Key() tuple.Tuple {
	return r.key
}

// Batch reports whether the record's last-known physical key also
// held other logical records.
func (r *Record) Batch() bool {
	return r.batch
}

// TxnID returns the transaction identifier the record was fetched
// under, if the engine or transaction handle exposes one via a
// TxnID() string method; otherwise "".
func (r *Record) TxnID() string {
	return r.txnID
}

// materialize wraps value in a Record carrier, unless it already is
// one.
func materialize(value any) *Record {
	if rec, ok := value.(*Record); ok {
		return rec
	}
	return &Record{Value: value}
}

// tuplize coerces a bare primitive key argument into a one-element
// Tuple, leaving an already-built Tuple untouched.
func tuplize(key any) tuple.Tuple {
	if t, ok := key.(tuple.Tuple); ok {
		return t
	}
	return tuple.Tuple{key}
}

// KeyedValue pairs an explicit key with a value, for
// Collection.PutItems.
type KeyedValue struct {
	Key   tuple.Tuple
	Value any
}
