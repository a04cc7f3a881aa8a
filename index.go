// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"github.com/cockroachdb/errors"

	"github.com/centidb/centidb/kv"
	"github.com/centidb/centidb/tuple"
)

// Index provides query access to a single secondary index on a
// Collection. Index instances are obtained from Collection.AddIndex
// or Collection.Index; they should never be constructed directly.
type Index struct {
	coll   *Collection
	name   string
	idx    uint64
	prefix []byte
	fn     func(value any) any
}

// Name returns the index's name, as given to Collection.AddIndex.
func (idx *Index) Name() string { return idx.name }

// IndexPairIterator walks (index tuple, primary key) entries in index
// order.
type IndexPairIterator struct {
	pi  *pairIter
	idx *Index
	tup tuple.Tuple
	key tuple.Tuple
	err error
}

// IterPairs returns an iterator over the index's (tuple, key) pairs.
func (idx *Index) IterPairs(opts ...IterOption) (*IndexPairIterator, error) {
	q := defaultIterQuery()
	for _, o := range opts {
		o(&q)
	}
	store := idx.coll.resolve(q.txn)
	pi, err := newPairIter(store, q.toRangeQuery(idx.prefix, true))
	if err != nil {
		return nil, err
	}
	return &IndexPairIterator{pi: pi, idx: idx}, nil
}

// IterTups is IterPairs projected to just the index tuple via
// Tuple().
func (idx *Index) IterTups(opts ...IterOption) (*IndexPairIterator, error) {
	return idx.IterPairs(opts...)
}

// IterKeys is IterPairs projected to just the primary key via Key().
func (idx *Index) IterKeys(opts ...IterOption) (*IndexPairIterator, error) {
	return idx.IterPairs(opts...)
}

// Next advances the iterator.
func (it *IndexPairIterator) Next() bool {
	if !it.pi.Next() {
		return false
	}
	key := append([]byte(nil), it.pi.Key()...)
	tups, err := tuple.Decode(len(it.idx.prefix), key)
	if err != nil {
		it.err = err
		return false
	}
	if len(tups) != 2 {
		it.err = errors.Newf("centidb: index entry for %q decoded to %d tuples, want 2", it.idx.name, len(tups))
		return false
	}
	it.tup, it.key = tups[0], tups[1]
	return true
}

// Tuple returns the current entry's index tuple, as produced by the
// index function.
func (it *IndexPairIterator) Tuple() tuple.Tuple { return it.tup }

// Key returns the current entry's primary key.
func (it *IndexPairIterator) Key() tuple.Tuple { return it.key }

// Err returns the first decoding error Next encountered, if any.
func (it *IndexPairIterator) Err() error { return it.err }

// Close releases the iterator's underlying engine resources.
func (it *IndexPairIterator) Close() error {
	if err := it.pi.Close(); err != nil {
		return err
	}
	return it.err
}

// IndexItemIterator walks (primary key, value) pairs dereferenced
// through the index's owning Collection. A stale entry - one whose
// primary key no longer has a record - is logged and skipped rather
// than surfaced as an error; the index needs a rebuild.
type IndexItemIterator struct {
	pairs *IndexPairIterator
	idx   *Index
	txn   rw
	key   tuple.Tuple
	val   any
	rec   *Record
	err   error
}

// IterItems returns an iterator over (key, value) pairs referred to
// by the index, dereferencing each primary key through the owning
// collection.
func (idx *Index) IterItems(opts ...IterOption) (*IndexItemIterator, error) {
	q := defaultIterQuery()
	for _, o := range opts {
		o(&q)
	}
	pairs, err := idx.IterPairs(opts...)
	if err != nil {
		return nil, err
	}
	return &IndexItemIterator{pairs: pairs, idx: idx, txn: idx.coll.resolve(q.txn)}, nil
}

// IterValues is IterItems projected to just the value via Value().
func (idx *Index) IterValues(opts ...IterOption) (*IndexItemIterator, error) {
	return idx.IterItems(opts...)
}

// Next advances the iterator, transparently skipping stale entries.
func (it *IndexItemIterator) Next() bool {
	for it.pairs.Next() {
		key := it.pairs.Key()
		rec, err := it.idx.coll.get(it.txn, key)
		if errors.Is(err, ErrNotFound) {
			it.idx.coll.store.logger.Warningf(
				"stale entry in index %s.%s for key %v, requires rebuild", it.idx.coll.name, it.idx.name, key)
			it.idx.coll.store.metrics.incStaleIndexEntries(it.idx.coll.name)
			continue
		}
		if err != nil {
			it.err = err
			return false
		}
		it.key, it.val, it.rec = key, rec.Value, rec
		return true
	}
	if err := it.pairs.Err(); err != nil {
		it.err = err
	}
	return false
}

// Key returns the current entry's primary key.
func (it *IndexItemIterator) Key() tuple.Tuple { return it.key }

// Value returns the current entry's dereferenced record value.
func (it *IndexItemIterator) Value() any { return it.val }

// Record returns the current entry as a Record carrier.
func (it *IndexItemIterator) Record() *Record { return it.rec }

// Err returns the first error Next encountered, if any.
func (it *IndexItemIterator) Err() error { return it.err }

// Close releases the iterator's underlying engine resources.
func (it *IndexItemIterator) Close() error {
	if err := it.pairs.Close(); err != nil {
		return err
	}
	return it.err
}

// Get returns the first record whose index tuple equals x or extends
// it with further elements (x is tuplized if not already a
// tuple.Tuple), or ErrNotFound.
func (idx *Index) Get(x any, txn kv.Txn) (any, error) {
	return idx.Find(WithArgs(tuplize(x)), WithTxn(txn))
}

// Find returns the first record matching opts, or ErrNotFound. It is
// a thin wrapper over IterValues.
func (idx *Index) Find(opts ...IterOption) (any, error) {
	it, err := idx.IterValues(opts...)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	if it.Next() {
		return it.Value(), nil
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

// Gets returns Get(x) for each x in xs, omitting entries with no
// match rather than failing the whole call.
func (idx *Index) Gets(xs []any, txn kv.Txn) ([]any, error) {
	out := make([]any, 0, len(xs))
	for _, x := range xs {
		v, err := idx.Get(x, txn)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
