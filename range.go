// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"bytes"

	"github.com/cockroachdb/errors"

	"github.com/centidb/centidb/kv"
	"github.com/centidb/centidb/tuple"
)

// rangeQuery is the single parameterized scan shared by every
// higher-level read. A zero value scans an owner's entire key space
// forward.
type rangeQuery struct {
	ownerPrefix []byte
	key         tuple.Key // optional exact key
	lo, hi      tuple.Key // optional explicit bounds
	reverse     bool
	max         int
	include     bool
	isIndex     bool
}

// resolveBounds computes the encoded byte bounds for q and whether hi
// is inclusive; lo is always inclusive, in either direction. An unset lo defaults to the
// owner's prefix; an unset hi to the prefix's successor, exclusive
// unless an exact key was given. An explicit hi on an index is
// widened once more so entries carrying a primary-key suffix past the
// bound tuple still fall inside it.
func resolveBounds(q rangeQuery) (lo, hi []byte, include bool, err error) {
	include = q.include

	if q.lo == nil {
		lo = q.ownerPrefix
	} else {
		lo, err = encodeAgainst(q.ownerPrefix, q.lo)
		if err != nil {
			return nil, nil, false, err
		}
	}

	if q.hi == nil {
		var ok bool
		hi, ok = tuple.NextGreater(q.ownerPrefix)
		if !ok {
			return nil, nil, false, errors.Wrap(ErrMissingBound, "owner prefix has no upper bound")
		}
		if q.key == nil {
			include = false
		}
	} else {
		hi, err = encodeAgainst(q.ownerPrefix, q.hi)
		if err != nil {
			return nil, nil, false, err
		}
		if q.isIndex {
			var ok bool
			hi, ok = tuple.NextGreater(hi)
			if !ok {
				return nil, nil, false, errors.Wrap(ErrMissingBound, "index hi bound has no successor")
			}
		}
	}

	if q.key != nil {
		if q.reverse {
			hi, err = encodeAgainst(q.ownerPrefix, q.key)
			if err != nil {
				return nil, nil, false, err
			}
			if q.isIndex {
				var ok bool
				hi, ok = tuple.NextGreater(hi)
				if !ok {
					return nil, nil, false, errors.Wrap(ErrMissingBound, "index hi bound has no successor")
				}
			}
			include = true
		} else {
			lo, err = encodeAgainst(q.ownerPrefix, q.key)
			if err != nil {
				return nil, nil, false, err
			}
		}
	}

	return lo, hi, include, nil
}

// pairIter walks a bounded byte-key range lazily, yielding raw
// key/value pairs. It is the common engine underlying every read path
// in Collection and Index.
type pairIter struct {
	it      kv.Iterator
	lo, hi  []byte
	reverse bool
	include bool
	first   bool
	max     int
	n       int
	err     error
	done    bool
}

// newPairIter opens q against rw and returns a ready-to-walk iterator.
func newPairIter(store rw, q rangeQuery) (*pairIter, error) {
	lo, hi, include, err := resolveBounds(q)
	if err != nil {
		return nil, err
	}
	var it kv.Iterator
	if q.reverse {
		it, err = store.Scan(hi, true)
	} else {
		it, err = store.Scan(lo, false)
	}
	if err != nil {
		return nil, err
	}
	return &pairIter{it: it, lo: lo, hi: hi, reverse: q.reverse, include: include, first: true, max: q.max}, nil
}

// Next advances the iterator. It returns false once the range, the
// max-results cap, or the underlying engine iterator is exhausted.
func (p *pairIter) Next() bool {
	if p.done {
		return false
	}
	if p.max > 0 && p.n >= p.max {
		p.done = true
		return false
	}
	for p.it.Next() {
		k := p.it.Key()
		if p.reverse {
			if bytes.Compare(k, p.lo) < 0 {
				p.done = true
				return false
			}
			if p.first {
				p.first = false
				if !p.include && bytes.Compare(k, p.hi) >= 0 {
					continue
				}
			}
		} else {
			p.first = false
			if p.include {
				if bytes.Compare(k, p.hi) > 0 {
					p.done = true
					return false
				}
			} else {
				if bytes.Compare(k, p.hi) >= 0 {
					p.done = true
					return false
				}
			}
		}
		p.n++
		return true
	}
	p.done = true
	return false
}

func (p *pairIter) Key() []byte   { return p.it.Key() }
func (p *pairIter) Value() []byte { return p.it.Value() }

// Close releases the underlying engine iterator.
func (p *pairIter) Close() error {
	return p.it.Close()
}

// Err reports any error this iterator encountered past what Close
// reports from the underlying engine; currently always nil, since a
// pairIter only ever compares already-encoded byte keys, but callers
// that build decoding iterators on top of it funnel their own errors
// through a field with this name, so it is part of the shape they
// all follow.
func (p *pairIter) Err() error { return p.err }

// iterQuery holds the caller-facing options shared by every Collection
// and Index read path: an optional inclusive prefix (args), explicit
// bounds, direction, a result cap, and an optional transaction. A
// zero value walks an owner's entire key space forward.
type iterQuery struct {
	lo, hi       tuple.Tuple
	hasLo, hasHi bool
	reverse      bool
	max          int
	include      bool
	txn          kv.Txn
}

func defaultIterQuery() iterQuery {
	return iterQuery{include: true}
}

// IterOption configures a Collection or Index read (IterItems,
// IterKeys, IterValues, Index.IterPairs, and friends).
type IterOption func(*iterQuery)

// WithArgs sets lo = hi = args, inclusive: args acts as an inclusive
// prefix. On a Collection this matches the key equal to args; on an
// Index, whose explicit hi is widened by NextGreater, it matches
// entries whose index tuple equals args or extends it with further
// elements.
func WithArgs(args tuple.Tuple) IterOption {
	return func(q *iterQuery) {
		q.lo, q.hasLo = args, true
		q.hi, q.hasHi = args, true
		q.include = true
	}
}

// WithLo sets an explicit inclusive lower bound.
func WithLo(lo tuple.Tuple) IterOption {
	return func(q *iterQuery) { q.lo, q.hasLo = lo, true }
}

// WithHi sets an explicit upper bound, inclusive by default; combine
// with WithExclusive to make it exclusive.
func WithHi(hi tuple.Tuple) IterOption {
	return func(q *iterQuery) { q.hi, q.hasHi = hi, true }
}

// WithRange is a convenience for WithLo(lo) and WithHi(hi) together.
func WithRange(lo, hi tuple.Tuple) IterOption {
	return func(q *iterQuery) {
		q.lo, q.hasLo = lo, true
		q.hi, q.hasHi = hi, true
	}
}

// WithReverse walks the range from its greatest key to its least.
func WithReverse() IterOption {
	return func(q *iterQuery) { q.reverse = true }
}

// WithMax caps the number of results returned.
func WithMax(n int) IterOption {
	return func(q *iterQuery) { q.max = n }
}

// WithExclusive makes an explicit upper bound (WithHi, WithRange)
// exclusive instead of the default inclusive.
func WithExclusive() IterOption {
	return func(q *iterQuery) { q.include = false }
}

// WithTxn scopes the read to txn instead of the Store's engine.
func WithTxn(txn kv.Txn) IterOption {
	return func(q *iterQuery) { q.txn = txn }
}

// toRangeQuery builds the underlying rangeQuery for a scan rooted at
// ownerPrefix. isIndex marks the owner as an index, applying the
// extra successor fix-up an explicit hi needs there.
func (q iterQuery) toRangeQuery(ownerPrefix []byte, isIndex bool) rangeQuery {
	rq := rangeQuery{
		ownerPrefix: ownerPrefix,
		reverse:     q.reverse,
		max:         q.max,
		include:     q.include,
		isIndex:     isIndex,
	}
	if q.hasLo {
		rq.lo = tuple.Key{q.lo}
	}
	if q.hasHi {
		rq.hi = tuple.Key{q.hi}
	}
	return rq
}
