// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"github.com/cockroachdb/errors"

	"github.com/centidb/centidb/kv"
	"github.com/centidb/centidb/pack"
	"github.com/centidb/centidb/tuple"
)

// Collection provides access to one record collection contained
// within a Store, and keeps any indices registered on it consistent
// across Put and Delete.
type Collection struct {
	store *Store
	name  string
	idx   uint64

	prefix      []byte
	keyFunc     func(value any) (tuple.Tuple, error)
	txnKeyFunc  func(txn keyTxn, value any) (tuple.Tuple, error)
	derivedKeys bool
	virginKeys  bool
	encoder     pack.Encoder
	packer      pack.Packer

	indices map[string]*Index
}

// Name returns the collection's name, as given to Store.Collection.
func (c *Collection) Name() string { return c.name }

// resolve picks the rw handle a call should use: the caller's txn
// when given, otherwise the store's engine directly.
func (c *Collection) resolve(txn kv.Txn) rw {
	if txn != nil {
		return txn
	}
	return c.store.engine
}

// putConfig holds the per-call overrides accepted by Put.
type putConfig struct {
	key    tuple.Tuple
	hasKey bool
	packer pack.Packer
	virgin bool
}

// PutOption configures a single Collection.Put call.
type PutOption func(*putConfig)

// WithPutKey overrides the collection's key function for this write,
// forcing the record to be saved under key.
func WithPutKey(key tuple.Tuple) PutOption {
	return func(c *putConfig) { c.key, c.hasKey = key, true }
}

// WithPutPacker overrides the collection's default packer for this
// write.
func WithPutPacker(p pack.Packer) PutOption {
	return func(c *putConfig) { c.packer = p }
}

// WithPutVirgin skips the check for a stale colliding record that Put
// would otherwise perform before writing a brand new key. Always
// implied when the collection has no indices or was opened with
// WithVirginKeys.
func WithPutVirgin() PutOption {
	return func(c *putConfig) { c.virgin = true }
}

// AddIndex registers a secondary index on the collection. fn computes
// the index key(s) for a record's value: a single primitive, a
// tuple.Tuple, a []any mixing either, or a []tuple.Tuple (anything
// tuple.Normalize accepts). AddIndex may only be called once per
// unique name for a given Collection.
func (c *Collection) AddIndex(name string, fn func(value any) any) (*Index, error) {
	if _, exists := c.indices[name]; exists {
		return nil, errors.Newf("centidb: index %q already exists on collection %q", errors.Safe(name), errors.Safe(c.name))
	}
	infoName := "index:" + c.name + ":" + name
	idxNum, err := c.store.getInfo(infoName, c.name)
	if err != nil {
		return nil, errors.Wrapf(err, "adding index %s to collection %s", errors.Safe(name), errors.Safe(c.name))
	}
	index := &Index{
		coll:   c,
		name:   name,
		idx:    idxNum,
		prefix: collectionPrefix(c.store.prefix, idxNum),
		fn:     fn,
	}
	c.indices[name] = index
	return index, nil
}

// Index returns a previously registered index by name, or nil.
func (c *Collection) Index(name string) *Index {
	return c.indices[name]
}

// Get fetches a record's value by key. key is tuplized if it is not
// already a tuple.Tuple. Returns ErrNotFound if no record exists.
func (c *Collection) Get(key any, txn kv.Txn) (any, error) {
	rec, err := c.get(c.resolve(txn), tuplize(key))
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// GetRecord is Get's Record-carrier counterpart, for callers about to
// Put or Delete the value they fetched.
func (c *Collection) GetRecord(key any, txn kv.Txn) (*Record, error) {
	return c.get(c.resolve(txn), tuplize(key))
}

// get is the shared implementation behind Get, GetRecord, and every
// internal caller (Index dereference, Put/Delete's old-state lookups)
// that already holds a resolved rw handle.
func (c *Collection) get(store rw, key tuple.Tuple) (*Record, error) {
	q := rangeQuery{ownerPrefix: c.prefix, key: tuple.Key{key}}
	it, err := newPairIter(store, q)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	if !it.Next() {
		return nil, ErrNotFound
	}
	physKey := append([]byte(nil), it.Key()...)
	data := append([]byte(nil), it.Value()...)

	keys, err := tuple.Decode(len(c.prefix), physKey)
	if err != nil {
		return nil, err
	}
	last := keys[len(keys)-1]
	if !tuple.Equal(last, key) {
		return nil, ErrNotFound
	}

	payload, err := c.store.packers.Unpack(data)
	if err != nil {
		return nil, err
	}
	value, err := c.valueAt(payload, len(keys), len(keys)-1)
	if err != nil {
		return nil, err
	}
	indexKeys, err := c.indexKeysFor(key, value)
	if err != nil {
		return nil, err
	}
	rec := &Record{Value: value, coll: c, key: key, batch: len(keys) > 1, indexKeys: indexKeys}
	// Engines may expose a transaction identifier; when they do, the
	// carrier is stamped with it so callers can tell which transaction
	// a fetched record was observed under.
	if ider, ok := store.(interface{ TxnID() string }); ok {
		rec.txnID = ider.TxnID()
	}
	return rec, nil
}

// getRaw fetches a metadata record's full value tuple by its (short)
// stored key, against the store's engine directly. Used by Store for
// the collection registry.
func (c *Collection) getRaw(key tuple.Tuple) (tuple.Tuple, error) {
	return c.getRawWith(c.store.engine, key)
}

// getRawWith is getRaw threaded through an already-resolved rw, so
// Store.count can group its read with the matching write under one
// transaction.
func (c *Collection) getRawWith(store rw, key tuple.Tuple) (tuple.Tuple, error) {
	rec, err := c.get(store, key)
	if err != nil {
		return nil, err
	}
	t, ok := rec.Value.(tuple.Tuple)
	if !ok {
		return nil, errors.Newf("centidb: metadata record %v is not a tuple", key)
	}
	return t, nil
}

// putRawWith writes a metadata record given as a full value tuple
// (the record's key is its own keyFunc projection of that tuple),
// against an already-resolved rw.
func (c *Collection) putRawWith(store rw, value tuple.Tuple) (*Record, error) {
	return c.putWith(store, value)
}

// Put creates or overwrites a record. value may be a bare value
// recognized by the collection's Encoder, or a *Record returned by a
// prior Get/Put/Delete; passing the Record lets Put skip re-deriving
// and re-deleting index state that hasn't changed.
func (c *Collection) Put(value any, txn kv.Txn, opts ...PutOption) (*Record, error) {
	return c.putWith(c.resolve(txn), value, opts...)
}

func (c *Collection) putWith(store rw, value any, opts ...PutOption) (*Record, error) {
	cfg := putConfig{packer: c.packer}
	for _, o := range opts {
		o(&cfg)
	}

	rec := materialize(value)

	var newKey tuple.Tuple
	if cfg.hasKey {
		newKey = cfg.key
	} else {
		var err error
		newKey, err = c.reassignKey(store, rec)
		if err != nil {
			return nil, err
		}
	}

	newIndexKeys, err := c.indexKeysFor(newKey, rec.Value)
	if err != nil {
		return nil, err
	}

	if rec.coll == c && rec.key != nil {
		if rec.batch {
			if err := c.splitBatch(store, rec); err != nil {
				return nil, err
			}
		} else if !tuple.Equal(rec.key, newKey) {
			oldPhys, err := encodeAgainst(c.prefix, tuple.Key{rec.key})
			if err != nil {
				return nil, err
			}
			if err := store.Delete(oldPhys); err != nil {
				return nil, err
			}
		}
		if !sameIndexKeySet(newIndexKeys, rec.indexKeys) {
			for _, ik := range rec.indexKeys {
				if err := store.Delete(ik); err != nil {
					return nil, err
				}
			}
		}
	} else if len(c.indices) > 0 && !cfg.virgin && !c.virginKeys {
		if _, err := c.deletePrimary(store, newKey); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	packed, err := c.encoder.Pack(rec.Value)
	if err != nil {
		return nil, err
	}
	payload, err := pack.Pack(cfg.packer, packed)
	if err != nil {
		return nil, err
	}
	physKey, err := encodeAgainst(c.prefix, tuple.Key{newKey})
	if err != nil {
		return nil, err
	}
	if err := store.Put(physKey, payload); err != nil {
		return nil, err
	}
	for _, ik := range newIndexKeys {
		if err := store.Put(ik, nil); err != nil {
			return nil, err
		}
	}

	rec.coll = c
	rec.key = newKey
	rec.batch = false
	rec.indexKeys = newIndexKeys
	c.store.metrics.incPuts(c.name)
	return rec, nil
}

// reassignKey computes the key a record about to be written should
// use: an existing non-derived key is kept, otherwise the
// collection's key function is invoked.
func (c *Collection) reassignKey(store rw, rec *Record) (tuple.Tuple, error) {
	if rec.key != nil && !c.derivedKeys {
		return rec.key, nil
	}
	if c.txnKeyFunc != nil {
		return c.txnKeyFunc(store, rec.Value)
	}
	if c.keyFunc != nil {
		return c.keyFunc(rec.Value)
	}
	return nil, errors.Newf("centidb: collection %q has no key function", errors.Safe(c.name))
}

// valueAt decodes the i'th of n concatenated encoder-serialized
// values in an unpacked payload. For a batch physical key, payload
// holds one serialized value per logical key, in the same (descending)
// order as the keys, so a reader wanting logical key keys[i] must take
// value i, not the first value in the stream.
func (c *Collection) valueAt(payload []byte, n, i int) (any, error) {
	if n == 1 {
		return c.encoder.Unpack(payload)
	}
	mu, ok := c.encoder.(pack.MultiUnpacker)
	if !ok {
		return nil, newBatchInvariantViolation("centidb: encoder %s cannot read batches", c.encoder.Name())
	}
	values, err := mu.UnpackMany(payload, n)
	if err != nil {
		return nil, err
	}
	return values[i], nil
}

// indexKeysFor computes the full set of encoded index entries a
// record with the given primary key and value should have, across
// every index registered on the collection.
func (c *Collection) indexKeysFor(key tuple.Tuple, value any) ([][]byte, error) {
	if len(c.indices) == 0 {
		return nil, nil
	}
	var out [][]byte
	for _, idx := range c.indices {
		for _, tup := range tuple.Normalize(idx.fn(value)) {
			ik, err := encodeAgainst(idx.prefix, tuple.Key{tup, key})
			if err != nil {
				return nil, err
			}
			out = append(out, ik)
		}
	}
	return out, nil
}

// sameIndexKeySet reports whether a and b contain the same encoded
// index keys, ignoring order. When the sets differ, the whole prior
// set is deleted rather than a computed diff.
func sameIndexKeySet(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, k := range a {
		seen[string(k)]++
	}
	for _, k := range b {
		if seen[string(k)] == 0 {
			return false
		}
		seen[string(k)]--
	}
	return true
}

// deletePrimary deletes whatever record is currently stored under
// key, if any, including its index entries; used by Put's blind
// collision-clearing delete and shares its logic with Delete.
func (c *Collection) deletePrimary(store rw, key tuple.Tuple) (*Record, error) {
	rec, err := c.get(store, key)
	if err != nil {
		return nil, err
	}
	return rec, c.deleteRecord(store, rec)
}

func (c *Collection) deleteRecord(store rw, rec *Record) error {
	if rec.batch {
		if err := c.splitBatch(store, rec); err != nil {
			return err
		}
	} else {
		physKey, err := encodeAgainst(c.prefix, tuple.Key{rec.key})
		if err != nil {
			return err
		}
		if err := store.Delete(physKey); err != nil {
			return err
		}
		for _, ik := range rec.indexKeys {
			if err := store.Delete(ik); err != nil {
				return err
			}
		}
	}
	rec.key = nil
	rec.batch = false
	rec.indexKeys = nil
	return nil
}

// Delete removes a record by key or by Record carrier. The deleted
// Record is returned if it existed, with its key cleared.
func (c *Collection) Delete(obj any, txn kv.Txn) (*Record, error) {
	store := c.resolve(txn)

	var rec *Record
	if r, ok := obj.(*Record); ok {
		rec = r
	} else {
		var err error
		rec, err = c.get(store, tuplize(obj))
		if err != nil {
			return nil, err
		}
	}
	if rec.key == nil {
		return nil, ErrNotFound
	}
	if err := c.deleteRecord(store, rec); err != nil {
		return nil, err
	}
	c.store.metrics.incDeletes(c.name)
	return rec, nil
}

// splitBatch deletes the batch physical key backing rec, then re-saves
// every other logical record it held under its own key; rec's own
// member is not re-saved. It is a precondition that rec.batch is set; splitting happens before the caller's own write so that
// write sees an exploded layout.
func (c *Collection) splitBatch(store rw, rec *Record) error {
	q := rangeQuery{ownerPrefix: c.prefix, key: tuple.Key{rec.key}}
	it, err := newPairIter(store, q)
	if err != nil {
		return err
	}
	defer it.Close()
	if !it.Next() {
		return newBatchInvariantViolation("centidb: batch physical key missing for %v", rec.key)
	}
	phys := append([]byte(nil), it.Key()...)
	data := append([]byte(nil), it.Value()...)

	keys, err := tuple.Decode(len(c.prefix), phys)
	if err != nil {
		return err
	}
	if len(keys) < 2 {
		return newBatchInvariantViolation("centidb: physical key for %v is not a batch", rec.key)
	}
	found := false
	for _, k := range keys {
		if tuple.Equal(k, rec.key) {
			found = true
			break
		}
	}
	if !found {
		return newBatchInvariantViolation("centidb: batch at %x does not contain logical key %v", phys, rec.key)
	}

	payload, err := c.store.packers.Unpack(data)
	if err != nil {
		return err
	}
	mu, ok := c.encoder.(pack.MultiUnpacker)
	if !ok {
		return newBatchInvariantViolation("centidb: encoder %s cannot split batches", c.encoder.Name())
	}
	values, err := mu.UnpackMany(payload, len(keys))
	if err != nil {
		return err
	}

	if err := store.Delete(phys); err != nil {
		return err
	}
	for i, k := range keys {
		if tuple.Equal(k, rec.key) {
			continue
		}
		if _, err := c.putWith(store, values[i], WithPutKey(append(tuple.Tuple{}, k...))); err != nil {
			return err
		}
	}
	c.store.metrics.incBatchSplits(c.name)
	rec.key = nil
	rec.batch = false
	return nil
}

// Puts invokes Put for each element of values, in order, stopping at
// the first error.
func (c *Collection) Puts(values []any, txn kv.Txn, opts ...PutOption) ([]*Record, error) {
	out := make([]*Record, len(values))
	for i, v := range values {
		rec, err := c.Put(v, txn, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "puts: element %d", i)
		}
		out[i] = rec
	}
	return out, nil
}

// PutItems invokes Put for each pair in items, saving each value
// under its paired explicit key.
func (c *Collection) PutItems(items []KeyedValue, txn kv.Txn, opts ...PutOption) ([]*Record, error) {
	out := make([]*Record, len(items))
	for i, item := range items {
		itemOpts := append(append([]PutOption(nil), opts...), WithPutKey(item.Key))
		rec, err := c.Put(item.Value, txn, itemOpts...)
		if err != nil {
			return nil, errors.Wrapf(err, "putitems: element %d", i)
		}
		out[i] = rec
	}
	return out, nil
}

// Deletes invokes Delete for each element of objs, skipping any that
// do not exist.
func (c *Collection) Deletes(objs []any, txn kv.Txn) ([]*Record, error) {
	out := make([]*Record, 0, len(objs))
	for _, obj := range objs {
		rec, err := c.Delete(obj, txn)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteValue deletes a record without knowing its key, by deriving
// the key from value via the collection's key function. Requires
// WithDerivedKeys.
func (c *Collection) DeleteValue(value any, txn kv.Txn) (*Record, error) {
	if !c.derivedKeys {
		return nil, errors.Newf("centidb: DeleteValue requires collection %q to have derived keys", errors.Safe(c.name))
	}
	key, err := c.keyFunc(value)
	if err != nil {
		return nil, err
	}
	return c.Delete(key, txn)
}

// DeleteValues invokes DeleteValue for each element of values,
// skipping any that do not exist.
func (c *Collection) DeleteValues(values []any, txn kv.Txn) ([]*Record, error) {
	out := make([]*Record, 0, len(values))
	for _, v := range values {
		rec, err := c.DeleteValue(v, txn)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// CollItemIterator walks (key, value) pairs across an entire
// Collection or a bounded sub-range of it.
type CollItemIterator struct {
	pi   *pairIter
	coll *Collection
	key  tuple.Tuple
	val  any
	err  error
}

// IterItems returns an iterator over the collection's (key, value)
// pairs.
func (c *Collection) IterItems(opts ...IterOption) (*CollItemIterator, error) {
	q := defaultIterQuery()
	for _, o := range opts {
		o(&q)
	}
	pi, err := newPairIter(c.resolve(q.txn), q.toRangeQuery(c.prefix, false))
	if err != nil {
		return nil, err
	}
	return &CollItemIterator{pi: pi, coll: c}, nil
}

// IterKeys is IterItems projected to just the key.
func (c *Collection) IterKeys(opts ...IterOption) (*CollItemIterator, error) {
	return c.IterItems(opts...)
}

// IterValues is IterItems projected to just the value.
func (c *Collection) IterValues(opts ...IterOption) (*CollItemIterator, error) {
	return c.IterItems(opts...)
}

// Next advances the iterator. When a physical key holds a batch, only
// its smallest logical key and that key's decoded value are exposed;
// batch-aware splitting happens only on write.
func (it *CollItemIterator) Next() bool {
	if !it.pi.Next() {
		return false
	}
	physKey := append([]byte(nil), it.pi.Key()...)
	data := append([]byte(nil), it.pi.Value()...)

	keys, err := tuple.Decode(len(it.coll.prefix), physKey)
	if err != nil {
		it.err = err
		return false
	}
	payload, err := it.coll.store.packers.Unpack(data)
	if err != nil {
		it.err = err
		return false
	}
	value, err := it.coll.valueAt(payload, len(keys), len(keys)-1)
	if err != nil {
		it.err = err
		return false
	}
	it.key = keys[len(keys)-1]
	it.val = value
	return true
}

// Key returns the current entry's key.
func (it *CollItemIterator) Key() tuple.Tuple { return it.key }

// Value returns the current entry's value.
func (it *CollItemIterator) Value() any { return it.val }

// Err returns the first decoding error Next encountered, if any.
func (it *CollItemIterator) Err() error { return it.err }

// Close releases the iterator's underlying engine resources.
func (it *CollItemIterator) Close() error {
	if err := it.pi.Close(); err != nil {
		return err
	}
	return it.err
}

// PhysKeyIterator walks a collection's raw physical keys, each
// decoded to its list of logical keys.
type PhysKeyIterator struct {
	pi   *pairIter
	coll *Collection
	keys []tuple.Tuple
	err  error
}

// IterPhysKeys returns an iterator over the collection's physical
// keys, for diagnostics and batch-aware tooling.
func (c *Collection) IterPhysKeys(opts ...IterOption) (*PhysKeyIterator, error) {
	q := defaultIterQuery()
	for _, o := range opts {
		o(&q)
	}
	pi, err := newPairIter(c.resolve(q.txn), q.toRangeQuery(c.prefix, false))
	if err != nil {
		return nil, err
	}
	return &PhysKeyIterator{pi: pi, coll: c}, nil
}

// Next advances the iterator.
func (it *PhysKeyIterator) Next() bool {
	if !it.pi.Next() {
		return false
	}
	keys, err := tuple.Decode(len(it.coll.prefix), it.pi.Key())
	if err != nil {
		it.err = err
		return false
	}
	// Logical keys are stored in descending order within a physical
	// key; present them ascending.
	out := make([]tuple.Tuple, len(keys))
	for i, k := range keys {
		out[len(keys)-1-i] = k
	}
	it.keys = out
	return true
}

// Keys returns the current physical key's logical keys, ascending.
func (it *PhysKeyIterator) Keys() []tuple.Tuple { return it.keys }

// Err returns the first decoding error Next encountered, if any.
func (it *PhysKeyIterator) Err() error { return it.err }

// Close releases the iterator's underlying engine resources.
func (it *PhysKeyIterator) Close() error {
	if err := it.pi.Close(); err != nil {
		return err
	}
	return it.err
}
