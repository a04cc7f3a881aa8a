// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centidb/centidb/pack"
	"github.com/centidb/centidb/tuple"
)

func TestPutGetWithCounterAssignedKeys(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("events")
	require.NoError(t, err)

	r1, err := c.Put("first", nil)
	require.NoError(t, err)
	r2, err := c.Put("second", nil)
	require.NoError(t, err)

	require.Equal(t, tuple.Tuple{int64(1)}, r1.Key())
	require.Equal(t, tuple.Tuple{int64(2)}, r2.Key())

	v, err := c.Get(int64(1), nil)
	require.NoError(t, err)
	require.Equal(t, "first", v)
}

func TestPutGetWithExplicitKeyFunc(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("people", WithKeyFunc(func(v any) (tuple.Tuple, error) {
		return tuple.Tuple{v.(tuple.Tuple)[0]}, nil
	}), WithEncoder(pack.KeyEncoder{}))
	require.NoError(t, err)

	_, err = c.Put(tuple.Tuple{"alice", "alice@example.com"}, nil)
	require.NoError(t, err)

	v, err := c.Get("alice", nil)
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"alice", "alice@example.com"}, v)

	_, err = c.Get("bob", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDerivedKeysReassignOnValueChange(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("people",
		WithEncoder(pack.KeyEncoder{}),
		WithKeyFunc(func(v any) (tuple.Tuple, error) {
			return tuple.Tuple{v.(tuple.Tuple)[0]}, nil
		}),
		WithDerivedKeys(),
	)
	require.NoError(t, err)

	rec, err := c.Put(tuple.Tuple{"alice", "alice@example.com"}, nil)
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"alice"}, rec.Key())

	rec.Value = tuple.Tuple{"alicia", "alice@example.com"}
	rec2, err := c.Put(rec, nil)
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"alicia"}, rec2.Key())

	_, err = c.Get("alice", nil)
	require.ErrorIs(t, err, ErrNotFound)

	v, err := c.Get("alicia", nil)
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"alicia", "alice@example.com"}, v)
}

func TestDeleteRemovesRecordAndIndexEntries(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("people",
		WithEncoder(pack.KeyEncoder{}),
		WithKeyFunc(func(v any) (tuple.Tuple, error) {
			return tuple.Tuple{v.(tuple.Tuple)[0]}, nil
		}),
	)
	require.NoError(t, err)
	idx, err := c.AddIndex("by_email", func(v any) any { return v.(tuple.Tuple)[1] })
	require.NoError(t, err)

	_, err = c.Put(tuple.Tuple{"alice", "alice@example.com"}, nil)
	require.NoError(t, err)

	v, err := idx.Get("alice@example.com", nil)
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"alice", "alice@example.com"}, v)

	_, err = c.Delete("alice", nil)
	require.NoError(t, err)

	_, err = c.Get("alice", nil)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = idx.Get("alice@example.com", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBulkPutsPutItemsDeletes(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("events")
	require.NoError(t, err)

	recs, err := c.Puts([]any{"a", "b", "c"}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	items, err := c.PutItems([]KeyedValue{
		{Key: tuple.Tuple{int64(100)}, Value: "hundred"},
		{Key: tuple.Tuple{int64(200)}, Value: "two-hundred"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	v, err := c.Get(int64(100), nil)
	require.NoError(t, err)
	require.Equal(t, "hundred", v)

	deleted, err := c.Deletes([]any{int64(100), int64(9999)}, nil)
	require.NoError(t, err)
	require.Len(t, deleted, 1, "the missing key should be skipped, not errored")
}

func TestIterItemsForwardReverseAndMax(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("events")
	require.NoError(t, err)
	_, err = c.Puts([]any{"a", "b", "c", "d"}, nil)
	require.NoError(t, err)

	it, err := c.IterItems()
	require.NoError(t, err)
	var forward []any
	for it.Next() {
		forward = append(forward, it.Value())
	}
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	require.Equal(t, []any{"a", "b", "c", "d"}, forward)

	rit, err := c.IterItems(WithReverse())
	require.NoError(t, err)
	var reverse []any
	for rit.Next() {
		reverse = append(reverse, rit.Value())
	}
	require.NoError(t, rit.Err())
	require.NoError(t, rit.Close())
	require.Equal(t, []any{"d", "c", "b", "a"}, reverse)

	mit, err := c.IterItems(WithMax(2))
	require.NoError(t, err)
	var limited []any
	for mit.Next() {
		limited = append(limited, mit.Value())
	}
	require.NoError(t, mit.Close())
	require.Equal(t, []any{"a", "b"}, limited)
}

// TestBatchSplitOnPut checks that a physical key holding multiple
// descending logical records (as an out-of-band batch writer would
// produce) is transparently exploded the first time its carrier is
// written again. A point Get only ever matches a batch's smallest
// logical key, so that is the member this test fetches and re-saves;
// the other member, k3, is recovered purely from splitBatch's
// MultiUnpacker pass and must survive untouched.
func TestBatchSplitOnPut(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("events")
	require.NoError(t, err)

	k3 := tuple.Tuple{int64(3)}
	k1 := tuple.Tuple{int64(1)}
	physKey, err := encodeAgainst(c.prefix, tuple.Key{k3, k1})
	require.NoError(t, err)

	p1, err := c.encoder.Pack("three")
	require.NoError(t, err)
	p2, err := c.encoder.Pack("one")
	require.NoError(t, err)
	payload, err := pack.Pack(c.packer, append(append([]byte(nil), p1...), p2...))
	require.NoError(t, err)

	require.NoError(t, s.engine.Put(physKey, payload))

	rec, err := c.GetRecord(int64(1), nil)
	require.NoError(t, err)
	require.True(t, rec.Batch())
	require.Equal(t, "one", rec.Value, "a batch member's own value must be decoded, not the batch's first")

	rec.Value = "ONE-REPLACED"
	_, err = c.Put(rec, nil)
	require.NoError(t, err)

	v, err := c.Get(int64(3), nil)
	require.NoError(t, err)
	require.Equal(t, "three", v, "the untouched batch member must survive the split under its own key")

	v, err = c.Get(int64(1), nil)
	require.NoError(t, err)
	require.Equal(t, "ONE-REPLACED", v)
}
