// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centidb/centidb/kv/memkv"
)

func openTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	s, err := Open(memkv.New(), opts...)
	require.NoError(t, err)
	return s
}

func TestOpenBootstrapsMetaCollections(t *testing.T) {
	s := openTestStore(t)
	require.Equal(t, "\x00collections", s.Collections().Name())
	require.Equal(t, "\x00counters", s.Counters().Name())
}

func TestCountAllocatesSequentially(t *testing.T) {
	s := openTestStore(t)
	v1, err := s.Count("widgets", 1, 1, nil)
	require.NoError(t, err)
	v2, err := s.Count("widgets", 1, 1, nil)
	require.NoError(t, err)
	v3, err := s.Count("widgets", 5, 1, nil)
	require.NoError(t, err)

	require.Equal(t, uint64(1), v1)
	require.Equal(t, uint64(2), v2)
	require.Equal(t, uint64(3), v3)
}

func TestCollectionOpenIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	c1, err := s.Collection("people")
	require.NoError(t, err)
	c2, err := s.Collection("people")
	require.NoError(t, err)
	require.Equal(t, c1.idx, c2.idx)
}

func TestCollectionsRegistryListsEveryCollectionAndIndex(t *testing.T) {
	s := openTestStore(t)
	people, err := s.Collection("people")
	require.NoError(t, err)
	_, err = people.AddIndex("by_email", func(v any) any { return v.(map[string]any)["email"] })
	require.NoError(t, err)

	it, err := s.Collections().IterItems()
	require.NoError(t, err)
	defer it.Close()

	var count int
	for it.Next() {
		count++
	}
	require.NoError(t, it.Err())
	require.Equal(t, 2, count, "want one entry for the collection and one for its index")
}
