// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package memkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centidb/centidb/kv"
)

func collect(t *testing.T, it kv.Iterator) [][2]string {
	t.Helper()
	var out [][2]string
	for it.Next() {
		out = append(out, [2]string{string(it.Key()), string(it.Value())})
	}
	require.NoError(t, it.Close())
	return out
}

func TestGetPutDelete(t *testing.T) {
	e := New()
	_, err := e.Get([]byte("a"))
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, e.Put([]byte("a"), []byte("1")))
	v, err := e.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	require.NoError(t, e.Delete([]byte("a")))
	_, err = e.Get([]byte("a"))
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestScanForwardAndReverse(t *testing.T) {
	e := New()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, e.Put([]byte(k), []byte(k+k)))
	}

	fwd, err := e.Scan([]byte("b"), false)
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"b", "bb"}, {"c", "cc"}, {"d", "dd"}}, collect(t, fwd))

	rev, err := e.Scan([]byte("c"), true)
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"c", "cc"}, {"b", "bb"}, {"a", "aa"}}, collect(t, rev))
}

func TestUpdateGroupsWrites(t *testing.T) {
	e := New()
	err := e.Update(func(txn kv.Txn) error {
		require.NoError(t, txn.Put([]byte("x"), []byte("1")))
		require.NoError(t, txn.Put([]byte("y"), []byte("2")))
		return nil
	})
	require.NoError(t, err)

	v, err := e.Get([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)
	v, err = e.Get([]byte("y"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), v)
}
