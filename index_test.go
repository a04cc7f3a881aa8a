// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centidb/centidb/pack"
	"github.com/centidb/centidb/tuple"
)

func newPeopleCollection(t *testing.T, s *Store) (*Collection, *Index) {
	t.Helper()
	c, err := s.Collection("people",
		WithEncoder(pack.KeyEncoder{}),
		WithKeyFunc(func(v any) (tuple.Tuple, error) {
			return tuple.Tuple{v.(tuple.Tuple)[0]}, nil
		}),
	)
	require.NoError(t, err)
	idx, err := c.AddIndex("by_dept", func(v any) any { return v.(tuple.Tuple)[1] })
	require.NoError(t, err)
	return c, idx
}

func TestIndexFindAndGets(t *testing.T) {
	s := openTestStore(t)
	c, idx := newPeopleCollection(t, s)

	_, err := c.Put(tuple.Tuple{"alice", "eng"}, nil)
	require.NoError(t, err)
	_, err = c.Put(tuple.Tuple{"bob", "eng"}, nil)
	require.NoError(t, err)
	_, err = c.Put(tuple.Tuple{"carol", "sales"}, nil)
	require.NoError(t, err)

	v, err := idx.Find(WithArgs(tuple.Tuple{"sales"}))
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"carol", "sales"}, v)

	_, err = idx.Find(WithArgs(tuple.Tuple{"marketing"}))
	require.ErrorIs(t, err, ErrNotFound)

	got, err := idx.Gets([]any{"eng", "sales", "marketing"}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2, "the unmatched department should be silently skipped")
}

// recordingLogger captures Warningf calls for assertions.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Infof(string, ...any) {}
func (l *recordingLogger) Warningf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// TestIndexIterValuesSkipsStaleEntries: an index entry whose primary
// record has vanished (here, deleted directly against the engine
// rather than through Collection.Delete, simulating a corrupted
// index) is logged and skipped rather than failing the whole
// iteration.
func TestIndexIterValuesSkipsStaleEntries(t *testing.T) {
	logger := &recordingLogger{}
	s := openTestStore(t, WithLogger(logger))
	c, idx := newPeopleCollection(t, s)

	_, err := c.Put(tuple.Tuple{"alice", "eng"}, nil)
	require.NoError(t, err)
	_, err = c.Put(tuple.Tuple{"bob", "eng"}, nil)
	require.NoError(t, err)

	physKey, err := encodeAgainst(c.prefix, tuple.Key{tuple.Tuple{"alice"}})
	require.NoError(t, err)
	require.NoError(t, s.engine.Delete(physKey))

	it, err := idx.IterValues(WithArgs(tuple.Tuple{"eng"}))
	require.NoError(t, err)
	defer it.Close()

	var values []any
	for it.Next() {
		values = append(values, it.Value())
	}
	require.NoError(t, it.Err())
	require.Equal(t, []any{tuple.Tuple{"bob", "eng"}}, values)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.warnings, 1)
}

func collectPairs(t *testing.T, idx *Index, opts ...IterOption) [][2]tuple.Tuple {
	t.Helper()
	it, err := idx.IterPairs(opts...)
	require.NoError(t, err)
	defer it.Close()
	var out [][2]tuple.Tuple
	for it.Next() {
		out = append(out, [2]tuple.Tuple{it.Tuple(), it.Key()})
	}
	require.NoError(t, it.Err())
	return out
}

// TestIndexStaysConsistentAcrossRenameAndDelete: records keyed by a
// value-derived name, indexed by that same name, yield IterPairs in
// index order; renaming a record moves both its primary entry and its
// index entry, and deleting removes both.
func TestIndexStaysConsistentAcrossRenameAndDelete(t *testing.T) {
	s := openTestStore(t)
	c, err := s.Collection("people",
		WithEncoder(pack.KeyEncoder{}),
		WithKeyFunc(func(v any) (tuple.Tuple, error) {
			return tuple.Tuple{v.(tuple.Tuple)[0]}, nil
		}),
		WithDerivedKeys(),
	)
	require.NoError(t, err)
	idx, err := c.AddIndex("name", func(v any) any { return v.(tuple.Tuple)[0] })
	require.NoError(t, err)

	for _, name := range []string{"David", "Charles", "Andrew"} {
		_, err := c.Put(tuple.Tuple{name}, nil)
		require.NoError(t, err)
	}

	require.Equal(t, [][2]tuple.Tuple{
		{{"Andrew"}, {"Andrew"}},
		{{"Charles"}, {"Charles"}},
		{{"David"}, {"David"}},
	}, collectPairs(t, idx))

	rec, err := c.GetRecord("Charles", nil)
	require.NoError(t, err)
	rec.Value = tuple.Tuple{"Chuck"}
	_, err = c.Put(rec, nil)
	require.NoError(t, err)

	_, err = c.Get("Charles", nil)
	require.ErrorIs(t, err, ErrNotFound)
	v, err := idx.Get("Chuck", nil)
	require.NoError(t, err)
	require.Equal(t, tuple.Tuple{"Chuck"}, v)
	_, err = idx.Get("Charles", nil)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.Delete("Andrew", nil)
	require.NoError(t, err)

	require.Equal(t, [][2]tuple.Tuple{
		{{"Chuck"}, {"Chuck"}},
		{{"David"}, {"David"}},
	}, collectPairs(t, idx))
}
