// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tuple

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, key Key) []byte {
	t.Helper()
	b, err := Encode(nil, key)
	require.NoError(t, err)
	return b
}

// Cross-type ordering: one encoded representative of each kind, in
// the order the codec must preserve.
func TestCrossTypeOrdering(t *testing.T) {
	uuidZero := uuid.UUID{}
	encs := [][]byte{
		mustEncode(t, Of(nil)),
		mustEncode(t, Of(int64(-1))),
		mustEncode(t, Of(int64(0))),
		mustEncode(t, Of(false)),
		mustEncode(t, Of(true)),
		mustEncode(t, Of([]byte(""))),
		mustEncode(t, Of("")),
		mustEncode(t, Of(uuidZero)),
	}
	for i := 1; i < len(encs); i++ {
		require.Truef(t, bytes.Compare(encs[i-1], encs[i]) < 0, "element %d should sort before %d", i-1, i)
	}
}

// Escaping round-trips for byte strings containing the escape bytes
// themselves.
func TestEscapingRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("dave\x00\x00"),
		[]byte("dave\x00\x01"),
		[]byte("dave\x01\x01"),
		[]byte("dave\x01\x02"),
		[]byte("dave\x01"),
	}
	for _, c := range cases {
		enc := mustEncode(t, Of(c))
		dec, err := Decode(0, enc)
		require.NoError(t, err)
		require.Len(t, dec, 1)
		require.Len(t, dec[0], 1)
		require.Equal(t, c, dec[0][0].([]byte))
	}
}

// String prefix ordering: the 0x00 terminator must not make a short
// string sort after its own extensions.
func TestStringPrefixOrdering(t *testing.T) {
	strs := []string{"dave", "dave\x00", "dave\x01", "davee\x01"}
	var prev []byte
	for i, s := range strs {
		enc := mustEncode(t, Of(s))
		if i > 0 {
			require.Truef(t, bytes.Compare(prev, enc) < 0, "%q should sort before %q", strs[i-1], s)
		}
		prev = enc
	}
}

// Tuple continuation: a longer tuple list sorts after the
// prefix-equal shorter one.
func TestTupleContinuation(t *testing.T) {
	shorter := mustEncode(t, Key{Tuple{"a"}})
	longer := mustEncode(t, Key{Tuple{"a"}, Tuple{"a"}})
	require.True(t, bytes.Compare(shorter, longer) < 0)
}

// Round-trip law across all supported types.
func TestRoundTripAllTypes(t *testing.T) {
	u := uuid.New()
	key := Key{
		Tuple{nil, int64(-12345), int64(67890), true, false},
		Tuple{[]byte("blob\x00\x01"), "text\x00\x01", u},
	}
	enc := mustEncode(t, key)
	dec, err := Decode(0, enc)
	require.NoError(t, err)
	require.Len(t, dec, len(key))
	for i := range key {
		require.True(t, Equal(dec[i], key[i]), "tuple %d: got %#v want %#v", i, dec[i], key[i])
	}
}

func TestDecodeFirstStopsAtFirstTuple(t *testing.T) {
	key := Key{Tuple{int64(1)}, Tuple{int64(2)}, Tuple{int64(3)}}
	enc := mustEncode(t, key)
	first, err := DecodeFirst(0, enc)
	require.NoError(t, err)
	require.True(t, Equal(first, Tuple{int64(1)}))
}

func TestPrefixIsSkippedOnDecode(t *testing.T) {
	prefix := []byte{7, 8, 9}
	enc := mustEncode(t, Of(int64(42)))
	full := append(append([]byte{}, prefix...), enc...)
	dec, err := Decode(len(prefix), full)
	require.NoError(t, err)
	require.Len(t, dec, 1)
	require.Equal(t, int64(42), dec[0][0])
}

func TestUnsupportedTypeIsTypeError(t *testing.T) {
	_, err := Encode(nil, Of(3.14))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestCorruptKindByte(t *testing.T) {
	_, err := Decode(0, []byte{0x99})
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestNextGreater(t *testing.T) {
	cases := []struct {
		in   []byte
		want []byte
		ok   bool
	}{
		{[]byte{}, nil, false},
		{[]byte{0x00}, []byte{0x01}, true},
		{[]byte{0xFF}, []byte{}, false},
		{[]byte{0x00, 0x00}, []byte{0x00, 0x01}, true},
		{[]byte{0x00, 0xFF}, []byte{0x01}, true},
		{[]byte{0xFF, 0xFF}, nil, false},
	}
	for _, c := range cases {
		got, ok := NextGreater(c.in)
		require.Equal(t, c.ok, ok, "input %v", c.in)
		if ok {
			require.Equal(t, c.want, got, "input %v", c.in)
		}
	}
}

// NextGreater(s) bounds every extension of s, and nothing beyond.
func TestNextGreaterBoundsExtensions(t *testing.T) {
	s := []byte("prefix")
	ng, ok := NextGreater(s)
	require.True(t, ok)
	exts := [][]byte{
		append(append([]byte{}, s...), 0x00),
		append(append([]byte{}, s...), 0xFF),
		append(append([]byte{}, s...), "suffix"...),
	}
	for _, e := range exts {
		require.True(t, bytes.Compare(e, ng) < 0, "extension %q should sort before NextGreater", e)
	}
	require.True(t, bytes.Compare(s, ng) < 0)
}

// Ordering property: byte order of encodings must agree with an
// independent semantic comparator over small random tuples.
func TestOrderingPropertyRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		a := randomKey(rng)
		b := randomKey(rng)
		wantLess := semanticLess(a, b)
		wantEq := semanticEqualKey(a, b)
		ea := mustEncode(t, a)
		eb := mustEncode(t, b)
		cmp := bytes.Compare(ea, eb)
		switch {
		case wantEq:
			require.Equal(t, 0, cmp, "a=%#v b=%#v", a, b)
		case wantLess:
			require.Truef(t, cmp < 0, "expected encode(a) < encode(b): a=%#v b=%#v", a, b)
		default:
			require.Truef(t, cmp > 0, "expected encode(a) > encode(b): a=%#v b=%#v", a, b)
		}
	}
}

func randomKey(rng *rand.Rand) Key {
	n := 1 + rng.Intn(2)
	k := make(Key, n)
	for i := range k {
		k[i] = randomTuple(rng)
	}
	return k
}

func randomTuple(rng *rand.Rand) Tuple {
	n := rng.Intn(3)
	t := make(Tuple, n)
	for i := range t {
		t[i] = randomElem(rng)
	}
	return t
}

func randomElem(rng *rand.Rand) any {
	switch rng.Intn(7) {
	case 0:
		return nil
	case 1:
		return int64(rng.Intn(21) - 10)
	case 2:
		return int64(rng.Intn(21))
	case 3:
		return rng.Intn(2) == 0
	case 4:
		return []byte{byte(rng.Intn(4))}
	case 5:
		return string([]byte{byte('a' + rng.Intn(3))})
	default:
		var u uuid.UUID
		u[0] = byte(rng.Intn(4))
		return u
	}
}

// elemRank assigns each element kind its cross-type order rank.
func elemRank(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		if x < 0 {
			return 1
		}
		return 2
	case bool:
		if !x {
			return 3
		}
		return 4
	case []byte:
		return 5
	case string:
		return 6
	case uuid.UUID:
		return 7
	default:
		return 8
	}
}

func semanticElemLess(a, b any) (less, eq bool) {
	ra, rb := elemRank(a), elemRank(b)
	if ra != rb {
		return ra < rb, false
	}
	switch x := a.(type) {
	case nil:
		return false, true
	case int64:
		y := b.(int64)
		if x == y {
			return false, true
		}
		if ra == 1 { // both negative: more negative sorts first
			return x < y, false
		}
		return x < y, false
	case bool:
		return false, true // equal rank implies equal bool
	case []byte:
		y := b.([]byte)
		c := bytes.Compare(x, y)
		return c < 0, c == 0
	case string:
		y := b.(string)
		if x == y {
			return false, true
		}
		return x < y, false
	case uuid.UUID:
		y := b.(uuid.UUID)
		c := bytes.Compare(x[:], y[:])
		return c < 0, c == 0
	}
	return false, true
}

func semanticTupleCompare(a, b Tuple) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		less, eq := semanticElemLess(a[i], b[i])
		if !eq {
			if less {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// keySep stands for the boundary between two tuples of a Key. Its
// elemRank is above every element kind, as the continuation rule puts
// it after UUID.
type keySep struct{}

// flatten lays a Key out as one element sequence, with a keySep
// between consecutive tuples.
func flatten(k Key) Tuple {
	var out Tuple
	for i, tup := range k {
		if i > 0 {
			out = append(out, keySep{})
		}
		out = append(out, tup...)
	}
	return out
}

func semanticLess(a, b Key) bool {
	return semanticTupleCompare(flatten(a), flatten(b)) < 0
}

func semanticEqualKey(a, b Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if semanticTupleCompare(a[i], b[i]) != 0 {
			return false
		}
	}
	return true
}

func TestNormalize(t *testing.T) {
	require.Equal(t, []Tuple{{1}}, Normalize(1))
	require.Equal(t, []Tuple{{1, 2}}, Normalize(Tuple{1, 2}))
	require.Equal(t, []Tuple{{1}, {2}}, Normalize([]any{1, 2}))
	require.Equal(t, []Tuple{{1, "x"}, {2, "y"}}, Normalize([]Tuple{{1, "x"}, {2, "y"}}))
}
