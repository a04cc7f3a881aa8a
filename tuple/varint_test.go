// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tuple

import (
	"bytes"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

// boundary values on each side of a width transition.
var varintBoundaries = []uint64{
	0, 240, 241, 2287, 2288, 67823, 67824,
	16777215, 16777216,
	4294967295, 4294967296,
	1099511627775, 1099511627776,
	281474976710655, 281474976710656,
	72057594037927935, 72057594037927936,
}

func TestVarintBoundariesRoundTrip(t *testing.T) {
	for _, v := range varintBoundaries {
		enc := EncodeVarint(v)
		got, n, err := DecodeVarint(enc)
		require.NoError(t, err)
		require.Equal(t, len(enc), n)
		require.Equal(t, v, got)
	}
}

func TestVarintBoundariesStrictlyIncreasing(t *testing.T) {
	prev := EncodeVarint(varintBoundaries[0])
	for i, v := range varintBoundaries[1:] {
		enc := EncodeVarint(v)
		require.Less(t, bytes.Compare(prev, enc), 0, "encode(%d) should sort before encode(%d)", varintBoundaries[i], v)
		prev = enc
	}
}

// Round-trip and order law for varints, checked against a random
// sample since the full uint64 range is infeasible to enumerate.
func TestVarintRoundTripProperty(t *testing.T) {
	f := func(v uint64) bool {
		got, n, err := DecodeVarint(EncodeVarint(v))
		return err == nil && n == len(EncodeVarint(v)) && got == v
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 2000}))
}

func TestVarintOrderProperty(t *testing.T) {
	f := func(a, b uint64) bool {
		ea, eb := EncodeVarint(a), EncodeVarint(b)
		switch {
		case a < b:
			return bytes.Compare(ea, eb) < 0
		case a > b:
			return bytes.Compare(ea, eb) > 0
		default:
			return bytes.Equal(ea, eb)
		}
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 5000}))
}

func TestDecodeVarintTruncated(t *testing.T) {
	full := EncodeVarint(72057594037927936)
	for n := 0; n < len(full); n++ {
		_, _, err := DecodeVarint(full[:n])
		require.Error(t, err)
	}
}
