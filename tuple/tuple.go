// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tuple implements an order-preserving codec for heterogeneous
// tuples of primitive values. Encoded byte strings compare, under
// unsigned lexicographic byte-string order, in the same order as the
// semantic ordering of the values they represent:
//
//	null < negative integer < non-negative integer < false < true <
//	byte string < text string < UUID < (continuation)
//
// A Key is an ordered sequence of Tuples; the common case is a single
// Tuple. Encoded keys are used both as primary-record keys and, packed
// together with a primary key, as secondary-index entries.
package tuple

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Kind tags the type of an encoded tuple element. These byte values are
// part of the on-disk format and are load-bearing for cross-type
// ordering; they must never be renumbered.
const (
	KindNull   byte = 0x0F
	KindNegInt byte = 0x14
	KindPosInt byte = 0x15
	KindBool   byte = 0x1E
	KindBytes  byte = 0x28
	KindText   byte = 0x32
	KindUUID   byte = 0x5A
	KindSep    byte = 0x66
)

// Tuple is an ordered sequence of primitive key elements. Supported
// element types are nil, bool, int, int64, []byte, string, and
// uuid.UUID. Any other type is a TypeError (ErrUnsupportedType) at
// encode time.
type Tuple []any

// Key is an ordered sequence of Tuples. A Key with more than one Tuple
// models the "tuple continuation" case from the data model: a longer
// sequence of tuples sorts after an otherwise-equal shorter one.
type Key []Tuple

// Of builds a single-Tuple Key from a list of primitive elements. It is
// the common-case constructor: Of(1, "a") is equivalent to the
// single-tuple key (1, "a").
func Of(elems ...any) Key {
	return Key{Tuple(elems)}
}

var (
	// ErrCorrupt reports that Decode encountered an unknown kind byte
	// or a truncated payload.
	ErrCorrupt = errors.New("tuple: corrupt key")
	// ErrUnsupportedType reports that a key tuple contains a value of
	// an unsupported type.
	ErrUnsupportedType = errors.New("tuple: unsupported element type")
)

// Encode appends the on-disk encoding of key to prefix and returns the
// result. Tuples within key are separated by a KindSep tag; no
// separator precedes the first tuple.
func Encode(prefix []byte, key Key) ([]byte, error) {
	buf := make([]byte, len(prefix), len(prefix)+16*len(key))
	copy(buf, prefix)
	for i, tup := range key {
		if i > 0 {
			buf = append(buf, KindSep)
		}
		for _, elem := range tup {
			var err error
			buf, err = encodeElem(buf, elem)
			if err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

// EncodeTuple is a convenience for Encode(prefix, Key{tup}).
func EncodeTuple(prefix []byte, tup Tuple) ([]byte, error) {
	return Encode(prefix, Key{tup})
}

func encodeElem(buf []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return append(buf, KindNull), nil
	case bool:
		buf = append(buf, KindBool)
		if x {
			return AppendVarint(buf, 1), nil
		}
		return AppendVarint(buf, 0), nil
	case int:
		return encodeInt(buf, int64(x))
	case int64:
		return encodeInt(buf, x)
	case []byte:
		buf = append(buf, KindBytes)
		return append(buf, escape(x)...), nil
	case string:
		buf = append(buf, KindText)
		return append(buf, escape([]byte(x))...), nil
	case uuid.UUID:
		buf = append(buf, KindUUID)
		return append(buf, escape(x[:])...), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "key element of type %T", v)
	}
}

func encodeInt(buf []byte, n int64) ([]byte, error) {
	if n < 0 {
		buf = append(buf, KindNegInt)
		return append(buf, Invert(EncodeVarint(negMagnitude(n)))...), nil
	}
	buf = append(buf, KindPosInt)
	return AppendVarint(buf, uint64(n)), nil
}

// negMagnitude returns -n as a uint64 without overflow, including for
// n == math.MinInt64.
func negMagnitude(n int64) uint64 {
	return uint64(-(n + 1)) + 1
}

// Invert returns a copy of b with every bit flipped. Applied to the
// varint encoding of a negative key element's magnitude, this causes
// larger magnitudes (more negative values) to sort earlier, matching
// the required cross-type ordering. It is also useful on its own for
// building manually descending byte-string or text orderings within a
// compound key.
func Invert(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c ^ 0xFF
	}
	return out
}

func escape(b []byte) []byte {
	out := make([]byte, 0, len(b)+2)
	for _, c := range b {
		switch c {
		case 0x00:
			out = append(out, 0x01, 0x01)
		case 0x01:
			out = append(out, 0x01, 0x02)
		default:
			out = append(out, c)
		}
	}
	return append(out, 0x00)
}

func unescape(buf []byte) ([]byte, int, error) {
	var out []byte
	i := 0
	for {
		if i >= len(buf) {
			return nil, 0, errors.Wrap(ErrCorrupt, "unterminated escaped string")
		}
		c := buf[i]
		i++
		if c == 0x00 {
			return out, i, nil
		}
		if c == 0x01 {
			if i >= len(buf) {
				return nil, 0, errors.Wrap(ErrCorrupt, "truncated escape sequence")
			}
			c2 := buf[i]
			i++
			switch c2 {
			case 0x01:
				out = append(out, 0x00)
			case 0x02:
				out = append(out, 0x01)
			default:
				return nil, 0, errors.Wrapf(ErrCorrupt, "bad escape sequence 0x01 0x%02x", c2)
			}
			continue
		}
		out = append(out, c)
	}
}

// Decode parses the encoded Key following the first prefixLen bytes of
// buf (those bytes, typically a collection or index prefix, are
// skipped unexamined).
func Decode(prefixLen int, buf []byte) (Key, error) {
	if prefixLen > len(buf) {
		return nil, errors.Wrap(ErrCorrupt, "prefix longer than input")
	}
	return decode(buf[prefixLen:], false)
}

// DecodeFirst parses only the first Tuple following prefixLen bytes of
// buf and returns it directly, without allocating a Key for any
// remaining tuples. On a batch physical key, the first tuple is the
// batch's greatest logical key.
func DecodeFirst(prefixLen int, buf []byte) (Tuple, error) {
	if prefixLen > len(buf) {
		return nil, errors.Wrap(ErrCorrupt, "prefix longer than input")
	}
	tups, err := decode(buf[prefixLen:], true)
	if err != nil {
		return nil, err
	}
	return tups[0], nil
}

func decode(buf []byte, first bool) ([]Tuple, error) {
	var tups []Tuple
	cur := Tuple{}
	i := 0
	for i < len(buf) {
		kind := buf[i]
		i++
		if kind == KindSep {
			tups = append(tups, cur)
			if first {
				return tups, nil
			}
			cur = Tuple{}
			continue
		}
		elem, n, err := decodeElem(kind, buf[i:])
		if err != nil {
			return nil, err
		}
		i += n
		cur = append(cur, elem)
	}
	tups = append(tups, cur)
	return tups, nil
}

func decodeElem(kind byte, buf []byte) (any, int, error) {
	switch kind {
	case KindNull:
		return nil, 0, nil
	case KindPosInt:
		v, n, err := DecodeVarint(buf)
		if err != nil {
			return nil, 0, err
		}
		return int64(v), n, nil
	case KindNegInt:
		v, n, err := decodeInvertedVarint(buf)
		if err != nil {
			return nil, 0, err
		}
		return -int64(v), n, nil
	case KindBool:
		v, n, err := DecodeVarint(buf)
		if err != nil {
			return nil, 0, err
		}
		return v != 0, n, nil
	case KindBytes:
		s, n, err := unescape(buf)
		if err != nil {
			return nil, 0, err
		}
		return s, n, nil
	case KindText:
		s, n, err := unescape(buf)
		if err != nil {
			return nil, 0, err
		}
		return string(s), n, nil
	case KindUUID:
		s, n, err := unescape(buf)
		if err != nil {
			return nil, 0, err
		}
		if len(s) != 16 {
			return nil, 0, errors.Wrapf(ErrCorrupt, "uuid payload length %d != 16", len(s))
		}
		var u uuid.UUID
		copy(u[:], s)
		return u, n, nil
	default:
		return nil, 0, errors.Wrapf(ErrCorrupt, "unknown kind byte 0x%02x", kind)
	}
}

func decodeInvertedVarint(buf []byte) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, errors.Wrap(ErrCorrupt, "empty inverted varint")
	}
	w := varintWidth(buf[0] ^ 0xFF)
	if len(buf) < w {
		return 0, 0, errors.Wrap(ErrCorrupt, "truncated inverted varint")
	}
	tmp := Invert(buf[:w])
	v, n, err := DecodeVarint(tmp)
	if err != nil {
		return 0, 0, err
	}
	return v, n, nil
}

func varintWidth(b0 byte) int {
	switch {
	case b0 <= 240:
		return 1
	case b0 <= 248:
		return 2
	case b0 == 249:
		return 3
	case b0 == 250:
		return 4
	case b0 == 251:
		return 5
	case b0 == 252:
		return 6
	case b0 == 253:
		return 7
	case b0 == 254:
		return 8
	default:
		return 9
	}
}

// NextGreater returns the shortest byte string strictly greater than
// every string prefixed by s, and true, or false if no such bounded
// string exists (s is empty or consists entirely of 0xFF bytes).
// Used to form open upper bounds for prefix scans.
func NextGreater(s []byte) ([]byte, bool) {
	i := len(s)
	for i > 0 && s[i-1] == 0xFF {
		i--
	}
	if i == 0 {
		return nil, false
	}
	out := make([]byte, i)
	copy(out, s[:i])
	out[i-1]++
	return out, true
}

// Normalize accepts the result of an index function — a single
// primitive, a Tuple, a []any mixing primitives and Tuples, or a
// []Tuple — and returns the equivalent list of Tuples. A bare
// primitive is promoted to a one-element Tuple; likewise for each
// non-Tuple element of a []any.
func Normalize(v any) []Tuple {
	switch vv := v.(type) {
	case []Tuple:
		return vv
	case []any:
		out := make([]Tuple, 0, len(vv))
		for _, item := range vv {
			out = append(out, tuplize(item))
		}
		return out
	case Tuple:
		return []Tuple{vv}
	default:
		return []Tuple{tuplize(v)}
	}
}

func tuplize(v any) Tuple {
	if t, ok := v.(Tuple); ok {
		return t
	}
	return Tuple{v}
}

// Equal reports whether two Tuples hold equal elements. []byte and
// uuid.UUID elements compare by value.
func Equal(a, b Tuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !elemEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func elemEqual(a, b any) bool {
	ab, aIsBytes := a.([]byte)
	bb, bIsBytes := b.([]byte)
	if aIsBytes || bIsBytes {
		return aIsBytes && bIsBytes && string(ab) == string(bb)
	}
	return a == b
}
