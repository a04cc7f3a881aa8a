// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tuple

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// EncodeVarint encodes a non-negative integer in the range [0, 2^64-1]
// using a variable-length scheme chosen so that unsigned byte-string
// comparison of the encoded output matches integer comparison.
//
// The width is selected by the leading byte:
//
//	0-240    -> 1 byte,  value is the byte itself
//	241-248  -> 2 bytes, value in [241, 2287]
//	249      -> 3 bytes, value in [2288, 67823]
//	250      -> 4 bytes, big-endian 24-bit tail
//	251      -> 5 bytes, big-endian 32-bit tail
//	252-254  -> 6/7/8 bytes, big-endian tail of increasing width
//	255      -> 9 bytes, big-endian 64-bit tail
func EncodeVarint(v uint64) []byte {
	switch {
	case v <= 240:
		return []byte{byte(v)}
	case v <= 2287:
		v -= 240
		return []byte{241 + byte(v/256), byte(v % 256)}
	case v <= 67823:
		v -= 2288
		return []byte{249, byte(v / 256), byte(v % 256)}
	case v <= 16777215:
		var buf [4]byte
		buf[0] = 250
		put24(buf[1:], uint32(v))
		return buf[:]
	case v <= 4294967295:
		var buf [5]byte
		buf[0] = 251
		binary.BigEndian.PutUint32(buf[1:], uint32(v))
		return buf[:]
	case v <= 1099511627775:
		var buf [6]byte
		buf[0] = 252
		put40(buf[1:], v)
		return buf[:]
	case v <= 281474976710655:
		var buf [7]byte
		buf[0] = 253
		put48(buf[1:], v)
		return buf[:]
	case v <= 72057594037927935:
		var buf [8]byte
		buf[0] = 254
		put56(buf[1:], v)
		return buf[:]
	default:
		var buf [9]byte
		buf[0] = 255
		binary.BigEndian.PutUint64(buf[1:], v)
		return buf[:]
	}
}

// AppendVarint appends the varint encoding of v to buf and returns the
// extended slice, avoiding an intermediate allocation.
func AppendVarint(buf []byte, v uint64) []byte {
	return append(buf, EncodeVarint(v)...)
}

// DecodeVarint decodes a varint produced by EncodeVarint from the front
// of buf, returning the value and the number of bytes consumed. It
// returns ErrCorrupt if buf is too short for the indicated width.
func DecodeVarint(buf []byte) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, errors.Wrap(ErrCorrupt, "empty varint")
	}
	b0 := buf[0]
	switch {
	case b0 <= 240:
		return uint64(b0), 1, nil
	case b0 <= 248:
		if len(buf) < 2 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 2-byte varint")
		}
		return 240 + 256*uint64(b0-241) + uint64(buf[1]), 2, nil
	case b0 == 249:
		if len(buf) < 3 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 3-byte varint")
		}
		return 2288 + 256*uint64(buf[1]) + uint64(buf[2]), 3, nil
	case b0 == 250:
		if len(buf) < 4 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 4-byte varint")
		}
		return uint64(get24(buf[1:4])), 4, nil
	case b0 == 251:
		if len(buf) < 5 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 5-byte varint")
		}
		return uint64(binary.BigEndian.Uint32(buf[1:5])), 5, nil
	case b0 == 252:
		if len(buf) < 6 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 6-byte varint")
		}
		return get40(buf[1:6]), 6, nil
	case b0 == 253:
		if len(buf) < 7 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 7-byte varint")
		}
		return get48(buf[1:7]), 7, nil
	case b0 == 254:
		if len(buf) < 8 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 8-byte varint")
		}
		return get56(buf[1:8]), 8, nil
	default: // 255
		if len(buf) < 9 {
			return 0, 0, errors.Wrap(ErrCorrupt, "truncated 9-byte varint")
		}
		return binary.BigEndian.Uint64(buf[1:9]), 9, nil
	}
}

func put24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func get24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func put40(b []byte, v uint64) {
	for i := 0; i < 5; i++ {
		b[4-i] = byte(v)
		v >>= 8
	}
}

func get40(b []byte) uint64 {
	var v uint64
	for i := 0; i < 5; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func put48(b []byte, v uint64) {
	for i := 0; i < 6; i++ {
		b[5-i] = byte(v)
		v >>= 8
	}
}

func get48(b []byte) uint64 {
	var v uint64
	for i := 0; i < 6; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func put56(b []byte, v uint64) {
	for i := 0; i < 7; i++ {
		b[6-i] = byte(v)
		v >>= 8
	}
}

func get56(b []byte) uint64 {
	var v uint64
	for i := 0; i < 7; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
