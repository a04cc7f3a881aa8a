// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pack

import (
	"github.com/cockroachdb/errors"

	"github.com/centidb/centidb/tuple"
)

// KeyEncoder encodes a value with the same order-preserving codec
// used for keys, so a collection whose values are themselves tuples
// can be declared with order-preserving values (for example, the
// built-in metadata collections, or any collection the caller wants
// to scan by value order rather than insertion order).
//
// Values must be tuple.Tuple, tuple.Key, or anything tuple.Normalize
// accepts.
type KeyEncoder struct{}

func (KeyEncoder) Name() string { return "key" }

func (KeyEncoder) Pack(value any) ([]byte, error) {
	var tups []tuple.Tuple
	if k, ok := value.(tuple.Key); ok {
		tups = k
	} else {
		tups = tuple.Normalize(value)
	}
	b, err := tuple.Encode(nil, tuple.Key(tups))
	if err != nil {
		return nil, errors.Wrap(err, "key encoder: encode")
	}
	return b, nil
}

func (KeyEncoder) Unpack(data []byte) (any, error) {
	key, err := tuple.Decode(0, data)
	if err != nil {
		return nil, errors.Wrap(err, "key encoder: decode")
	}
	if len(key) == 1 {
		return key[0], nil
	}
	return key, nil
}

// UnpackMany decodes data as n concatenated one-Tuple records, one
// KindSep-separated tuple per record. It is an error for a record
// packed by KeyEncoder to itself have encoded as more than one tuple,
// since that would make the boundary between records ambiguous.
func (KeyEncoder) UnpackMany(data []byte, n int) ([]any, error) {
	key, err := tuple.Decode(0, data)
	if err != nil {
		return nil, errors.Wrap(err, "key encoder: decode")
	}
	if len(key) != n {
		return nil, errors.Newf("key encoder: decoded %d tuples, want %d", len(key), n)
	}
	out := make([]any, n)
	for i, t := range key {
		out[i] = t
	}
	return out, nil
}
