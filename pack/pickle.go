// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pack

import (
	"bytes"

	"github.com/cockroachdb/errors"
	ogorek "github.com/kisielk/og-rek"
)

// PickleEncoder is the default, self-describing value encoder, built
// on og-rek, a Go implementation of Python's pickle protocol. Values
// round-trip through the same primitive set the tuple package
// supports (nil, bool, integers, strings, byte strings, and nested
// slices/maps), and the encoding interoperates directly with records
// written by the Python implementation of centidb, which pickles its
// values the same way.
type PickleEncoder struct{}

func (PickleEncoder) Name() string { return "pickle" }

func (PickleEncoder) Pack(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := ogorek.NewEncoder(&buf).Encode(value); err != nil {
		return nil, errors.Wrap(err, "pickle encoder: encode")
	}
	return buf.Bytes(), nil
}

func (PickleEncoder) Unpack(data []byte) (any, error) {
	v, err := ogorek.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, errors.Wrap(err, "pickle encoder: decode")
	}
	return v, nil
}

// UnpackMany decodes n pickled values in sequence from data, relying
// on the pickle protocol's own STOP opcode to mark each value's end
// rather than any length prefix. Used to split a batch physical
// record's value back into its individual members.
func (PickleEncoder) UnpackMany(data []byte, n int) ([]any, error) {
	// A single Decoder must be reused across all n calls: it wraps its
	// input in a buffered reader, so building a fresh Decoder per value
	// would silently consume and discard look-ahead bytes belonging to
	// the next one.
	dec := ogorek.NewDecoder(bytes.NewReader(data))
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := dec.Decode()
		if err != nil {
			return nil, errors.Wrapf(err, "pickle encoder: decode record %d of %d", i, n)
		}
		out = append(out, v)
	}
	return out, nil
}
