// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pack

import (
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"
)

// SnappyPacker compresses payloads with Snappy, marker 'S' (0x53).
// Favors low latency over compression ratio.
type SnappyPacker struct{}

func (SnappyPacker) Name() string { return "snappy" }
func (SnappyPacker) Marker() byte { return MarkerSnappy }

func (SnappyPacker) Pack(b []byte) ([]byte, error) {
	return snappy.Encode(nil, b), nil
}

func (SnappyPacker) Unpack(b []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, b)
	if err != nil {
		return nil, errors.Wrap(err, "snappy packer: decode")
	}
	return out, nil
}
