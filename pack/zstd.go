// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pack

import (
	"github.com/DataDog/zstd"
	"github.com/cockroachdb/errors"
)

// ZstdPacker compresses payloads with zstd, marker 'Q' (0x51).
// Favors compression ratio over latency.
type ZstdPacker struct {
	// Level is passed to zstd.CompressLevel; zero uses
	// zstd.DefaultCompression.
	Level int
}

func (z ZstdPacker) Name() string { return "zstd" }
func (z ZstdPacker) Marker() byte { return MarkerZstd }

func (z ZstdPacker) Pack(b []byte) ([]byte, error) {
	level := z.Level
	if level == 0 {
		level = zstd.DefaultCompression
	}
	out, err := zstd.CompressLevel(nil, b, level)
	if err != nil {
		return nil, errors.Wrap(err, "zstd packer: compress")
	}
	return out, nil
}

func (z ZstdPacker) Unpack(b []byte) ([]byte, error) {
	out, err := zstd.Decompress(nil, b)
	if err != nil {
		return nil, errors.Wrap(err, "zstd packer: decompress")
	}
	return out, nil
}
