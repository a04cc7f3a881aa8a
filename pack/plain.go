// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pack

// PlainPacker is the identity Packer, marker ' ' (0x20).
type PlainPacker struct{}

func (PlainPacker) Name() string                    { return "plain" }
func (PlainPacker) Marker() byte                    { return MarkerPlain }
func (PlainPacker) Pack(b []byte) ([]byte, error)   { return b, nil }
func (PlainPacker) Unpack(b []byte) ([]byte, error) { return b, nil }
