// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package integrity provides a fast, non-cryptographic fingerprint
// for record values, used by the verify CLI subcommand to eyeball
// whether two stores hold the same data. centidb itself treats
// durability and corruption detection as the engine's concern; this
// is a lightweight aid, not a replacement for that.
package integrity

import "github.com/cespare/xxhash/v2"

// Digest returns a 64-bit fingerprint of value.
func Digest(value []byte) uint64 {
	return xxhash.Sum64(value)
}

// Digester incrementally fingerprints a sequence of values, such as
// every logical record in a collection, into one combined digest.
type Digester struct {
	h *xxhash.Digest
}

// NewDigester returns a fresh Digester.
func NewDigester() *Digester {
	return &Digester{h: xxhash.New()}
}

// Add folds value into the running digest.
func (d *Digester) Add(value []byte) {
	_, _ = d.h.Write(value)
}

// Sum returns the combined digest of every value added so far.
func (d *Digester) Sum() uint64 {
	return d.h.Sum64()
}
