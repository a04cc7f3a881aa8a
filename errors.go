// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import "github.com/cockroachdb/errors"

// Sentinel errors for the record layer. Codec-level failures live in
// the tuple package (tuple.ErrUnsupportedType, tuple.ErrCorrupt)
// since they are properties of the key encoding, not of collections.
var (
	// ErrNotFound reports that a record does not exist. Returned by
	// Collection.Get, Index.Get and Index.Find when nothing matches.
	ErrNotFound = errors.New("centidb: record not found")

	// ErrMissingBound reports that next_greater was asked to bound an
	// empty string or an all-0xFF string, which has no successor.
	ErrMissingBound = errors.New("centidb: no bound exists for this prefix")

	// ErrBatchInvariantViolation reports that a physical key believed
	// to hold a batch did not contain the expected logical key.
	// Fatal: it indicates the collection's on-disk layout is corrupt.
	ErrBatchInvariantViolation = errors.New("centidb: batch invariant violation")
)

// newBatchInvariantViolation builds a fatal, assertion-style error
// for on-disk corruption the record layer cannot recover from.
func newBatchInvariantViolation(format string, args ...any) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrBatchInvariantViolation)
}
