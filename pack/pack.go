// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package pack provides the Encoder and Packer abstractions centidb
// applies to record values: Encoder turns a Go value into bytes
// (and back), Packer compresses an already-encoded byte string (and
// decompresses it). A Packer's one-byte marker is stored in front of
// each value, so a reader can recover which packer produced a given
// record; an Encoder's name is not stored anywhere.
package pack

import "github.com/cockroachdb/errors"

// Encoder converts record values to and from bytes. Name identifies
// the encoder; it is not recorded in a collection's metadata, so each
// Store.Collection call uses the encoder its own options select
// (PickleEncoder when none is given), whatever encoder wrote the
// collection's existing records.
type Encoder interface {
	Name() string
	Pack(value any) ([]byte, error)
	Unpack(data []byte) (any, error)
}

// MultiUnpacker is implemented by Encoders whose wire format is
// self-delimiting, so several values packed independently can be
// concatenated and later recovered in sequence given only their
// count. A batch physical record's value is exactly such a
// concatenation; splitting a batch requires the collection's encoder
// to implement this.
type MultiUnpacker interface {
	UnpackMany(data []byte, n int) ([]any, error)
}

// Packer compresses and decompresses an already-encoded value
// payload. Marker identifies the one byte persisted immediately
// before the packed payload in a primary record's value;
// implementations must each claim a distinct, previously unreserved
// marker byte.
type Packer interface {
	Name() string
	Marker() byte
	Pack(data []byte) ([]byte, error)
	Unpack(data []byte) ([]byte, error)
}

// Reserved packer markers, persisted on disk.
const (
	MarkerPlain  = ' '
	MarkerZlib   = 'Z'
	MarkerSnappy = 'S'
	MarkerZstd   = 'Q'
)

// ErrUnknownMarker is returned by Registry.Unpack when a value's
// leading marker byte does not match any registered Packer.
var ErrUnknownMarker = errors.New("pack: unknown packer marker byte")

// Registry resolves a packer by its on-disk marker byte, for reading
// values that may have been written with any of several packers.
type Registry struct {
	byMarker map[byte]Packer
}

// NewRegistry builds a Registry from a set of packers. It panics on a
// marker collision, a programmer error caught at startup.
func NewRegistry(packers ...Packer) *Registry {
	r := &Registry{byMarker: make(map[byte]Packer, len(packers))}
	for _, p := range packers {
		if _, dup := r.byMarker[p.Marker()]; dup {
			panic("pack: duplicate packer marker byte " + string(p.Marker()))
		}
		r.byMarker[p.Marker()] = p
	}
	return r
}

// Pack applies p and prepends its marker byte.
func Pack(p Packer, data []byte) ([]byte, error) {
	packed, err := p.Pack(data)
	if err != nil {
		return nil, errors.Wrapf(err, "packing with %s", errors.Safe(p.Name()))
	}
	out := make([]byte, 0, len(packed)+1)
	out = append(out, p.Marker())
	return append(out, packed...), nil
}

// Unpack reads the marker byte from the front of data, looks up the
// matching Packer in r, and returns the decompressed payload.
func (r *Registry) Unpack(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("pack: empty value has no marker byte")
	}
	p, ok := r.byMarker[data[0]]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMarker, "marker 0x%02x", data[0])
	}
	out, err := p.Unpack(data[1:])
	if err != nil {
		return nil, errors.Wrapf(err, "unpacking with %s", errors.Safe(p.Name()))
	}
	return out, nil
}
