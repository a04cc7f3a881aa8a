// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package centidb

import "fmt"

// Logger receives non-fatal diagnostics, such as stale index entries
// encountered during iteration. The interface is deliberately small:
// this layer only ever informs or warns.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
}

// nopLogger discards everything; used when Open is not given
// WithLogger.
type nopLogger struct{}

func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warningf(string, ...any) {}

// stdLogger is a minimal Logger backed by fmt.Printf-style output,
// useful for the cmd/centidb CLI and for tests that want to see what
// would otherwise be swallowed.
type stdLogger struct {
	w interface{ Write([]byte) (int, error) }
}

// NewStdLogger returns a Logger that writes formatted lines to w.
func NewStdLogger(w interface{ Write([]byte) (int, error) }) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Infof(format string, args ...any) {
	fmt.Fprintf(l.w, "INFO: "+format+"\n", args...)
}

func (l *stdLogger) Warningf(format string, args ...any) {
	fmt.Fprintf(l.w, "WARNING: "+format+"\n", args...)
}
