// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"github.com/cockroachdb/errors"

	"github.com/centidb/centidb"
	"github.com/centidb/centidb/kv/leveldbkv"
)

// openReadOnly opens the leveldb database at path as a read-only
// Store; every subcommand is an inspector and must never write.
func openReadOnly(path string) (*centidb.Store, error) {
	engine, err := leveldbkv.Open(path, leveldbkv.Options{ReadOnly: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", errors.Safe(path))
	}
	store, err := centidb.Open(engine)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}
	return store, nil
}

// lookupCollection opens an existing collection by name, erroring
// cleanly when it does not exist rather than letting Store.Collection
// attempt its lazy metadata write against the read-only engine.
func lookupCollection(store *centidb.Store, name string) (*centidb.Collection, error) {
	ok, err := store.HasCollection(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Newf("no collection named %q in this database", errors.Safe(name))
	}
	return store.Collection(name)
}
