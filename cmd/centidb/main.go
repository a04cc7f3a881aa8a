// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command centidb is a read-only inspector for centidb databases: it
// lists registered collections and counters, scans a collection's raw
// keys/values, and verifies a collection by digesting its records.
// It is not part of the embeddable library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "centidb",
		Short:        "Inspect a centidb database",
		SilenceUsage: true,
	}
	root.AddCommand(newCollectionsCmd())
	root.AddCommand(newCountersCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newVerifyCmd())
	return root
}
