// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centidb/centidb"
)

func newScanCmd() *cobra.Command {
	var reverse bool
	var limit int

	cmd := &cobra.Command{
		Use:   "scan <path> <collection>",
		Short: "Range scan a collection's primary keys/values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openReadOnly(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			coll, err := lookupCollection(store, args[1])
			if err != nil {
				return err
			}

			var opts []centidb.IterOption
			if reverse {
				opts = append(opts, centidb.WithReverse())
			}
			if limit > 0 {
				opts = append(opts, centidb.WithMax(limit))
			}

			it, err := coll.IterItems(opts...)
			if err != nil {
				return err
			}
			defer it.Close()

			w := cmd.OutOrStdout()
			for it.Next() {
				fmt.Fprintf(w, "%v => %v\n", it.Key(), it.Value())
			}
			return it.Err()
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "walk from the greatest key to the least")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of results (0 = unbounded)")
	return cmd
}
