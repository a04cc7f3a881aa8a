// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/centidb/centidb/tuple"
)

func newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections <path>",
		Short: "List registered collections and indices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openReadOnly(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			it, err := store.Collections().IterItems()
			if err != nil {
				return err
			}
			defer it.Close()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Idx", "Index Of"})
			table.SetBorder(false)
			for it.Next() {
				rec, ok := it.Value().(tuple.Tuple)
				if !ok || len(rec) != 3 {
					continue
				}
				name, idx, indexFor := rec[0], rec[1], rec[2]
				row := []string{fmt.Sprint(name), fmt.Sprint(idx), ""}
				if indexFor != nil {
					row[2] = fmt.Sprint(indexFor)
				}
				table.Append(row)
			}
			if err := it.Err(); err != nil {
				return err
			}
			table.Render()
			return nil
		},
	}
}
