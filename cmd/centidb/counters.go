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

func newCountersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counters <path>",
		Short: "Dump the counter registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openReadOnly(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			it, err := store.Counters().IterItems()
			if err != nil {
				return err
			}
			defer it.Close()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Value"})
			table.SetBorder(false)
			for it.Next() {
				rec, ok := it.Value().(tuple.Tuple)
				if !ok || len(rec) != 2 {
					continue
				}
				table.Append([]string{fmt.Sprint(rec[0]), fmt.Sprint(rec[1])})
			}
			if err := it.Err(); err != nil {
				return err
			}
			table.Render()
			return nil
		},
	}
}
