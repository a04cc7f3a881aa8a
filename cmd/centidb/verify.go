// Copyright 2026 The centidb Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centidb/centidb/internal/integrity"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <path> <collection>",
		Short: "Walk a collection, digesting each record and flagging batch anomalies",
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
			w := cmd.OutOrStdout()

			phys, err := coll.IterPhysKeys()
			if err != nil {
				return err
			}
			var physCount, batchCount int
			for phys.Next() {
				physCount++
				if len(phys.Keys()) > 1 {
					batchCount++
					fmt.Fprintf(w, "batch: physical key holds %d logical records: %v\n", len(phys.Keys()), phys.Keys())
				}
			}
			if err := phys.Err(); err != nil {
				phys.Close()
				return err
			}
			if err := phys.Close(); err != nil {
				return err
			}

			items, err := coll.IterItems()
			if err != nil {
				return err
			}
			defer items.Close()

			digester := integrity.NewDigester()
			var recordCount int
			for items.Next() {
				recordCount++
				b := []byte(fmt.Sprintf("%v=%v", items.Key(), items.Value()))
				digester.Add(b)
				fmt.Fprintf(w, "%v  digest=%016x\n", items.Key(), integrity.Digest(b))
			}
			if err := items.Err(); err != nil {
				return err
			}

			fmt.Fprintf(w, "\n%d physical keys, %d logical records, %d batches\n", physCount, recordCount, batchCount)
			fmt.Fprintf(w, "combined digest: %016x\n", digester.Sum())
			return nil
		},
	}
}
