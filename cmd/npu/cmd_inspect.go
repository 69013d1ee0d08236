// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/feagi/npu/connectome"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print a summary of a connectome snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sn, err := connectome.Open(args[0])
			if err != nil {
				return err
			}
			sn.WriteSummaryJSON(os.Stdout)
			return nil
		},
	}
}
