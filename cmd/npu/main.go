// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// npu runs burst-engine sessions from a YAML session config and inspects
// connectome snapshot files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "npu",
		Short: "Neural processing unit - burst execution engine",
		Long: `npu executes time-stepped spiking neural network sessions.

A session is described by a YAML config: cortical areas, synthetic
connectivity, burst rate, stimulation, and checkpointing.  Snapshots of the
resulting connectome can be saved, restored, and inspected.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("npu version %s\n", version)
		},
	}
}
