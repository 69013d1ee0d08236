// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feagi/npu/connectome"
	"github.com/feagi/npu/npu"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var snapOut string
	var timers bool
	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run a burst-engine session from a YAML config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(args[0])
			if err != nil {
				return err
			}
			nt, err := cfg.Build()
			if err != nil {
				return err
			}
			fmt.Print(nt.SizeReport())

			var period time.Duration
			if cfg.Loop.Hz > 0 {
				period = time.Duration(float64(time.Second) / cfg.Loop.Hz)
			}
			en := npu.NewEngine(nt, period)
			defer en.Shutdown()
			lp := en.Loop

			if len(cfg.Ledger.Areas) > 0 {
				lp.Ledger = npu.NewFireLedger(cfg.Ledger.Window)
				for _, area := range cfg.Ledger.Areas {
					lp.Ledger.Track(area)
				}
			}
			if cfg.Loop.PowerArea != "" && cfg.Loop.PowerAmount != 0 {
				ar, err := nt.AreaByName(cfg.Loop.PowerArea)
				if err != nil {
					return err
				}
				lp.Power.Amount = cfg.Loop.PowerAmount
				lp.Power.Every = cfg.Loop.PowerEvery
				if lp.Power.Every == 0 {
					lp.Power.Every = 1
				}
				for i := 0; i < ar.NNeurons; i++ {
					lp.Power.Targets = append(lp.Power.Targets, ar.First+npu.NeuronID(i))
				}
			}
			if cfg.Checkpoint.Every > 0 && cfg.Checkpoint.Path != "" {
				lp.CkptEvery = cfg.Checkpoint.Every
				lp.CkptFunc = func(burst uint64) error {
					sn := connectome.Capture(nt, burst, "periodic checkpoint", nil)
					return sn.Save(fmt.Sprintf("%s.%d", cfg.Checkpoint.Path, burst))
				}
			}

			if cfg.Loop.Bursts > 0 {
				for i := uint64(0); i < cfg.Loop.Bursts; i++ {
					if err := lp.Step(); err != nil {
						return err
					}
				}
			} else {
				if err := lp.Start(); err != nil {
					return err
				}
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				<-sig
				if err := lp.Stop(); err != nil && lp.Err() == nil {
					return err
				}
				if lerr := lp.Err(); lerr != nil {
					return lerr
				}
			}
			fmt.Printf("session done: %d bursts\n", lp.BurstCount())

			if timers {
				if cb, ok := en.Backend.(*npu.CPUBackend); ok {
					cb.TimerReport()
				}
			}
			if snapOut != "" {
				sn := connectome.Capture(nt, lp.BurstCount(), "session final state", nil)
				if err := sn.Save(snapOut); err != nil {
					return err
				}
				fmt.Printf("snapshot saved to %s\n", snapOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&snapOut, "snapshot", "s", "", "Save a connectome snapshot to this file when the session ends")
	cmd.Flags().BoolVar(&timers, "timers", false, "Report per-phase timing when the session ends")
	return cmd
}
