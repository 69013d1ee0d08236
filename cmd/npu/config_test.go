// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "session.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Network.Name != "demo" {
		t.Errorf("network name: %s != demo", cfg.Network.Name)
	}
	if cfg.Network.NeuronCapacity != 64 || cfg.Network.SynapseCapacity != 4096 {
		t.Errorf("capacities: %d, %d", cfg.Network.NeuronCapacity, cfg.Network.SynapseCapacity)
	}
	if len(cfg.Areas) != 2 {
		t.Fatalf("areas: %d != 2", len(cfg.Areas))
	}
	if !cfg.Areas[1].PSPUniform || cfg.Areas[1].Refractory != 2 {
		t.Errorf("motor area flags not parsed: %+v", cfg.Areas[1])
	}
	if cfg.Loop.Bursts != 10 || cfg.Loop.PowerArea != "sensory" {
		t.Errorf("loop config not parsed: %+v", cfg.Loop)
	}
	if cfg.Ledger.Window != 20 || len(cfg.Ledger.Areas) != 1 {
		t.Errorf("ledger config not parsed: %+v", cfg.Ledger)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join("testdata", "nosuch.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("network:\n  name: x\nareas: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Errorf("expected error for empty areas / zero capacities")
	}
}

func TestConfigBuild(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "session.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	nt, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sens, err := nt.AreaByName("sensory")
	if err != nil {
		t.Fatalf("AreaByName: %v", err)
	}
	if sens.NNeurons != 16 {
		t.Errorf("sensory neurons: %d != 16", sens.NNeurons)
	}
	mot, err := nt.AreaByName("motor")
	if err != nil {
		t.Fatalf("AreaByName: %v", err)
	}
	if mot.NNeurons != 16 {
		t.Errorf("motor neurons: %d != 16", mot.NNeurons)
	}
	if !mot.PSPUniform {
		t.Errorf("motor PSPUniform not set")
	}
	// threshold gradient: base 8, inc_z 1, so voxel z=1 is 9
	if nt.Neurons.Thresholds[sens.NNeurons] != 8 {
		t.Errorf("motor first threshold: %g != 8", nt.Neurons.Thresholds[sens.NNeurons])
	}
	if ns := nt.Synapses.NumValid(); ns == 0 {
		t.Errorf("no synapses generated")
	}
	// omitted excitability defaults to always eligible
	if nt.Neurons.Excites[0] != 1 {
		t.Errorf("default excitability: %g != 1", nt.Neurons.Excites[0])
	}
	// seeded connectivity is reproducible
	nt2, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if nt.Synapses.N != nt2.Synapses.N {
		t.Errorf("seeded builds differ: %d vs %d synapses", nt.Synapses.N, nt2.Synapses.N)
	}
}
