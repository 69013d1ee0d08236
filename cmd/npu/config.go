// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/feagi/npu/npu"
	"gopkg.in/yaml.v3"
)

// Config describes one burst-engine session.
type Config struct {
	Network     NetworkConfig `yaml:"network"`
	Areas       []AreaConfig  `yaml:"areas"`
	Connections []ConnConfig  `yaml:"connections"`
	Loop        LoopConfig    `yaml:"loop"`
	Ledger      LedgerConfig  `yaml:"ledger"`
	Checkpoint  CkptConfig    `yaml:"checkpoint"`
}

type NetworkConfig struct {
	// Name discriminates this network in reports and snapshots.
	Name string `yaml:"name"`

	// NeuronCapacity / SynapseCapacity fix the store sizes for the session.
	NeuronCapacity  int `yaml:"neuron_capacity"`
	SynapseCapacity int `yaml:"synapse_capacity"`

	// Seed drives the synthetic connectivity generator.
	Seed int64 `yaml:"seed"`
}

type AreaConfig struct {
	Name     string `yaml:"name"`
	Dims     []int  `yaml:"dims"`
	PerVoxel int    `yaml:"per_voxel"`

	// PSPUniform delivers the full psp on every outgoing synapse instead of
	// an even share across the source's fan-out.
	PSPUniform bool `yaml:"psp_uniform"`

	Base float32 `yaml:"base_threshold"`
	IncX float32 `yaml:"inc_x"`
	IncY float32 `yaml:"inc_y"`
	IncZ float32 `yaml:"inc_z"`

	Leak         float32 `yaml:"leak"`
	Rest         float32 `yaml:"rest"`
	Refractory   int32   `yaml:"refractory"`
	Excitability float32 `yaml:"excitability"`
	FireLimit    int32   `yaml:"fire_limit"`
	Snooze       int32   `yaml:"snooze"`
	ChargeAccum  bool    `yaml:"charge_accum"`
}

type ConnConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// Probability of a synapse existing for each (source, target) pair.
	Probability float64 `yaml:"probability"`

	Weight     uint8  `yaml:"weight"`
	PSP        uint8  `yaml:"psp"`
	Inhibitory bool   `yaml:"inhibitory"`
}

type LoopConfig struct {
	// Hz is the target burst rate; 0 runs flat out.
	Hz float64 `yaml:"hz"`

	// Bursts ends the session after this many bursts; 0 runs until interrupted.
	Bursts uint64 `yaml:"bursts"`

	// Power injects a fixed potential into every neuron of an area.
	PowerArea   string  `yaml:"power_area"`
	PowerAmount float32 `yaml:"power_amount"`
	PowerEvery  uint64  `yaml:"power_every"`
}

type LedgerConfig struct {
	Window int      `yaml:"window"`
	Areas  []string `yaml:"areas"`
}

type CkptConfig struct {
	Every uint64 `yaml:"every"`
	Path  string `yaml:"path"`
}

// LoadConfig reads and validates a session config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Network.Name == "" {
		cfg.Network.Name = "npu"
	}
	if cfg.Network.NeuronCapacity < 1 || cfg.Network.SynapseCapacity < 1 {
		return nil, fmt.Errorf("%s: network capacities must be positive", path)
	}
	if len(cfg.Areas) == 0 {
		return nil, fmt.Errorf("%s: at least one area is required", path)
	}
	return cfg, nil
}

// Build constructs and wires the network described by the config.
func (cfg *Config) Build() (*npu.Network, error) {
	nt := npu.NewNetwork(cfg.Network.Name, cfg.Network.NeuronCapacity, cfg.Network.SynapseCapacity)
	for _, ac := range cfg.Areas {
		grad := npu.GradientParams{Base: ac.Base, IncX: ac.IncX, IncY: ac.IncY, IncZ: ac.IncZ}
		exc := ac.Excitability
		if exc == 0 { // omitted in yaml -- always eligible
			exc = 1
		}
		par := npu.NeuronParams{
			Leak:         ac.Leak,
			Rest:         ac.Rest,
			Refractory:   ac.Refractory,
			Excitability: exc,
			FireLimit:    ac.FireLimit,
			Snooze:       ac.Snooze,
			ChargeAccum:  ac.ChargeAccum,
		}
		pv := ac.PerVoxel
		if pv < 1 {
			pv = 1
		}
		if _, err := nt.CreateArea(ac.Name, ac.Dims, pv, grad, ac.PSPUniform, par); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewSource(cfg.Network.Seed))
	for _, cc := range cfg.Connections {
		from, err := nt.AreaByName(cc.From)
		if err != nil {
			return nil, err
		}
		to, err := nt.AreaByName(cc.To)
		if err != nil {
			return nil, err
		}
		typ := npu.Excitatory
		if cc.Inhibitory {
			typ = npu.Inhibitory
		}
		for s := 0; s < from.NNeurons; s++ {
			src := from.First + npu.NeuronID(s)
			for t := 0; t < to.NNeurons; t++ {
				if rng.Float64() >= cc.Probability {
					continue
				}
				tgt := to.First + npu.NeuronID(t)
				if _, err := nt.Synapses.AddSynapse(src, tgt, cc.Weight, cc.PSP, typ); err != nil {
					return nil, err
				}
			}
		}
	}
	return nt, nil
}
