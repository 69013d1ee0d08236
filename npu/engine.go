// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"time"
)

// Engine is a simulation session: it owns the network for the session's
// lifetime, selects a compute backend once from the populated store sizes,
// and drives the burst loop.  Create it after the network is structurally
// populated; tear it down at session end.
type Engine struct {
	Net     *Network       `desc:"the network this session executes"`
	Backend ComputeBackend `desc:"backend selected at session start"`
	Loop    *Loop          `desc:"burst scheduler"`
}

// NewEngine returns a session over the given populated network, selecting
// the backend from the store sizes and falling back to the CPU reference if
// the preferred backend cannot initialize.
func NewEngine(nt *Network, period time.Duration) *Engine {
	en := &Engine{Net: nt}
	kind := SelectBackend(nt.Neurons.N, nt.Synapses.N)
	en.Backend = NewBackendFallback(kind, nt)
	en.Loop = NewLoop(nt, en.Backend, period)
	return en
}

// InjectSensory queues sensory stimulation for the next burst.
func (en *Engine) InjectSensory(ids []NeuronID, pots []float32) error {
	return en.Loop.InjectSensory(ids, pots)
}

// MotorSample returns the latest per-area fired sample for motor or
// visualization consumers; nil if the area has not fired yet.
func (en *Engine) MotorSample(area string) *AreaSample {
	return en.Loop.Sample(area)
}

// BurstCount returns the session's monotonic burst counter.
func (en *Engine) BurstCount() uint64 {
	return en.Loop.BurstCount()
}

// Shutdown stops the loop if it is running and releases backend workers.
func (en *Engine) Shutdown() {
	if st := en.Loop.State(); st == Running || st == Paused {
		en.Loop.Stop()
	}
	if cb, ok := en.Backend.(*CPUBackend); ok {
		cb.StopThreads()
	}
}
