// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emer/etable/v2/minmax"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// LoopState is the burst-loop scheduler state.
type LoopState int32

//go:generate stringer -type=LoopState

var KiT_LoopState = kit.Enums.AddEnum(LoopStateN, kit.NotBitFlag, nil)

func (ev LoopState) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LoopState) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Idle is the initial state: no loop goroutine exists yet.
	Idle LoopState = iota

	// Running executes bursts back-to-back at the target rate.
	Running

	// Paused holds the loop between bursts; Step and Resume apply.
	Paused

	// Stopped is terminal for the session.
	Stopped

	LoopStateN
)

// AreaSample is the per-area view of the most recent fired set, published
// after each burst for motor / visualization consumers.  The burst counter
// serves as a de-duplication key for rate-limited samplers.
type AreaSample struct {
	Area       string          `desc:"cortical area name"`
	Burst      uint64          `desc:"burst counter at which this sample was taken"`
	IDs        []NeuronID      `desc:"fired neuron ids in the area, ascending"`
	Pos        []mat32.Vec3i   `desc:"voxel coordinate per fired neuron"`
	Potentials []float32       `desc:"membrane potential per fired neuron, read after the dynamics phase"`
	PotRange   minmax.AvgMax32 `desc:"average and max of the sampled potentials"`
}

// PowerParams configures periodic direct stimulation of designated neurons.
type PowerParams struct {
	Amount  float32    `def:"0" desc:"potential injected into each target -- 0 disables"`
	Every   uint64     `def:"1" desc:"inject every N bursts"`
	Targets []NeuronID `desc:"neurons receiving the injection"`
}

func (pp *PowerParams) Update() {
}

func (pp *PowerParams) Defaults() {
	pp.Amount = 0
	pp.Every = 1
	pp.Update()
}

// Loop is the burst scheduler: a finite-state machine
// Idle -> Running <-> Paused -> Stopped that repeatedly executes one full
// burst (propagate, inject, update, publish) on a single dedicated
// goroutine.  Only one burst is ever in flight.  The loop owns the network
// stores while a session runs; external writers must serialize around it.
type Loop struct {
	Net     *Network       `desc:"network being executed"`
	Backend ComputeBackend `desc:"compute backend for the session"`
	Period  time.Duration  `desc:"target time per burst while running -- a burst that overruns is not aborted, the next one just starts immediately"`
	Power   PowerParams    `view:"inline" desc:"periodic power injection"`
	Ledger  *FireLedger    `desc:"optional windowed fire history for tracked areas"`

	CkptEvery uint64                   `desc:"checkpoint every N bursts -- 0 disables"`
	CkptFunc  func(burst uint64) error `view:"-" desc:"checkpoint callback, invoked from the loop goroutine"`

	mu       sync.Mutex
	cond     *sync.Cond
	state    LoopState
	prev     []NeuronID
	last     []NeuronID
	samples  map[string]*AreaSample
	pendSens map[NeuronID]float32
	err      error
	doneCh   chan struct{}

	burst atomic.Uint64
}

// NewLoop returns a loop in the Idle state over the given network and
// backend, with the given target burst period (0 = run flat out).
func NewLoop(nt *Network, be ComputeBackend, period time.Duration) *Loop {
	lp := &Loop{Net: nt, Backend: be, Period: period}
	lp.cond = sync.NewCond(&lp.mu)
	lp.state = Idle
	lp.samples = make(map[string]*AreaSample)
	lp.pendSens = make(map[NeuronID]float32)
	lp.Power.Defaults()
	return lp
}

// State returns the current scheduler state.
func (lp *Loop) State() LoopState {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.state
}

// BurstCount returns the monotonically increasing burst counter.  Safe to
// call from any goroutine without blocking the loop.
func (lp *Loop) BurstCount() uint64 {
	return lp.burst.Load()
}

// Err returns the error that halted the loop, if any.
func (lp *Loop) Err() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.err
}

// Start transitions Idle -> Running and launches the loop goroutine.
// Starting from any other state returns ErrInvalidState with no side effect.
func (lp *Loop) Start() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.state != Idle {
		return fmt.Errorf("Start: %w: loop is %v", ErrInvalidState, lp.state)
	}
	lp.state = Running
	lp.doneCh = make(chan struct{})
	go lp.run()
	return nil
}

// Pause transitions Running -> Paused at the next burst boundary.
func (lp *Loop) Pause() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.state != Running {
		return fmt.Errorf("Pause: %w: loop is %v", ErrInvalidState, lp.state)
	}
	lp.state = Paused
	return nil
}

// Resume transitions Paused -> Running.
func (lp *Loop) Resume() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.state != Paused {
		return fmt.Errorf("Resume: %w: loop is %v", ErrInvalidState, lp.state)
	}
	lp.state = Running
	lp.cond.Broadcast()
	return nil
}

// Stop transitions Running or Paused -> Stopped, taking effect at the next
// burst boundary, and waits for the loop goroutine to exit.  Stopped is
// terminal.
func (lp *Loop) Stop() error {
	lp.mu.Lock()
	if lp.state != Running && lp.state != Paused {
		lp.mu.Unlock()
		return fmt.Errorf("Stop: %w: loop is %v", ErrInvalidState, lp.state)
	}
	lp.state = Stopped
	lp.cond.Broadcast()
	done := lp.doneCh
	lp.mu.Unlock()
	<-done
	return nil
}

// Step executes exactly one burst synchronously.  Valid only while Idle or
// Paused; the prior state is retained afterward.
func (lp *Loop) Step() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.state != Idle && lp.state != Paused {
		return fmt.Errorf("Step: %w: loop is %v", ErrInvalidState, lp.state)
	}
	return lp.burstOne()
}

// InjectSensory queues a batch of (neuron, potential) stimulation pairs to
// be applied ahead of the next burst's dynamics phase.  Repeated injections
// to the same neuron before the next burst accumulate.
func (lp *Loop) InjectSensory(ids []NeuronID, pots []float32) error {
	if len(ids) != len(pots) {
		return fmt.Errorf("InjectSensory: %w: %d ids vs %d potentials", ErrInvalidParams, len(ids), len(pots))
	}
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for i, id := range ids {
		if err := lp.Net.Neurons.CheckID(id); err != nil {
			return err
		}
		lp.pendSens[id] += pots[i]
	}
	return nil
}

// LastFired returns the fired set of the most recent burst, with the burst
// counter it belongs to.
func (lp *Loop) LastFired() ([]NeuronID, uint64) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.last, lp.burst.Load()
}

// Sample returns the most recent published sample for the named area, or nil
// if the area had no fired neurons yet.  Sampling never mutates engine
// state.
func (lp *Loop) Sample(area string) *AreaSample {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.samples[area]
}

// run is the loop goroutine: bursts back-to-back at the target rate until
// stopped, parking between bursts while paused.
func (lp *Loop) run() {
	defer close(lp.doneCh)
	for {
		lp.mu.Lock()
		for lp.state == Paused {
			lp.cond.Wait()
		}
		if lp.state != Running {
			lp.mu.Unlock()
			return
		}
		start := time.Now()
		err := lp.burstOne()
		if err != nil {
			lp.err = err
			lp.state = Stopped
			lp.mu.Unlock()
			log.Printf("Loop: burst failed, halting: %v\n", err)
			return
		}
		lp.mu.Unlock()
		if lp.Period > 0 {
			if slack := lp.Period - time.Since(start); slack > 0 {
				time.Sleep(slack)
			}
		}
	}
}

// burstOne executes one full burst.  Callers hold lp.mu.
func (lp *Loop) burstOne() error {
	burst := lp.burst.Load() + 1
	fc, err := lp.Backend.Propagate(lp.prev)
	if err != nil {
		return err
	}
	for id, v := range lp.pendSens {
		fc.Add(id, v)
		delete(lp.pendSens, id)
	}
	if lp.Power.Amount != 0 && lp.Power.Every > 0 && burst%lp.Power.Every == 0 {
		for _, id := range lp.Power.Targets {
			fc.Add(id, lp.Power.Amount)
		}
	}
	fired, err := lp.Backend.UpdateDynamics(fc, burst)
	if err != nil {
		return err
	}
	lp.prev = fired
	lp.last = fired
	lp.burst.Store(burst)
	lp.publish(fired, burst)
	if lp.Ledger != nil {
		lp.Ledger.Record(burst, lp.Net, fired)
	}
	if lp.CkptEvery > 0 && lp.CkptFunc != nil && burst%lp.CkptEvery == 0 {
		if cerr := lp.CkptFunc(burst); cerr != nil {
			log.Printf("Loop: checkpoint at burst %d failed: %v\n", burst, cerr)
		}
	}
	return nil
}

// publish rebuilds the per-area samples from the new fired set.
func (lp *Loop) publish(fired []NeuronID, burst uint64) {
	for _, id := range fired {
		ar := lp.Net.AreaOf(id)
		if ar == nil {
			continue
		}
		smp := lp.samples[ar.Nm]
		if smp == nil || smp.Burst != burst {
			smp = &AreaSample{Area: ar.Nm, Burst: burst}
			smp.PotRange.Init()
			lp.samples[ar.Nm] = smp
		}
		vm := lp.Net.Neurons.Potentials[id]
		smp.IDs = append(smp.IDs, id)
		smp.Pos = append(smp.Pos, lp.Net.Neurons.Pos[id])
		smp.Potentials = append(smp.Potentials, vm)
		smp.PotRange.UpdateVal(vm, int32(len(smp.IDs)-1))
	}
	for _, smp := range lp.samples {
		if smp.Burst == burst {
			smp.PotRange.CalcAvg()
		}
	}
}
