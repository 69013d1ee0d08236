// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/emer/emergent/v2/timer"
)

// PropFunChan is a channel that runs propagation chunk functions, per thread.
type PropFunChan chan func()

// propMinChunk is the minimum fired-set size per thread below which the
// sequential path is used.
const propMinChunk = 64

// CPUBackend is the reference compute backend.  Propagation fans the fired
// set out across persistent worker goroutines, each accumulating into its
// own partial candidate list; partials are merged in thread order so the
// result is deterministic.  The dynamics phase is single-threaded and has
// exclusive write access to the neuron store.
type CPUBackend struct {
	Net      *Network      `desc:"network the backend executes"`
	NThreads int           `desc:"number of worker goroutines for propagation -- 1 = sequential"`
	ThrChans []PropFunChan `view:"-" desc:"propagation function channels, per thread"`
	ThrTimes []timer.Time  `view:"-" desc:"timers for total time spent in each thread"`

	Partials []*FireCandidates      `view:"-" desc:"per-thread partial candidate lists"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each phase, for TimerReport"`
	WaitGp   sync.WaitGroup         `view:"-" desc:"wait group for synchronizing threaded propagation"`
}

// NewCPUBackend returns a CPU backend over the network with the given number
// of propagation threads; nThreads <= 0 uses the number of CPUs.
func NewCPUBackend(nt *Network, nThreads int) *CPUBackend {
	if nThreads <= 0 {
		nThreads = runtime.NumCPU()
	}
	be := &CPUBackend{Net: nt, NThreads: nThreads}
	be.FunTimes = make(map[string]*timer.Time)
	be.ThrChans = make([]PropFunChan, be.NThreads)
	be.ThrTimes = make([]timer.Time, be.NThreads)
	be.Partials = make([]*FireCandidates, be.NThreads)
	for th := 0; th < be.NThreads; th++ {
		be.ThrChans[th] = make(PropFunChan)
		be.Partials[th] = NewFireCandidates(0)
	}
	be.StartThreads()
	return be
}

func (be *CPUBackend) Kind() BackendKind {
	return CPU
}

// StartThreads starts up the computation threads, which monitor the channels
// for work.
func (be *CPUBackend) StartThreads() {
	for th := 0; th < be.NThreads; th++ {
		go be.ThrWorker(th)
	}
}

// StopThreads stops the computation threads.
func (be *CPUBackend) StopThreads() {
	for th := 0; th < be.NThreads; th++ {
		close(be.ThrChans[th])
	}
}

// ThrWorker is the worker function run by the worker threads.
func (be *CPUBackend) ThrWorker(tt int) {
	for fun := range be.ThrChans[tt] {
		be.ThrTimes[tt].Start()
		fun()
		be.ThrTimes[tt].Stop()
		be.WaitGp.Done()
	}
}

// Propagate runs synaptic propagation over the fired set, threaded when the
// set is large enough to amortize the fan-out.
func (be *CPUBackend) Propagate(fired []NeuronID) (*FireCandidates, error) {
	be.FunTimerStart("Propagate")
	fc := NewFireCandidates(len(fired))
	if be.NThreads <= 1 || len(fired) < be.NThreads*propMinChunk {
		Propagate(be.Net, fired, fc)
	} else {
		chunk := (len(fired) + be.NThreads - 1) / be.NThreads
		nth := 0
		for th := 0; th < be.NThreads; th++ {
			lo := th * chunk
			if lo >= len(fired) {
				break
			}
			hi := lo + chunk
			if hi > len(fired) {
				hi = len(fired)
			}
			sub := fired[lo:hi]
			part := be.Partials[th]
			part.Reset()
			be.WaitGp.Add(1)
			be.ThrChans[th] <- func() { Propagate(be.Net, sub, part) }
			nth++
		}
		be.WaitGp.Wait()
		for th := 0; th < nth; th++ { // merge in thread order
			fc.Merge(be.Partials[th])
		}
	}
	be.FunTimerStop("Propagate")
	return fc, nil
}

// UpdateDynamics runs the single-threaded dynamics phase and returns the new
// fired set.
func (be *CPUBackend) UpdateDynamics(fc *FireCandidates, burst uint64) ([]NeuronID, error) {
	be.FunTimerStart("Dynamics")
	fired := UpdateDynamics(be.Net, fc, burst)
	be.FunTimerStop("Dynamics")
	return fired, nil
}

// Burst runs propagation then dynamics for one burst and reports per-phase
// wall-clock timing.
func (be *CPUBackend) Burst(fired []NeuronID, burst uint64) (*BurstResult, error) {
	br := &BurstResult{}
	tmr := timer.Time{}
	tmr.Start()
	fc, err := be.Propagate(fired)
	if err != nil {
		return nil, err
	}
	tmr.Stop()
	br.PropagateSecs = tmr.TotalSecs()
	br.NumCandidates = fc.Len()
	tmr.Reset()
	tmr.Start()
	br.Fired, err = be.UpdateDynamics(fc, burst)
	if err != nil {
		return nil, err
	}
	tmr.Stop()
	br.DynamicsSecs = tmr.TotalSecs()
	return br, nil
}

// TimerReport reports the amount of time spent in each phase, and in each
// thread.
func (be *CPUBackend) TimerReport() {
	fmt.Printf("TimerReport: %v, NThreads: %v\n", be.Net.Nm, be.NThreads)
	fmt.Printf("\tFunction Name\tTotal Secs\tPct\n")
	nfn := len(be.FunTimes)
	fnms := make([]string, nfn)
	idx := 0
	for k := range be.FunTimes {
		fnms[idx] = k
		idx++
	}
	sort.StringSlice(fnms).Sort()
	pcts := make([]float64, nfn)
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = be.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Printf("\t%v \t%6.4g\t%6.4g\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Printf("\tTotal   \t%6.4g\n", tot)

	if be.NThreads <= 1 {
		return
	}
	fmt.Printf("\n\tThr\tTotal Secs\tPct\n")
	pcts = make([]float64, be.NThreads)
	tot = 0.0
	for th := 0; th < be.NThreads; th++ {
		pcts[th] = be.ThrTimes[th].TotalSecs()
		tot += pcts[th]
	}
	for th := 0; th < be.NThreads; th++ {
		fmt.Printf("\t%v \t%6.4g\t%6.4g\n", th, pcts[th], 100*(pcts[th]/tot))
	}
}

func (be *CPUBackend) FunTimerStart(fun string) {
	ft, ok := be.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		be.FunTimes[fun] = ft
	}
	ft.Start()
}

func (be *CPUBackend) FunTimerStop(fun string) {
	ft := be.FunTimes[fun]
	ft.Stop()
}
