// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"
	"log"

	"github.com/goki/ki/kit"
)

// BackendKind enumerates the available compute execution strategies.
type BackendKind int32

//go:generate stringer -type=BackendKind

var KiT_BackendKind = kit.Enums.AddEnum(BackendKindN, kit.NotBitFlag, nil)

func (ev BackendKind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *BackendKind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// CPU is the sequential / parallel CPU reference backend, always
	// available and the semantics contract for all others.
	CPU BackendKind = iota

	// Accelerator is a device-resident backend (GPU compute or similar)
	// that must reproduce the CPU results exactly.
	Accelerator

	BackendKindN
)

// Network size thresholds above which an accelerator pays for its transfer
// overhead.
const (
	AccelNeuronMin  = 100000
	AccelSynapseMin = 1000000
)

// ComputeBackend is an interchangeable execution strategy for the two burst
// phases.  All implementations must produce identical fired sets for
// identical inputs; equivalence is enforced by golden tests on fired-count
// sequences, not by shared code.
type ComputeBackend interface {
	// Kind returns the backend kind.
	Kind() BackendKind

	// Propagate runs synaptic propagation over the previous burst's fired
	// set and returns the populated candidate list.
	Propagate(fired []NeuronID) (*FireCandidates, error)

	// UpdateDynamics consumes the candidate list, mutates the neuron
	// store, and returns the new fired set in ascending id order.
	UpdateDynamics(fc *FireCandidates, burst uint64) ([]NeuronID, error)

	// Burst runs both phases in order and reports per-phase timing.
	Burst(fired []NeuronID, burst uint64) (*BurstResult, error)
}

// BurstResult is the outcome of one executed burst.
type BurstResult struct {
	Fired         []NeuronID `desc:"neuron ids that fired this burst, ascending"`
	NumCandidates int        `desc:"distinct targets that received input"`
	PropagateSecs float64    `desc:"wall-clock seconds spent in propagation"`
	DynamicsSecs  float64    `desc:"wall-clock seconds spent in the dynamics phase"`
}

// AcceleratorAvailable reports whether an accelerator device is usable on
// this host.  No accelerator target is compiled into this build.
func AcceleratorAvailable() bool {
	return false
}

// SelectBackend is the pure backend-selection function: it favors the CPU
// for small networks (device transfer overhead dominates) and an
// accelerator, when available, for large ones.  Selection happens once per
// session, not per burst.
func SelectBackend(nNeurons, nSynapses int) BackendKind {
	if AcceleratorAvailable() && (nNeurons >= AccelNeuronMin || nSynapses >= AccelSynapseMin) {
		return Accelerator
	}
	return CPU
}

// NewBackend constructs a backend of the given kind over the network.
// Requesting an accelerator on a host without one fails with
// ErrBackendUnavailable; an accelerator that is present but fails to come up
// fails with ErrBackendInit.  Neither error ever degrades silently into
// wrong results.
func NewBackend(kind BackendKind, nt *Network) (ComputeBackend, error) {
	switch kind {
	case CPU:
		return NewCPUBackend(nt, 0), nil
	case Accelerator:
		if !AcceleratorAvailable() {
			return nil, fmt.Errorf("NewBackend: %w: no accelerator device on this host", ErrBackendUnavailable)
		}
		return nil, fmt.Errorf("NewBackend: %w: accelerator support not compiled in", ErrBackendInit)
	}
	return nil, fmt.Errorf("NewBackend: %w: backend kind %d", ErrInvalidParams, kind)
}

// NewBackendFallback constructs a backend of the given kind, falling back to
// the CPU reference when the requested backend is unavailable or fails to
// initialize.
func NewBackendFallback(kind BackendKind, nt *Network) ComputeBackend {
	be, err := NewBackend(kind, nt)
	if err != nil {
		log.Printf("NewBackendFallback: %v -- using CPU backend\n", err)
		return NewCPUBackend(nt, 0)
	}
	return be
}
