// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"

	"github.com/goki/ki/kit"
)

// SynIndex is a dense zero-based handle into the Synapses store, stable for
// the lifetime of the entry.
type SynIndex uint32

// SynType is the synapse polarity.
type SynType int32

//go:generate stringer -type=SynType

var KiT_SynType = kit.Enums.AddEnum(SynTypeN, kit.NotBitFlag, nil)

func (ev SynType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SynType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Excitatory synapses contribute positively to the target.
	Excitatory SynType = iota

	// Inhibitory synapses contribute negatively to the target.
	Inhibitory

	SynTypeN
)

// Sign returns +1 for excitatory and -1 for inhibitory synapses.
func (ev SynType) Sign() float32 {
	if ev == Inhibitory {
		return -1
	}
	return 1
}

// Synapses is the structure-of-arrays synapse store.  Weight and PSP are
// stored as raw bytes and cast directly to float when used: a stored 255
// means 255.0, not 1.0.  Downstream consumers depend on this numeric range;
// do not normalize.
//
// The SrcIndex multimap (source id to synapse indices) is maintained on add
// but NOT on removal: removals mark entries invalid in place, and a bulk
// removal leaves stale indices in the map until RebuildSourceIndex is called.
// Propagation skips invalid entries it finds through the index, so a stale
// index costs wasted iteration, never wrong contributions.
type Synapses struct {
	Cap int `desc:"fixed capacity allocated at startup"`
	N   int `desc:"number of entries created so far, including soft-deleted ones"`

	Sources []NeuronID `desc:"source neuron id per synapse"`
	Targets []NeuronID `desc:"target neuron id per synapse"`
	Weights []uint8    `desc:"synaptic weight byte, cast directly to float"`
	PSPs    []uint8    `desc:"post-synaptic potential byte, cast directly to float"`
	Types   []SynType  `desc:"excitatory or inhibitory"`
	Valid   []bool     `desc:"false for soft-deleted entries"`

	SrcIndex map[NeuronID][]SynIndex `json:"-" desc:"source id to outgoing synapse indices, for fan-out lookup"`
}

// NewSynapses returns a store with the given fixed capacity.
func NewSynapses(capacity int) *Synapses {
	ss := &Synapses{Cap: capacity}
	ss.Sources = make([]NeuronID, 0, capacity)
	ss.Targets = make([]NeuronID, 0, capacity)
	ss.Weights = make([]uint8, 0, capacity)
	ss.PSPs = make([]uint8, 0, capacity)
	ss.Types = make([]SynType, 0, capacity)
	ss.Valid = make([]bool, 0, capacity)
	ss.SrcIndex = make(map[NeuronID][]SynIndex)
	return ss
}

// AddSynapse appends a synapse and returns its index, updating the source
// index.  Fails with ErrCapacity when the store is full, leaving N unchanged.
func (ss *Synapses) AddSynapse(src, tgt NeuronID, weight, psp uint8, typ SynType) (SynIndex, error) {
	if ss.N >= ss.Cap {
		return 0, fmt.Errorf("AddSynapse: %w: capacity %d", ErrCapacity, ss.Cap)
	}
	if typ < 0 || typ >= SynTypeN {
		return 0, fmt.Errorf("AddSynapse: %w: synapse type %d", ErrInvalidParams, typ)
	}
	si := SynIndex(ss.N)
	ss.Sources = append(ss.Sources, src)
	ss.Targets = append(ss.Targets, tgt)
	ss.Weights = append(ss.Weights, weight)
	ss.PSPs = append(ss.PSPs, psp)
	ss.Types = append(ss.Types, typ)
	ss.Valid = append(ss.Valid, true)
	ss.SrcIndex[src] = append(ss.SrcIndex[src], si)
	ss.N++
	return si, nil
}

// WeightFloat returns the weight byte cast directly to float32.
func (ss *Synapses) WeightFloat(si SynIndex) float32 {
	return float32(ss.Weights[si])
}

// PSPFloat returns the PSP byte cast directly to float32.
func (ss *Synapses) PSPFloat(si SynIndex) float32 {
	return float32(ss.PSPs[si])
}

// Fanout returns the outgoing synapse indices recorded for src.  The slice
// may include soft-deleted entries after removals; callers must check Valid.
func (ss *Synapses) Fanout(src NeuronID) []SynIndex {
	return ss.SrcIndex[src]
}

// FanoutValid returns the number of live outgoing synapses recorded for src.
func (ss *Synapses) FanoutValid(src NeuronID) int {
	nv := 0
	for _, si := range ss.SrcIndex[src] {
		if ss.Valid[si] {
			nv++
		}
	}
	return nv
}

// RemoveBetween soft-deletes all valid synapses from src to tgt and returns
// the number removed.  Indices never shift; the source index is not updated
// (see RebuildSourceIndex).
func (ss *Synapses) RemoveBetween(src, tgt NeuronID) int {
	nr := 0
	for _, si := range ss.SrcIndex[src] {
		if ss.Valid[si] && ss.Targets[si] == tgt {
			ss.Valid[si] = false
			nr++
		}
	}
	return nr
}

// RemoveFromSources soft-deletes all valid synapses originating from any of
// the given sources and returns the number removed.
func (ss *Synapses) RemoveFromSources(srcs []NeuronID) int {
	nr := 0
	for _, src := range srcs {
		for _, si := range ss.SrcIndex[src] {
			if ss.Valid[si] {
				ss.Valid[si] = false
				nr++
			}
		}
	}
	return nr
}

// RebuildSourceIndex reconstructs the source index from the current valid
// entries, dropping indices left stale by removals.  Call after any bulk
// removal before iteration results must be exact.
func (ss *Synapses) RebuildSourceIndex() {
	ss.SrcIndex = make(map[NeuronID][]SynIndex, len(ss.SrcIndex))
	for i := 0; i < ss.N; i++ {
		if !ss.Valid[i] {
			continue
		}
		src := ss.Sources[i]
		ss.SrcIndex[src] = append(ss.SrcIndex[src], SynIndex(i))
	}
}

// NumValid returns the number of live entries.
func (ss *Synapses) NumValid() int {
	nv := 0
	for i := 0; i < ss.N; i++ {
		if ss.Valid[i] {
			nv++
		}
	}
	return nv
}

// MemSize returns the approximate allocated bytes of the store, excluding
// the source index.
func (ss *Synapses) MemSize() int {
	per := 4 + 4 + 1 + 1 + 4 + 1
	return ss.Cap * per
}
