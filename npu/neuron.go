// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"

	"github.com/goki/mat32"
)

// NeuronID is a dense zero-based handle into the Neurons store.  Handles are
// stable for the lifetime of the entry: soft-deleted neurons keep their index
// and are marked invalid.
type NeuronID uint32

// NeuronParams are the creation-time parameters for a single neuron.
type NeuronParams struct {
	Threshold    float32     `desc:"membrane potential at or above which the neuron fires"`
	ThreshLimit  float32     `desc:"upper bound on firing potential -- a candidate above this does not fire -- 0 = no limit"`
	Leak         float32     `desc:"leak coefficient pulling the potential back toward rest each burst"`
	Rest         float32     `desc:"resting membrane potential, also the post-fire reset value"`
	Refractory   int32       `desc:"number of bursts after firing during which the neuron cannot fire again"`
	Excitability float32     `desc:"probability-like firing gate in 0..1 -- 1 = always eligible"`
	FireLimit    int32       `desc:"max consecutive-burst fires before the snooze period applies -- 0 = unlimited"`
	Snooze       int32       `desc:"extra refractory bursts added when the consecutive-fire limit is hit"`
	ChargeAccum  bool        `desc:"if true incoming current integrates into the potential, otherwise it overwrites it"`
	Area         int32       `desc:"index of the cortical area this neuron belongs to"`
	Pos          mat32.Vec3i `desc:"3D voxel coordinate within the area"`
}

// Neurons is the structure-of-arrays neuron store.  It is allocated once at a
// fixed capacity and appended to by explicit creation calls; additions past
// capacity fail fast with ErrCapacity.  Index i is usable iff i < N and
// Valid[i].
type Neurons struct {
	Cap int `desc:"fixed capacity allocated at startup"`
	N   int `desc:"number of entries created so far, including soft-deleted ones"`

	Potentials   []float32     `desc:"membrane potential per neuron"`
	Thresholds   []float32     `desc:"firing threshold per neuron"`
	ThreshLimits []float32     `desc:"upper firing bound per neuron, 0 = none"`
	Leaks        []float32     `desc:"leak coefficient per neuron"`
	Rests        []float32     `desc:"resting potential per neuron"`
	RefracPers   []int32       `desc:"refractory period in bursts"`
	RefracCtrs   []int32       `desc:"remaining refractory countdown in bursts"`
	Excites      []float32     `desc:"excitability gate per neuron"`
	FireCounts   []int32       `desc:"current consecutive-fire streak"`
	FireLimits   []int32       `desc:"consecutive-fire limit, 0 = unlimited"`
	Snoozes      []int32       `desc:"extra countdown applied at the fire limit"`
	ChargeAccum  []bool        `desc:"accumulate vs overwrite semantics for incoming current"`
	Areas        []int32       `desc:"cortical area index per neuron"`
	Pos          []mat32.Vec3i `desc:"voxel coordinate per neuron"`
	Valid        []bool        `desc:"false for soft-deleted entries"`
}

// NewNeurons returns a store with the given fixed capacity.
func NewNeurons(capacity int) *Neurons {
	ns := &Neurons{Cap: capacity}
	ns.Potentials = make([]float32, 0, capacity)
	ns.Thresholds = make([]float32, 0, capacity)
	ns.ThreshLimits = make([]float32, 0, capacity)
	ns.Leaks = make([]float32, 0, capacity)
	ns.Rests = make([]float32, 0, capacity)
	ns.RefracPers = make([]int32, 0, capacity)
	ns.RefracCtrs = make([]int32, 0, capacity)
	ns.Excites = make([]float32, 0, capacity)
	ns.FireCounts = make([]int32, 0, capacity)
	ns.FireLimits = make([]int32, 0, capacity)
	ns.Snoozes = make([]int32, 0, capacity)
	ns.ChargeAccum = make([]bool, 0, capacity)
	ns.Areas = make([]int32, 0, capacity)
	ns.Pos = make([]mat32.Vec3i, 0, capacity)
	ns.Valid = make([]bool, 0, capacity)
	return ns
}

// AddNeuron appends a neuron with the given parameters and returns its id.
// Fails with ErrCapacity when the store is full, leaving N unchanged.
func (ns *Neurons) AddNeuron(par *NeuronParams) (NeuronID, error) {
	if ns.N >= ns.Cap {
		return 0, fmt.Errorf("AddNeuron: %w: capacity %d", ErrCapacity, ns.Cap)
	}
	if par.Excitability < 0 || par.Excitability > 1 {
		return 0, fmt.Errorf("AddNeuron: %w: excitability %g outside 0..1", ErrInvalidParams, par.Excitability)
	}
	id := NeuronID(ns.N)
	ns.Potentials = append(ns.Potentials, par.Rest)
	ns.Thresholds = append(ns.Thresholds, par.Threshold)
	ns.ThreshLimits = append(ns.ThreshLimits, par.ThreshLimit)
	ns.Leaks = append(ns.Leaks, par.Leak)
	ns.Rests = append(ns.Rests, par.Rest)
	ns.RefracPers = append(ns.RefracPers, par.Refractory)
	ns.RefracCtrs = append(ns.RefracCtrs, 0)
	ns.Excites = append(ns.Excites, par.Excitability)
	ns.FireCounts = append(ns.FireCounts, 0)
	ns.FireLimits = append(ns.FireLimits, par.FireLimit)
	ns.Snoozes = append(ns.Snoozes, par.Snooze)
	ns.ChargeAccum = append(ns.ChargeAccum, par.ChargeAccum)
	ns.Areas = append(ns.Areas, par.Area)
	ns.Pos = append(ns.Pos, par.Pos)
	ns.Valid = append(ns.Valid, true)
	ns.N++
	return id, nil
}

// IsValid reports whether id names a live (created and not soft-deleted) entry.
func (ns *Neurons) IsValid(id NeuronID) bool {
	return int(id) < ns.N && ns.Valid[id]
}

// CheckID returns ErrInvalidParams if id does not name a live entry.
func (ns *Neurons) CheckID(id NeuronID) error {
	if !ns.IsValid(id) {
		return fmt.Errorf("neuron %d: %w: not a valid id (count %d)", id, ErrInvalidParams, ns.N)
	}
	return nil
}

// Potential returns the membrane potential for id.
func (ns *Neurons) Potential(id NeuronID) (float32, error) {
	if err := ns.CheckID(id); err != nil {
		return 0, err
	}
	return ns.Potentials[id], nil
}

// SetPotential sets the membrane potential for id in place.
func (ns *Neurons) SetPotential(id NeuronID, v float32) error {
	if err := ns.CheckID(id); err != nil {
		return err
	}
	ns.Potentials[id] = v
	return nil
}

// SetRefractory sets the remaining refractory countdown for id.
func (ns *Neurons) SetRefractory(id NeuronID, bursts int32) error {
	if err := ns.CheckID(id); err != nil {
		return err
	}
	if bursts < 0 {
		return fmt.Errorf("neuron %d: %w: negative countdown %d", id, ErrInvalidParams, bursts)
	}
	ns.RefracCtrs[id] = bursts
	return nil
}

// Delete soft-deletes id: the entry keeps its index and is marked invalid.
// No reindexing occurs.
func (ns *Neurons) Delete(id NeuronID) error {
	if err := ns.CheckID(id); err != nil {
		return err
	}
	ns.Valid[id] = false
	return nil
}

// NumValid returns the number of live entries.
func (ns *Neurons) NumValid() int {
	nv := 0
	for i := 0; i < ns.N; i++ {
		if ns.Valid[i] {
			nv++
		}
	}
	return nv
}

// MemSize returns the approximate allocated bytes of the store.
func (ns *Neurons) MemSize() int {
	per := 7*4 + 5*4 + 1 + 12 + 1 // float32s, int32s, bool, Vec3i, bool
	return ns.Cap * per
}

// NeuronVars are the per-neuron scalar variables accessible by name.
var NeuronVars = []string{"Potential", "Threshold", "ThreshLimit", "Leak", "Rest", "RefracPer", "RefracCtr", "Excite", "FireCount", "FireLimit", "Snooze"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

// VarByName returns the named scalar variable for the given neuron, or error.
func (ns *Neurons) VarByName(varNm string, id NeuronID) (float32, error) {
	vi, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Neurons VarByName: variable name: %v not valid", varNm)
	}
	if err := ns.CheckID(id); err != nil {
		return 0, err
	}
	return ns.VarByIndex(vi, id), nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars
// list).  The id must already be validated.
func (ns *Neurons) VarByIndex(idx int, id NeuronID) float32 {
	switch idx {
	case 0:
		return ns.Potentials[id]
	case 1:
		return ns.Thresholds[id]
	case 2:
		return ns.ThreshLimits[id]
	case 3:
		return ns.Leaks[id]
	case 4:
		return ns.Rests[id]
	case 5:
		return float32(ns.RefracPers[id])
	case 6:
		return float32(ns.RefracCtrs[id])
	case 7:
		return ns.Excites[id]
	case 8:
		return float32(ns.FireCounts[id])
	case 9:
		return float32(ns.FireLimits[id])
	case 10:
		return float32(ns.Snoozes[id])
	}
	return mat32.NaN()
}
