// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import "sort"

// FireCandidates is the per-burst accumulator mapping target neuron id to
// summed incoming contribution.  It is created (or cleared) at the start of
// propagation, consumed once by the dynamics phase, and never carried across
// bursts.  Accumulation is commutative, so partial lists built in parallel
// can be merged in any order.
type FireCandidates struct {
	Contrib map[NeuronID]float32 `desc:"summed contribution per target neuron for the burst being computed"`
}

// NewFireCandidates returns a candidate list pre-sized for the estimated
// number of distinct targets.
func NewFireCandidates(est int) *FireCandidates {
	return &FireCandidates{Contrib: make(map[NeuronID]float32, est)}
}

// Add accumulates a contribution for the given target.
func (fc *FireCandidates) Add(id NeuronID, contrib float32) {
	fc.Contrib[id] += contrib
}

// Get returns the accumulated contribution for id, 0 if absent.
func (fc *FireCandidates) Get(id NeuronID) float32 {
	return fc.Contrib[id]
}

// Len returns the number of distinct candidate targets.
func (fc *FireCandidates) Len() int {
	return len(fc.Contrib)
}

// Merge folds another candidate list into this one.
func (fc *FireCandidates) Merge(oth *FireCandidates) {
	for id, c := range oth.Contrib {
		fc.Contrib[id] += c
	}
}

// Reset clears the list for reuse, keeping allocated capacity.
func (fc *FireCandidates) Reset() {
	for id := range fc.Contrib {
		delete(fc.Contrib, id)
	}
}

// SortedIDs returns the candidate ids in ascending order, for deterministic
// iteration in the dynamics phase.
func (fc *FireCandidates) SortedIDs() []NeuronID {
	ids := make([]NeuronID, 0, len(fc.Contrib))
	for id := range fc.Contrib {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
