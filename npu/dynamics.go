// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

// UpdateDynamics runs the neuron model over every candidate in the list and
// returns the new fired set, in ascending id order.  It has exclusive write
// access to the neuron store: propagation readers are never active while it
// runs.
//
// Per candidate the order is fixed: a refractory neuron consumes the burst
// by decrementing its countdown and drops its incoming current; otherwise
// the potential is updated (integrated, or overwritten when the neuron's
// charge-accumulation flag is off), the firing predicate and excitability
// gate are evaluated, and a firing neuron is reset to rest with its
// countdown set to the refractory period, extended by the snooze period
// when the consecutive-fire limit is reached.  A non-firing neuron keeps
// the leaked potential and its fire streak resets.
func UpdateDynamics(nt *Network, fc *FireCandidates, burst uint64) []NeuronID {
	ns := nt.Neurons
	var fired []NeuronID
	for _, id := range fc.SortedIDs() {
		if !ns.IsValid(id) {
			continue
		}
		if ns.RefracCtrs[id] > 0 {
			ns.RefracCtrs[id]--
			continue
		}
		isyn := fc.Get(id)
		var vm float32
		if ns.ChargeAccum[id] {
			vm = nt.Model.UpdatePotential(ns.Potentials[id], isyn, ns.Leaks[id], ns.Rests[id])
		} else {
			vm = isyn
		}
		if nt.Model.ShouldFire(vm, ns.Thresholds[id], ns.ThreshLimits[id], 0) && excitable(ns.Excites[id], id, burst) {
			ns.Potentials[id] = nt.Model.ResetAfterFire(ns.Rests[id])
			ctr := ns.RefracPers[id]
			ns.FireCounts[id]++
			if ns.FireLimits[id] > 0 && ns.FireCounts[id] >= ns.FireLimits[id] {
				ctr += ns.Snoozes[id]
				ns.FireCounts[id] = 0
			}
			ns.RefracCtrs[id] = ctr
			fired = append(fired, id)
		} else {
			ns.Potentials[id] = vm
			ns.FireCounts[id] = 0
		}
	}
	return fired
}

// excitable is the probabilistic firing gate.  Values at or above 0.999
// always pass and values at or below 0 never do; in between, a deterministic
// per-(neuron, burst) roll in [0,1) is compared against the excitability, so
// every backend reproduces the same firing decisions for the same inputs.
func excitable(exc float32, id NeuronID, burst uint64) bool {
	if exc >= 0.999 {
		return true
	}
	if exc <= 0 {
		return false
	}
	return fireRoll(id, burst) < exc
}

// fireRoll hashes (id, burst) to a uniform float32 in [0,1) using a
// splitmix64-style mix.
func fireRoll(id NeuronID, burst uint64) float32 {
	h := uint64(id)*0x9e3779b97f4a7c15 + burst
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return float32(h>>40) / float32(1<<24)
}
