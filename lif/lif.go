// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the leaky-integrate-and-fire membrane equations used as
the default and reference neuron model.  The formulas here are the single
source of truth: any alternate execution strategy must reproduce them exactly
under equivalent floating-point rules, a contract enforced by golden tests
rather than shared code.
*/
package lif

// Params holds the default leaky-integrate-and-fire parameters used when a
// neuron's creation call does not specify its own.
type Params struct {
	Leak       float32 `def:"0.1" min:"0" desc:"leak coefficient pulling the membrane potential back toward rest each burst"`
	Rest       float32 `def:"0" desc:"resting membrane potential, also the post-fire reset value"`
	Threshold  float32 `def:"1" desc:"default firing threshold for neurons created without a gradient"`
	Refractory int32   `def:"0" min:"0" desc:"default refractory period in bursts"`
}

func (lp *Params) Update() {
}

func (lp *Params) Defaults() {
	lp.Leak = 0.1
	lp.Rest = 0
	lp.Threshold = 1
	lp.Refractory = 0
	lp.Update()
}

// VmNext computes the next membrane potential:
// V(t+1) = V(t) + Isyn - leak*(V(t) - Vrest)
func VmNext(vm, isyn, leak, rest float32) float32 {
	return vm + isyn - leak*(vm-rest)
}

// Fires reports the firing predicate: the neuron fires iff it is not
// refractory and the potential is at or above threshold, and at or below the
// upper limit when one is set (limit > 0).
func Fires(vm, threshold, limit float32, countdown int32) bool {
	if countdown != 0 {
		return false
	}
	if vm < threshold {
		return false
	}
	if limit > 0 && vm > limit {
		return false
	}
	return true
}
