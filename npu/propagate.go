// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

// Propagate walks the outgoing synapses of each fired neuron and accumulates
// contributions into the candidate list.  For a source with n live outgoing
// synapses, each synapse delivers sign*weight*psp/n unless the source's area
// sets PSPUniform, in which case the full value is delivered on every
// synapse.  Weight and psp are the raw stored bytes cast to float.
//
// Propagation is read-only over the stores, which licenses running disjoint
// slices of the fired set in parallel into partial candidate lists (see
// CPUBackend).
func Propagate(nt *Network, fired []NeuronID, fc *FireCandidates) {
	for _, src := range fired {
		PropagateOne(nt, src, fc)
	}
}

// PropagateOne accumulates the contributions of a single fired source.
func PropagateOne(nt *Network, src NeuronID, fc *FireCandidates) {
	if !nt.Neurons.IsValid(src) {
		return
	}
	syns := nt.Synapses.Fanout(src)
	if len(syns) == 0 {
		return
	}
	nOut := 0
	for _, si := range syns {
		if nt.Synapses.Valid[si] {
			nOut++
		}
	}
	if nOut == 0 {
		return
	}
	uniform := false
	if ar := nt.AreaOf(src); ar != nil {
		uniform = ar.PSPUniform
	}
	div := float32(nOut)
	for _, si := range syns {
		if !nt.Synapses.Valid[si] {
			continue
		}
		c := nt.Model.Contribution(nt.Synapses.WeightFloat(si), nt.Synapses.PSPFloat(si), nt.Synapses.Types[si])
		if !uniform {
			c /= div
		}
		fc.Add(nt.Synapses.Targets[si], c)
	}
}
