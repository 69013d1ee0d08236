// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"testing"
)

// propNet builds a two-area network: a 5-neuron source area and a 5-neuron
// target area, unconnected until the test wires it.
func propNet(t *testing.T, uniform bool) *Network {
	nt := NewNetwork("prop", 32, 32)
	grad := GradientParams{Base: 1}
	par := NeuronParams{Leak: 0.1, Excitability: 1}
	if _, err := nt.CreateArea("src", []int{5, 1, 1}, 1, grad, uniform, par); err != nil {
		t.Fatalf("CreateArea src: %v", err)
	}
	if _, err := nt.CreateArea("tgt", []int{5, 1, 1}, 1, grad, false, par); err != nil {
		t.Fatalf("CreateArea tgt: %v", err)
	}
	return nt
}

func TestPropagatePSPDivision(t *testing.T) {
	nt := propNet(t, false)
	// one source with 5 outgoing synapses, psp=10, weight=1: with uniformity
	// disabled each synapse delivers 1*10/5 = 2
	for i := 0; i < 5; i++ {
		nt.Synapses.AddSynapse(0, NeuronID(5+i), 1, 10, Excitatory)
	}
	fc := NewFireCandidates(0)
	Propagate(nt, []NeuronID{0}, fc)
	if fc.Len() != 5 {
		t.Fatalf("candidate count: got %v, trg 5", fc.Len())
	}
	for i := 0; i < 5; i++ {
		CmprFloats([]float32{fc.Get(NeuronID(5 + i))}, []float32{2}, "divided psp", t)
	}
}

func TestPropagatePSPUniform(t *testing.T) {
	nt := propNet(t, true)
	// uniformity enabled on the source's area: full psp on every synapse
	for i := 0; i < 5; i++ {
		nt.Synapses.AddSynapse(0, NeuronID(5+i), 1, 10, Excitatory)
	}
	fc := NewFireCandidates(0)
	Propagate(nt, []NeuronID{0}, fc)
	for i := 0; i < 5; i++ {
		CmprFloats([]float32{fc.Get(NeuronID(5 + i))}, []float32{10}, "uniform psp", t)
	}
}

func TestPropagateContributionFormula(t *testing.T) {
	nt := propNet(t, true)
	nt.Synapses.AddSynapse(0, 5, 255, 255, Excitatory)
	nt.Synapses.AddSynapse(1, 6, 255, 255, Inhibitory)
	fc := NewFireCandidates(0)
	Propagate(nt, []NeuronID{0, 1}, fc)
	// sign * weight * psp over raw bytes: 255*255 = 65025, not 1
	CmprFloats([]float32{fc.Get(5), fc.Get(6)}, []float32{65025, -65025}, "contribution formula", t)
}

func TestPropagateAccumulates(t *testing.T) {
	nt := propNet(t, true)
	nt.Synapses.AddSynapse(0, 7, 2, 3, Excitatory)
	nt.Synapses.AddSynapse(1, 7, 4, 5, Excitatory)
	nt.Synapses.AddSynapse(2, 7, 1, 1, Inhibitory)
	fc := NewFireCandidates(0)
	Propagate(nt, []NeuronID{0, 1, 2}, fc)
	// 6 + 20 - 1
	CmprFloats([]float32{fc.Get(7)}, []float32{25}, "accumulated contributions", t)
	if fc.Len() != 1 {
		t.Errorf("candidate count: got %v, trg 1", fc.Len())
	}
}

func TestPropagateSkipsInvalid(t *testing.T) {
	nt := propNet(t, false)
	nt.Synapses.AddSynapse(0, 5, 1, 10, Excitatory)
	nt.Synapses.AddSynapse(0, 6, 1, 10, Excitatory)
	nt.Synapses.RemoveBetween(0, 6)
	// no rebuild: the stale index entry must still not contribute, and the
	// fan-out division must count only live synapses
	fc := NewFireCandidates(0)
	Propagate(nt, []NeuronID{0}, fc)
	if fc.Len() != 1 {
		t.Fatalf("candidate count: got %v, trg 1", fc.Len())
	}
	CmprFloats([]float32{fc.Get(5)}, []float32{10}, "division over live fan-out", t)
}

func TestFireCandidatesMerge(t *testing.T) {
	a := NewFireCandidates(0)
	b := NewFireCandidates(0)
	a.Add(1, 2)
	a.Add(2, 3)
	b.Add(2, 4)
	b.Add(3, 5)
	a.Merge(b)
	CmprFloats([]float32{a.Get(1), a.Get(2), a.Get(3)}, []float32{2, 7, 5}, "merge", t)
	a.Reset()
	if a.Len() != 0 {
		t.Errorf("reset: got %v entries, trg 0", a.Len())
	}
}
