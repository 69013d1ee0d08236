// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"errors"
	"testing"
)

func TestSynapseCapacity(t *testing.T) {
	ss := NewSynapses(2)
	for i := 0; i < 2; i++ {
		si, err := ss.AddSynapse(0, NeuronID(i+1), 10, 10, Excitatory)
		if err != nil {
			t.Fatalf("AddSynapse %d failed: %v", i, err)
		}
		if si != SynIndex(i) {
			t.Errorf("AddSynapse index: got %v, trg %v", si, i)
		}
	}
	_, err := ss.AddSynapse(0, 3, 10, 10, Excitatory)
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("AddSynapse past capacity: got %v, trg ErrCapacity", err)
	}
	if ss.N != 2 {
		t.Errorf("failed add must not change count: got %v, trg 2", ss.N)
	}
}

func TestSynapseDirectCast(t *testing.T) {
	ss := NewSynapses(4)
	si, _ := ss.AddSynapse(0, 1, 255, 255, Excitatory)
	// raw byte values cast to float, NOT normalized to 0..1
	CmprFloats([]float32{ss.WeightFloat(si), ss.PSPFloat(si)}, []float32{255, 255}, "direct byte cast", t)
	si2, _ := ss.AddSynapse(0, 2, 1, 1, Excitatory)
	CmprFloats([]float32{ss.WeightFloat(si2)}, []float32{1}, "weight 1 is 1.0", t)
}

func TestSynapseRemoveBetween(t *testing.T) {
	ss := NewSynapses(8)
	ss.AddSynapse(0, 1, 10, 10, Excitatory)
	ss.AddSynapse(0, 1, 20, 10, Excitatory)
	ss.AddSynapse(0, 2, 30, 10, Excitatory)
	nr := ss.RemoveBetween(0, 1)
	if nr != 2 {
		t.Errorf("RemoveBetween count: got %v, trg 2", nr)
	}
	if ss.N != 3 {
		t.Errorf("removal must not shift indices: got count %v, trg 3", ss.N)
	}
	if ss.NumValid() != 1 {
		t.Errorf("NumValid after removal: got %v, trg 1", ss.NumValid())
	}
	// repeated removal finds nothing
	if nr := ss.RemoveBetween(0, 1); nr != 0 {
		t.Errorf("repeat RemoveBetween: got %v, trg 0", nr)
	}
}

func TestSynapseRemoveFromSources(t *testing.T) {
	ss := NewSynapses(8)
	ss.AddSynapse(0, 1, 10, 10, Excitatory)
	ss.AddSynapse(0, 2, 10, 10, Excitatory)
	ss.AddSynapse(1, 2, 10, 10, Excitatory)
	ss.AddSynapse(2, 0, 10, 10, Excitatory)
	nr := ss.RemoveFromSources([]NeuronID{0, 1})
	if nr != 3 {
		t.Errorf("RemoveFromSources count: got %v, trg 3", nr)
	}
	if ss.FanoutValid(2) != 1 {
		t.Errorf("untouched source fan-out: got %v, trg 1", ss.FanoutValid(2))
	}
}

func TestRebuildSourceIndex(t *testing.T) {
	ss := NewSynapses(8)
	ss.AddSynapse(0, 1, 10, 10, Excitatory)
	ss.AddSynapse(0, 2, 10, 10, Excitatory)
	ss.RemoveBetween(0, 1)
	// stale entry remains in the index until rebuild
	if len(ss.Fanout(0)) != 2 {
		t.Errorf("pre-rebuild fan-out length: got %v, trg 2", len(ss.Fanout(0)))
	}
	ss.RebuildSourceIndex()
	if len(ss.Fanout(0)) != 1 {
		t.Errorf("post-rebuild fan-out length: got %v, trg 1", len(ss.Fanout(0)))
	}
	if ss.Targets[ss.Fanout(0)[0]] != 2 {
		t.Errorf("rebuilt index must point at the surviving synapse")
	}
}

func TestSynTypeSign(t *testing.T) {
	CmprFloats([]float32{Excitatory.Sign(), Inhibitory.Sign()}, []float32{1, -1}, "SynType sign", t)
	if Excitatory.String() != "Excitatory" {
		t.Errorf("SynType String: got %v", Excitatory.String())
	}
}
