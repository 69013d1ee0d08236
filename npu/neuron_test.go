// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"errors"
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing expected values.
const difTol = float32(1.0e-6)

func CmprFloats(got, trg []float32, msg string, t *testing.T) {
	for i := range got {
		dif := mat32.Abs(got[i] - trg[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("%v err: got: %v, trg: %v, dif: %v\n", msg, got[i], trg[i], dif)
		}
	}
}

func TestNeuronCapacity(t *testing.T) {
	ns := NewNeurons(2)
	par := &NeuronParams{Threshold: 1, Leak: 0.1}
	for i := 0; i < 2; i++ {
		id, err := ns.AddNeuron(par)
		if err != nil {
			t.Fatalf("AddNeuron %d failed: %v", i, err)
		}
		if id != NeuronID(i) {
			t.Errorf("AddNeuron id: got %v, trg %v", id, i)
		}
	}
	_, err := ns.AddNeuron(par)
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("AddNeuron past capacity: got %v, trg ErrCapacity", err)
	}
	if ns.N != 2 {
		t.Errorf("failed add must not change count: got %v, trg 2", ns.N)
	}
}

func TestNeuronAccessors(t *testing.T) {
	ns := NewNeurons(4)
	par := &NeuronParams{Threshold: 2, Leak: 0.1, Rest: 0.5}
	id, _ := ns.AddNeuron(par)
	vm, err := ns.Potential(id)
	if err != nil {
		t.Fatalf("Potential: %v", err)
	}
	CmprFloats([]float32{vm}, []float32{0.5}, "initial potential = rest", t)
	if err := ns.SetPotential(id, 1.25); err != nil {
		t.Fatalf("SetPotential: %v", err)
	}
	vm, _ = ns.Potential(id)
	CmprFloats([]float32{vm}, []float32{1.25}, "potential after set", t)
	if err := ns.SetRefractory(id, 3); err != nil {
		t.Fatalf("SetRefractory: %v", err)
	}
	if ns.RefracCtrs[id] != 3 {
		t.Errorf("refractory countdown: got %v, trg 3", ns.RefracCtrs[id])
	}
	if err := ns.SetPotential(99, 1); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("SetPotential bad id: got %v, trg ErrInvalidParams", err)
	}
	if err := ns.SetRefractory(id, -1); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("SetRefractory negative: got %v, trg ErrInvalidParams", err)
	}
}

func TestNeuronSoftDelete(t *testing.T) {
	ns := NewNeurons(4)
	par := &NeuronParams{Threshold: 1}
	a, _ := ns.AddNeuron(par)
	b, _ := ns.AddNeuron(par)
	if err := ns.Delete(a); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ns.IsValid(a) {
		t.Errorf("deleted neuron still valid")
	}
	if !ns.IsValid(b) {
		t.Errorf("soft delete must not affect other entries")
	}
	if ns.N != 2 {
		t.Errorf("soft delete must not reindex: got count %v, trg 2", ns.N)
	}
	if ns.NumValid() != 1 {
		t.Errorf("NumValid: got %v, trg 1", ns.NumValid())
	}
}

func TestNeuronVarByName(t *testing.T) {
	ns := NewNeurons(2)
	par := &NeuronParams{Threshold: 2.5, Leak: 0.2, Rest: 0.5, Refractory: 4, Excitability: 1}
	id, _ := ns.AddNeuron(par)
	got := make([]float32, 0, 4)
	for _, nm := range []string{"Threshold", "Leak", "Rest", "RefracPer"} {
		v, err := ns.VarByName(nm, id)
		if err != nil {
			t.Fatalf("VarByName %v: %v", nm, err)
		}
		got = append(got, v)
	}
	CmprFloats(got, []float32{2.5, 0.2, 0.5, 4}, "VarByName", t)
	if _, err := ns.VarByName("Bogus", id); err == nil {
		t.Errorf("VarByName with unknown name must error")
	}
}

func TestCreateAreaGradient(t *testing.T) {
	nt := NewNetwork("gradient", 64, 8)
	grad := GradientParams{Base: 10, IncX: 1, IncY: 2, IncZ: 5}
	ar, err := nt.CreateArea("v1", []int{3, 3, 2}, 1, grad, false, NeuronParams{Leak: 0.1})
	if err != nil {
		t.Fatalf("CreateArea: %v", err)
	}
	if ar.NNeurons != 18 {
		t.Errorf("area size: got %v, trg 18", ar.NNeurons)
	}
	thrAt := func(x, y, z int32) float32 {
		for i := 0; i < nt.Neurons.N; i++ {
			p := nt.Neurons.Pos[i]
			if p.X == x && p.Y == y && p.Z == z {
				return nt.Neurons.Thresholds[i]
			}
		}
		t.Fatalf("no neuron at (%d,%d,%d)", x, y, z)
		return 0
	}
	CmprFloats([]float32{thrAt(0, 0, 0), thrAt(2, 2, 1), thrAt(1, 0, 1)},
		[]float32{10, 21, 16}, "threshold gradient", t)
}

func TestCreateAreaPerVoxel(t *testing.T) {
	nt := NewNetwork("pervoxel", 64, 8)
	grad := GradientParams{Base: 3, IncX: 1}
	ar, err := nt.CreateArea("m1", []int{2, 1, 1}, 3, grad, false, NeuronParams{})
	if err != nil {
		t.Fatalf("CreateArea: %v", err)
	}
	if ar.NNeurons != 6 {
		t.Errorf("area size: got %v, trg 6", ar.NNeurons)
	}
	// all neurons at the same voxel get identical thresholds
	for i := 0; i < 3; i++ {
		CmprFloats([]float32{nt.Neurons.Thresholds[i]}, []float32{3}, "voxel 0 threshold", t)
	}
	for i := 3; i < 6; i++ {
		CmprFloats([]float32{nt.Neurons.Thresholds[i]}, []float32{4}, "voxel 1 threshold", t)
	}
}

func TestCreateAreaErrors(t *testing.T) {
	nt := NewNetwork("errs", 10, 8)
	grad := GradientParams{Base: 1}
	if _, err := nt.CreateArea("big", []int{10, 10, 10}, 1, grad, false, NeuronParams{}); !errors.Is(err, ErrCapacity) {
		t.Errorf("oversized area: got %v, trg ErrCapacity", err)
	}
	if nt.Neurons.N != 0 {
		t.Errorf("failed CreateArea must not add neurons: got %v", nt.Neurons.N)
	}
	if _, err := nt.CreateArea("flat", []int{2, 2}, 1, grad, false, NeuronParams{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("2D dims: got %v, trg ErrInvalidParams", err)
	}
	if _, err := nt.CreateArea("ok", []int{2, 2, 2}, 1, grad, false, NeuronParams{}); err != nil {
		t.Fatalf("CreateArea: %v", err)
	}
	if _, err := nt.CreateArea("ok", []int{1, 1, 1}, 1, grad, false, NeuronParams{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("duplicate name: got %v, trg ErrInvalidParams", err)
	}
}
