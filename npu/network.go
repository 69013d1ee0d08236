// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/goki/mat32"
)

// Network holds the complete connectome state: the neuron and synapse stores,
// the cortical area table, and the neuron model that defines the numeric
// policy.  Stores are allocated once at fixed capacity and populated by the
// structural-input calls (AddNeuron, CreateArea, AddSynapse); during a
// running session the burst loop is the exclusive owner and external writers
// must serialize around it.
type Network struct {
	Nm       string         `desc:"overall name of network -- helps discriminate if there are multiple"`
	Neurons  *Neurons       `desc:"neuron store"`
	Synapses *Synapses      `desc:"synapse store"`
	Areas    []*Area        `desc:"cortical areas in creation order"`
	AreaMap  map[string]int `view:"-" desc:"map of name to area index -- area names must be unique"`
	Model    NeuronModel    `view:"-" desc:"numeric policy for contributions, potential update, and firing"`
}

// NewNetwork returns a network with stores of the given fixed capacities and
// the default LIF neuron model.
func NewNetwork(name string, neuronCap, synapseCap int) *Network {
	nt := &Network{Nm: name}
	nt.Neurons = NewNeurons(neuronCap)
	nt.Synapses = NewSynapses(synapseCap)
	nt.AreaMap = make(map[string]int)
	nt.Model = DefaultModel()
	return nt
}

// AreaByName returns the area with the given name, or error.
func (nt *Network) AreaByName(name string) (*Area, error) {
	ai, ok := nt.AreaMap[name]
	if !ok {
		return nil, fmt.Errorf("area %q: %w: no such area in network %s", name, ErrInvalidParams, nt.Nm)
	}
	return nt.Areas[ai], nil
}

// Area returns the area at the given index, or nil if out of range.
func (nt *Network) Area(idx int32) *Area {
	if idx < 0 || int(idx) >= len(nt.Areas) {
		return nil
	}
	return nt.Areas[idx]
}

// AreaOf returns the area a neuron belongs to, or nil.
func (nt *Network) AreaOf(id NeuronID) *Area {
	if int(id) >= nt.Neurons.N {
		return nil
	}
	return nt.Area(nt.Neurons.Areas[id])
}

// CreateArea bulk-creates the neurons of a rectangular 3D area, row-major
// over (x,y,z) with perVoxel neurons at each voxel.  Each neuron's threshold
// comes from the gradient at its voxel; all other parameters come from par.
// The whole area is created or none of it: insufficient remaining capacity
// fails with ErrCapacity before any neuron is added.
func (nt *Network) CreateArea(name string, shp []int, perVoxel int, grad GradientParams, pspUniform bool, par NeuronParams) (*Area, error) {
	if len(shp) != 3 || shp[0] < 1 || shp[1] < 1 || shp[2] < 1 {
		return nil, fmt.Errorf("CreateArea %q: %w: dimensions must be 3 positive ints, got %v", name, ErrInvalidParams, shp)
	}
	if perVoxel < 1 {
		return nil, fmt.Errorf("CreateArea %q: %w: perVoxel %d < 1", name, ErrInvalidParams, perVoxel)
	}
	if _, dup := nt.AreaMap[name]; dup {
		return nil, fmt.Errorf("CreateArea %q: %w: duplicate area name", name, ErrInvalidParams)
	}
	tot := shp[0] * shp[1] * shp[2] * perVoxel
	if nt.Neurons.N+tot > nt.Neurons.Cap {
		return nil, fmt.Errorf("CreateArea %q: %w: need %d neurons, %d remaining", name, ErrCapacity, tot, nt.Neurons.Cap-nt.Neurons.N)
	}
	ar := &Area{Nm: name, PerVoxel: perVoxel, PSPUniform: pspUniform, Gradient: grad}
	ar.Shp.SetShape(shp, nil, []string{"X", "Y", "Z"})
	ar.First = NeuronID(nt.Neurons.N)
	ai := len(nt.Areas)
	par.Area = int32(ai)
	for x := 0; x < shp[0]; x++ {
		for y := 0; y < shp[1]; y++ {
			for z := 0; z < shp[2]; z++ {
				pos := mat32.Vec3i{X: int32(x), Y: int32(y), Z: int32(z)}
				par.Pos = pos
				par.Threshold = grad.At(pos)
				for v := 0; v < perVoxel; v++ {
					if _, err := nt.Neurons.AddNeuron(&par); err != nil {
						return nil, err
					}
					ar.NNeurons++
				}
			}
		}
	}
	nt.Areas = append(nt.Areas, ar)
	nt.AreaMap[name] = ai
	return ar, nil
}

// SizeReport returns a string reporting the size of each area in the
// network, and the total memory footprint of the stores.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	for _, ar := range nt.Areas {
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t Voxels: %v\n", ar.Nm, ar.NNeurons, ar.Shp.Shp)
	}
	nmem := nt.Neurons.MemSize()
	smem := nt.Synapses.MemSize()
	fmt.Fprintf(&b, "\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm,
		nt.Neurons.N, (datasize.ByteSize)(nmem).HumanReadable(), nt.Synapses.N, (datasize.ByteSize)(smem).HumanReadable())
	return b.String()
}
