// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"github.com/emer/etable/v2/etensor"
	"github.com/goki/mat32"
)

// GradientParams are the linear threshold-gradient coefficients applied when
// bulk-creating the neurons of an area.  The firing threshold of a neuron at
// voxel (x,y,z) is Base + x*IncX + y*IncY + z*IncZ; zero increments reduce to
// a flat threshold.
type GradientParams struct {
	Base float32 `def:"1" desc:"threshold at voxel (0,0,0)"`
	IncX float32 `def:"0" desc:"threshold increment per voxel along x"`
	IncY float32 `def:"0" desc:"threshold increment per voxel along y"`
	IncZ float32 `def:"0" desc:"threshold increment per voxel along z"`
}

func (gp *GradientParams) Update() {
}

func (gp *GradientParams) Defaults() {
	gp.Base = 1
	gp.IncX = 0
	gp.IncY = 0
	gp.IncZ = 0
	gp.Update()
}

// At returns the threshold for the given voxel position.
func (gp *GradientParams) At(pos mat32.Vec3i) float32 {
	return gp.Base + float32(pos.X)*gp.IncX + float32(pos.Y)*gp.IncY + float32(pos.Z)*gp.IncZ
}

// Area is a cortical area: a named rectangular 3D grouping of neurons
// sharing area-level policy flags.  Neurons of an area occupy a contiguous
// id range assigned at creation.
type Area struct {
	Nm         string         `desc:"name of the area -- must be unique within the network"`
	Shp        etensor.Shape  `desc:"3D voxel geometry of the area"`
	PerVoxel   int            `desc:"neurons created per voxel"`
	PSPUniform bool           `desc:"if true each outgoing synapse delivers the full psp value rather than an even share across the source's fan-out"`
	Gradient   GradientParams `view:"inline" desc:"threshold gradient applied at creation"`
	First      NeuronID       `desc:"id of the first neuron in the area"`
	NNeurons   int            `desc:"total neurons created for the area"`
}

// NumVoxels returns the number of voxels in the area.
func (ar *Area) NumVoxels() int {
	return ar.Shp.Len()
}

// Contains reports whether id falls in the area's id range.
func (ar *Area) Contains(id NeuronID) bool {
	return id >= ar.First && int(id) < int(ar.First)+ar.NNeurons
}
