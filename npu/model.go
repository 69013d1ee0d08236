// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"fmt"

	"github.com/feagi/npu/lif"
)

// NeuronModel is the pluggable numeric policy for the engine: the synaptic
// contribution formula, the potential-update formula, the firing predicate,
// and the post-fire reset value.  Alternate models can be substituted without
// touching the propagation or scheduling layers.
type NeuronModel interface {
	// Name returns the registry name of the model.
	Name() string

	// Contribution returns the contribution a single synapse delivers,
	// before any fan-out division: sign(typ) * weight * psp.
	Contribution(weight, psp float32, typ SynType) float32

	// UpdatePotential integrates the summed incoming current into the
	// membrane potential.
	UpdatePotential(vm, isyn, leak, rest float32) float32

	// ShouldFire is the firing predicate over the updated potential.
	ShouldFire(vm, threshold, limit float32, countdown int32) bool

	// ResetAfterFire returns the post-fire membrane potential.
	ResetAfterFire(rest float32) float32
}

// LIF is the default leaky-integrate-and-fire model, delegating to the
// reference formulas in the lif package.
type LIF struct {
	Params lif.Params `view:"inline" desc:"default membrane parameters"`
}

func (lm *LIF) Name() string {
	return "lif"
}

func (lm *LIF) Contribution(weight, psp float32, typ SynType) float32 {
	return typ.Sign() * weight * psp
}

func (lm *LIF) UpdatePotential(vm, isyn, leak, rest float32) float32 {
	return lif.VmNext(vm, isyn, leak, rest)
}

func (lm *LIF) ShouldFire(vm, threshold, limit float32, countdown int32) bool {
	return lif.Fires(vm, threshold, limit, countdown)
}

func (lm *LIF) ResetAfterFire(rest float32) float32 {
	return rest
}

// Models is the registry of available neuron models by name.
var Models = map[string]NeuronModel{}

// RegisterModel adds a model to the registry, replacing any model of the
// same name.
func RegisterModel(m NeuronModel) {
	Models[m.Name()] = m
}

// ModelByName returns the registered model with the given name, or error.
func ModelByName(name string) (NeuronModel, error) {
	m, ok := Models[name]
	if !ok {
		return nil, fmt.Errorf("model %q: %w: not registered", name, ErrInvalidParams)
	}
	return m, nil
}

// DefaultModel returns a fresh LIF model with default parameters.
func DefaultModel() NeuronModel {
	lm := &LIF{}
	lm.Params.Defaults()
	return lm
}

func init() {
	RegisterModel(DefaultModel())
}
