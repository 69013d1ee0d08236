// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package feagi is the overall repository for the FEAGI neural processing
unit: a time-stepped spiking burst engine implemented in the Go language
(golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* npu: the core engine -- neuron and synapse stores, cortical areas,
synaptic propagation into the fire candidate list, membrane dynamics,
compute backends, and the burst loop state machine.

* lif: the leaky integrate-and-fire membrane formulas and parameters,
kept as a separate pure package so the update and firing rules have a
single source of truth.

* connectome: snapshot persistence -- capturing a running network into a
checksummed, optionally compressed container file and restoring it.

* cmd/npu: the command-line interface for running sessions from a YAML
config and inspecting saved snapshots.

* examples/bench: a scalable synthetic benchmark for measuring burst
throughput at different network sizes and thread counts.
*/
package feagi
