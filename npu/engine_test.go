// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"strings"
	"testing"
)

func TestEngineSession(t *testing.T) {
	nt := ringNet(t, 32, 2)
	en := NewEngine(nt, 0)
	defer en.Shutdown()
	if en.Backend.Kind() != CPU {
		t.Fatalf("backend kind: got %v, trg CPU", en.Backend.Kind())
	}
	if err := en.InjectSensory([]NeuronID{0}, []float32{100}); err != nil {
		t.Fatalf("InjectSensory: %v", err)
	}
	if err := en.Loop.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if en.BurstCount() != 1 {
		t.Errorf("burst count: got %v, trg 1", en.BurstCount())
	}
	smp := en.MotorSample("ring")
	if smp == nil || len(smp.IDs) != 1 || smp.IDs[0] != 0 {
		t.Errorf("motor sample: got %+v", smp)
	}
}

func TestNetworkSizeReport(t *testing.T) {
	nt := ringNet(t, 16, 1)
	rep := nt.SizeReport()
	if !strings.Contains(rep, "ring") || !strings.Contains(rep, "Neurons: 16") {
		t.Errorf("SizeReport missing content:\n%s", rep)
	}
}
