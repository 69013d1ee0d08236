// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import (
	"errors"
	"testing"
)

func TestLedgerTrackAndRecord(t *testing.T) {
	nt := ringNet(t, 8, 1)
	fl := NewFireLedger(10)
	fl.Track("ring")
	if !fl.IsTracked("ring") {
		t.Fatalf("area not tracked after Track")
	}
	fl.Record(1, nt, []NeuronID{0, 3})
	fl.Record(2, nt, nil)
	recs, err := fl.History("ring")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("history length: got %v, trg 2", len(recs))
	}
	if recs[0].Burst != 1 || len(recs[0].IDs) != 2 {
		t.Errorf("record 1: got %+v", recs[0])
	}
	if recs[1].Burst != 2 || len(recs[1].IDs) != 0 {
		t.Errorf("quiet burst must still be recorded: got %+v", recs[1])
	}
}

func TestLedgerWindowTrim(t *testing.T) {
	nt := ringNet(t, 8, 1)
	fl := NewFireLedger(3)
	fl.Track("ring")
	for b := uint64(1); b <= 5; b++ {
		fl.Record(b, nt, []NeuronID{0})
	}
	recs, _ := fl.History("ring")
	if len(recs) != 3 {
		t.Fatalf("window trim: got %v records, trg 3", len(recs))
	}
	if recs[0].Burst != 3 || recs[2].Burst != 5 {
		t.Errorf("window must keep the newest bursts: got %v..%v", recs[0].Burst, recs[2].Burst)
	}
}

func TestLedgerErrors(t *testing.T) {
	fl := NewFireLedger(10)
	if _, err := fl.History("nosuch"); !errors.Is(err, ErrAreaNotTracked) {
		t.Errorf("untracked history: got %v, trg ErrAreaNotTracked", err)
	}
	fl.Track("a")
	fl.Untrack("a")
	if fl.IsTracked("a") {
		t.Errorf("area still tracked after Untrack")
	}
}

func TestLedgerLastFiredAt(t *testing.T) {
	nt := ringNet(t, 8, 1)
	fl := NewFireLedger(4)
	fl.Track("ring")
	fl.Record(7, nt, []NeuronID{1, 2})
	ids, err := fl.LastFiredAt("ring", 7)
	if err != nil {
		t.Fatalf("LastFiredAt: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("fired at burst 7: got %v, trg 2 ids", ids)
	}
	if _, err := fl.LastFiredAt("ring", 99); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("burst outside window: got %v, trg ErrInvalidParams", err)
	}
}
