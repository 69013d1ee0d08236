// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import "fmt"

// BurstRecord is one burst's fired ids for a tracked area.
type BurstRecord struct {
	Burst uint64     `desc:"burst counter this record belongs to"`
	IDs   []NeuronID `desc:"fired neuron ids in the area, ascending"`
}

// FireLedger keeps a sliding window of fire history per tracked cortical
// area, keyed by the burst counter.  Areas must be explicitly tracked;
// untracked areas cost nothing.
type FireLedger struct {
	Window  int                      `def:"100" desc:"max bursts of history retained per tracked area"`
	Tracked map[string][]BurstRecord `desc:"history per tracked area name, oldest first"`
}

// NewFireLedger returns a ledger with the given window size.
func NewFireLedger(window int) *FireLedger {
	if window < 1 {
		window = 1
	}
	return &FireLedger{Window: window, Tracked: make(map[string][]BurstRecord)}
}

// Track registers an area for history collection.  Tracking an already
// tracked area is a no-op.
func (fl *FireLedger) Track(area string) {
	if _, ok := fl.Tracked[area]; !ok {
		fl.Tracked[area] = nil
	}
}

// Untrack stops collection for an area and drops its history.
func (fl *FireLedger) Untrack(area string) {
	delete(fl.Tracked, area)
}

// IsTracked reports whether the area is registered.
func (fl *FireLedger) IsTracked(area string) bool {
	_, ok := fl.Tracked[area]
	return ok
}

// Record appends the fired set for one burst, splitting it by tracked area
// and trimming each history to the window.  Called by the loop after every
// burst.
func (fl *FireLedger) Record(burst uint64, nt *Network, fired []NeuronID) {
	if len(fl.Tracked) == 0 {
		return
	}
	byArea := make(map[string][]NeuronID)
	for _, id := range fired {
		ar := nt.AreaOf(id)
		if ar == nil {
			continue
		}
		if _, ok := fl.Tracked[ar.Nm]; !ok {
			continue
		}
		byArea[ar.Nm] = append(byArea[ar.Nm], id)
	}
	for area := range fl.Tracked {
		recs := append(fl.Tracked[area], BurstRecord{Burst: burst, IDs: byArea[area]})
		if len(recs) > fl.Window {
			recs = recs[len(recs)-fl.Window:]
		}
		fl.Tracked[area] = recs
	}
}

// History returns the retained records for a tracked area, oldest first.
// Returns ErrAreaNotTracked for unregistered areas.
func (fl *FireLedger) History(area string) ([]BurstRecord, error) {
	recs, ok := fl.Tracked[area]
	if !ok {
		return nil, fmt.Errorf("History: %w: %q", ErrAreaNotTracked, area)
	}
	return recs, nil
}

// LastFiredAt returns the fired ids recorded for a tracked area at the given
// burst, or ErrInvalidParams if the burst is outside the retained window.
func (fl *FireLedger) LastFiredAt(area string, burst uint64) ([]NeuronID, error) {
	recs, err := fl.History(area)
	if err != nil {
		return nil, err
	}
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Burst == burst {
			return recs[i].IDs, nil
		}
	}
	return nil, fmt.Errorf("LastFiredAt: %w: burst %d not in retained window for %q", ErrInvalidParams, burst, area)
}
