// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package npu

import "errors"

// Error values returned by the engine.  All of these are recoverable by the
// caller; no condition in this package terminates the process.
var (
	// ErrCapacity is returned when a store is at capacity -- counts are
	// left unchanged and the caller must reject or re-plan the addition.
	ErrCapacity = errors.New("store capacity exceeded")

	// ErrInvalidParams is returned for an out-of-range index or argument.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrBackendUnavailable is returned when the requested compute backend
	// is not present on this host.
	ErrBackendUnavailable = errors.New("compute backend unavailable")

	// ErrBackendInit is returned when a backend was found but failed to
	// initialize -- callers should fall back to the CPU backend.
	ErrBackendInit = errors.New("compute backend failed to initialize")

	// ErrInvalidState is returned by the burst loop when the requested
	// transition is not valid for the current state.  No side effect
	// occurs.
	ErrInvalidState = errors.New("invalid scheduler state for operation")

	// ErrAreaNotTracked is returned by the fire ledger for areas that were
	// never registered for tracking.
	ErrAreaNotTracked = errors.New("cortical area not tracked")
)
