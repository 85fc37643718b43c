// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package relay

import "time"

// State classifies the outcome of one relay attempt.
type State string

const (
	// StateSuccess: the process ran and exited 0.
	StateSuccess State = "success"
	// StateFailed: the process ran and exited nonzero.
	StateFailed State = "failed"
	// StateError: the process could not be launched or managed.
	StateError State = "error"
)

// Result is the explicit outcome of one relay attempt. The supervision loop
// branches on State instead of catching faults.
type Result struct {
	State     State
	ExitCode  int       // valid for StateFailed
	Stderr    []string  // last captured diagnostic lines, for StateFailed
	Err       error     // set for StateError
	StartedAt time.Time // zero if the process never started
	EndedAt   time.Time
}

// Ok reports whether the attempt completed cleanly.
func (r Result) Ok() bool {
	return r.State == StateSuccess
}
