// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldAttemptID = "attempt_id"
	FieldEntry     = "entry"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldPID       = "pid"
	FieldExitCode  = "exit_code"
	FieldSignal    = "signal"

	// Loop fields
	FieldCycle    = "cycle"
	FieldAttempts = "attempts"
	FieldDelay    = "delay"

	// Path / URL fields
	FieldPath        = "path"
	FieldDestination = "destination"
)
