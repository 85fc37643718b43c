// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package supervisor

import (
	"encoding/json"
	"time"

	"github.com/ManuGH/relayd/internal/playlist"
	"github.com/ManuGH/relayd/internal/relay"
	"github.com/google/renameio/v2"
)

// Status is a point-in-time snapshot of the supervision loop, exposed via
// the status endpoint and the optional status file.
type Status struct {
	Running       bool      `json:"running"`
	LastEntry     string    `json:"last_entry,omitempty"`
	LastAttemptID string    `json:"last_attempt_id,omitempty"`
	LastState     string    `json:"last_state,omitempty"`
	LastExitCode  int       `json:"last_exit_code,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	Attempts      uint64    `json:"attempts"`
	Skips         uint64    `json:"skips"`
	Cycles        uint64    `json:"cycles"`
	StartedAt     time.Time `json:"started_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// Status returns a copy of the current snapshot.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stat
}

func (s *Supervisor) markStarted() {
	s.mu.Lock()
	s.stat.Running = true
	s.stat.StartedAt = time.Now()
	s.stat.UpdatedAt = s.stat.StartedAt
	s.mu.Unlock()
	s.persistStatus()
}

func (s *Supervisor) markStopped() {
	s.mu.Lock()
	s.stat.Running = false
	s.stat.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.persistStatus()
}

func (s *Supervisor) recordSkip(entry playlist.Entry) {
	s.mu.Lock()
	s.stat.LastEntry = string(entry)
	s.stat.LastState = "skipped"
	s.stat.Skips++
	s.stat.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.persistStatus()
}

func (s *Supervisor) recordResult(entry playlist.Entry, attemptID string, res relay.Result) {
	s.mu.Lock()
	s.stat.LastEntry = string(entry)
	s.stat.LastAttemptID = attemptID
	s.stat.LastState = string(res.State)
	s.stat.LastExitCode = res.ExitCode
	s.stat.LastError = ""
	if res.Err != nil {
		s.stat.LastError = res.Err.Error()
	}
	s.stat.Attempts++
	s.stat.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.persistStatus()
}

func (s *Supervisor) recordCycle() {
	s.mu.Lock()
	s.stat.Cycles++
	s.stat.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.persistStatus()
}

// persistStatus atomically publishes the snapshot to the status file, if one
// is configured. Failures are logged, never fatal.
func (s *Supervisor) persistStatus() {
	if s.statusFile == "" {
		return
	}
	snap := s.Status()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal status snapshot")
		return
	}
	if err := renameio.WriteFile(s.statusFile, append(data, '\n'), 0o644); err != nil {
		s.logger.Warn().Err(err).Str("path", s.statusFile).Msg("failed to write status snapshot")
	}
}
