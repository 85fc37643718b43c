// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package supervisor drives the relay process across the playlist: it
// validates each entry, runs one relay attempt at a time, applies the retry
// delay and honors shutdown requests.
package supervisor

import (
	"sync"
	"time"

	"github.com/ManuGH/relayd/internal/log"
	"github.com/ManuGH/relayd/internal/metrics"
	"github.com/ManuGH/relayd/internal/playlist"
	"github.com/ManuGH/relayd/internal/relay"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultRetryDelay is the pause between consecutive relay attempts when no
// delay is configured. It throttles restart storms from a persistently
// failing source or endpoint.
const DefaultRetryDelay = 10 * time.Second

// Options configures a Supervisor.
type Options struct {
	Stream     relay.Config
	Entries    []playlist.Entry
	FFmpegPath string
	StopGrace  time.Duration
	StatusFile string // optional path for atomic status snapshots
	Logger     *zerolog.Logger
}

// Supervisor owns the supervision loop state: the monotonic run flag and the
// zero-or-one active relay runner. Shutdown is the only cross-cutting
// mutation point and is safe at any time, including while a relay attempt
// is blocked in Wait.
type Supervisor struct {
	stream     relay.Config
	entries    []playlist.Entry
	ffmpegPath string
	stopGrace  time.Duration
	statusFile string
	logger     zerolog.Logger

	quit     chan struct{}
	quitOnce sync.Once

	mu     sync.Mutex
	active *relay.Runner
	stat   Status
}

// New creates a Supervisor over an ordered, immutable playlist.
func New(opts Options) *Supervisor {
	logger := log.WithComponent("supervisor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Supervisor{
		stream:     opts.Stream,
		entries:    opts.Entries,
		ffmpegPath: opts.FFmpegPath,
		stopGrace:  opts.StopGrace,
		statusFile: opts.StatusFile,
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Run executes the supervision loop until Shutdown is called. It repeats the
// playlist indefinitely; inaccessible entries are skipped without delay, and
// every completed attempt (success, failure or launch error) is followed by
// retryDelay. No entry is ever removed from the playlist: transient and
// permanent failures are indistinguishable without operator context, so the
// loop retries forever.
func (s *Supervisor) Run(retryDelay time.Duration) {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	s.markStarted()
	s.logger.Info().
		Str(log.FieldEvent, "loop.start").
		Int("entries", len(s.entries)).
		Dur(log.FieldDelay, retryDelay).
		Str(log.FieldDestination, relay.MaskedDestination(s.stream)).
		Msg("supervision loop started")

	for s.running() {
		for _, entry := range s.entries {
			// Re-check before any work so a shutdown requested mid-playlist
			// halts without starting a new attempt.
			if !s.running() {
				break
			}

			if !entry.Accessible() {
				s.logger.Warn().
					Str(log.FieldEvent, "entry.skip").
					Str(log.FieldEntry, string(entry)).
					Msg("source inaccessible, skipping entry")
				metrics.SkipTotal.Inc()
				s.recordSkip(entry)
				continue // no delay for skipped entries
			}

			s.runAttempt(entry)

			if !s.running() {
				break
			}
			s.sleep(retryDelay)
		}
		if s.running() {
			metrics.CycleTotal.Inc()
			s.recordCycle()
		}
	}

	s.markStopped()
	s.logger.Info().
		Str(log.FieldEvent, "loop.stop").
		Msg("supervision loop stopped")
}

// runAttempt executes one full relay attempt for the entry and records its
// outcome. It blocks until the relay process exits.
func (s *Supervisor) runAttempt(entry playlist.Entry) relay.Result {
	attemptID := uuid.NewString()
	alog := s.logger.With().
		Str(log.FieldAttemptID, attemptID).
		Str(log.FieldEntry, string(entry)).
		Logger()

	args := relay.BuildArgs(entry, s.stream)
	runner := relay.NewRunner(s.ffmpegPath, s.stopGrace, alog)

	if !s.setActive(runner) {
		// Shutdown raced in between the running() check and here; the
		// attempt is never started.
		return relay.Result{State: relay.StateError}
	}

	alog.Info().
		Str(log.FieldEvent, "attempt.start").
		Str(log.FieldDestination, relay.MaskedDestination(s.stream)).
		Msg("starting relay attempt")

	res := runner.Run(args)
	s.clearActive()

	switch res.State {
	case relay.StateSuccess:
		alog.Info().
			Str(log.FieldEvent, "attempt.success").
			Dur("duration", res.EndedAt.Sub(res.StartedAt)).
			Msg("relay attempt completed")
	case relay.StateFailed:
		alog.Error().
			Str(log.FieldEvent, "attempt.failed").
			Int(log.FieldExitCode, res.ExitCode).
			Strs("stderr", res.Stderr).
			Msg("relay attempt failed")
	case relay.StateError:
		alog.Error().
			Str(log.FieldEvent, "attempt.error").
			Err(res.Err).
			Msg("relay attempt could not be executed")
	}

	metrics.AttemptTotal.WithLabelValues(string(res.State)).Inc()
	if !res.StartedAt.IsZero() {
		metrics.AttemptDuration.Observe(res.EndedAt.Sub(res.StartedAt).Seconds())
	}
	s.recordResult(entry, attemptID, res)
	return res
}

// Shutdown requests loop termination and forces the active relay process, if
// any, to terminate. It is non-blocking, idempotent and safe to call
// concurrently with a blocked attempt. The run flag is monotonic: once
// cleared it is never set again.
func (s *Supervisor) Shutdown() {
	s.quitOnce.Do(func() {
		s.logger.Info().
			Str(log.FieldEvent, "shutdown.received").
			Msg("shutdown requested")
		close(s.quit)
	})

	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active != nil {
		active.Stop()
	}
}

// Done is closed once shutdown has been requested.
func (s *Supervisor) Done() <-chan struct{} {
	return s.quit
}

func (s *Supervisor) running() bool {
	select {
	case <-s.quit:
		return false
	default:
		return true
	}
}

// setActive publishes the runner as the single live process handle. It
// refuses when shutdown has already been requested, so no new process can
// start after that point.
func (s *Supervisor) setActive(r *relay.Runner) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return false
	}
	s.active = r
	return true
}

func (s *Supervisor) clearActive() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// sleep pauses for the retry delay but returns early on shutdown.
func (s *Supervisor) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.quit:
	case <-t.C:
	}
}
