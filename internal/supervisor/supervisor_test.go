// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package supervisor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ManuGH/relayd/internal/playlist"
	"github.com/ManuGH/relayd/internal/relay"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process tests use sh, skipping on windows")
	}
}

func testStream() relay.Config {
	return relay.Config{
		StreamKey:     "test-key",
		IngestHost:    "ingest.test",
		IngestApp:     "live",
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		Preset:        "veryfast",
		VideoBitrateK: 1000,
		AudioBitrateK: 128,
	}
}

// fakeRelay writes an executable script that ignores the built argument
// vector, so supervisor tests can control attempt behavior.
func fakeRelay(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-relay")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func newTestSupervisor(t *testing.T, binPath string, entries []playlist.Entry) *Supervisor {
	t.Helper()
	logger := zerolog.Nop()
	return New(Options{
		Stream:     testStream(),
		Entries:    entries,
		FFmpegPath: binPath,
		StopGrace:  500 * time.Millisecond,
		Logger:     &logger,
	})
}

func waitFor(t *testing.T, cond func() bool, timeout time.Duration, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestLoopWrapsPlaylistUntilShutdown(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "exit 0")
	s := newTestSupervisor(t, bin, []playlist.Entry{
		"https://example.com/a.mp4",
		"https://example.com/b.mp4",
	})

	done := make(chan struct{})
	go func() {
		s.Run(5 * time.Millisecond)
		close(done)
	}()

	// At least two full passes prove wraparound.
	waitFor(t, func() bool { return s.Status().Cycles >= 2 }, 10*time.Second,
		"loop did not wrap the playlist twice")
	s.Shutdown()
	<-done

	stat := s.Status()
	assert.False(t, stat.Running)
	assert.GreaterOrEqual(t, stat.Attempts, uint64(4))
	assert.Equal(t, string(relay.StateSuccess), stat.LastState)
}

func TestInaccessibleLocalEntrySkippedWithoutDelay(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "exit 0")
	missing := filepath.Join(t.TempDir(), "missing.mp4")
	s := newTestSupervisor(t, bin, []playlist.Entry{playlist.Entry(missing)})

	done := make(chan struct{})
	go func() {
		// Delay is long on purpose: skipped entries must not sleep, so the
		// skip counter still climbs quickly.
		s.Run(time.Hour)
		close(done)
	}()

	waitFor(t, func() bool { return s.Status().Skips >= 5 }, 10*time.Second,
		"skips did not accumulate, skip path appears to apply the retry delay")
	s.Shutdown()
	<-done

	stat := s.Status()
	assert.Equal(t, uint64(0), stat.Attempts, "no relay attempt for inaccessible entries")
	assert.Equal(t, "skipped", stat.LastState)
}

func TestFailingAttemptContinuesLoop(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "echo 'invalid stream key' >&2; exit 1")
	s := newTestSupervisor(t, bin, []playlist.Entry{"https://example.com/a.mp4"})

	done := make(chan struct{})
	go func() {
		s.Run(5 * time.Millisecond)
		close(done)
	}()

	// Repeated failures never stop the loop.
	waitFor(t, func() bool { return s.Status().Attempts >= 3 }, 10*time.Second,
		"loop stopped retrying after failures")
	s.Shutdown()
	<-done

	stat := s.Status()
	assert.Equal(t, string(relay.StateFailed), stat.LastState)
	assert.Equal(t, 1, stat.LastExitCode)
}

func TestLaunchFailureContinuesLoop(t *testing.T) {
	s := newTestSupervisor(t, "/nonexistent/relay-binary", []playlist.Entry{"https://example.com/a.mp4"})

	done := make(chan struct{})
	go func() {
		s.Run(5 * time.Millisecond)
		close(done)
	}()

	waitFor(t, func() bool { return s.Status().Attempts >= 2 }, 10*time.Second,
		"loop stopped retrying after launch failures")
	s.Shutdown()
	<-done

	stat := s.Status()
	assert.Equal(t, string(relay.StateError), stat.LastState)
	assert.NotEmpty(t, stat.LastError)
}

func TestShutdownDuringAttemptTerminatesProcess(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "sleep 30")
	s := newTestSupervisor(t, bin, []playlist.Entry{"https://example.com/a.mp4"})

	done := make(chan struct{})
	go func() {
		s.Run(time.Hour)
		close(done)
	}()

	waitFor(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.active != nil
	}, 10*time.Second, "relay attempt never became active")

	start := time.Now()
	s.Shutdown()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("loop did not exit after shutdown during attempt")
	}
	// The in-flight process was terminated, not awaited for its full 30s.
	assert.Less(t, time.Since(start), 5*time.Second)

	stat := s.Status()
	assert.False(t, stat.Running)
	assert.Equal(t, uint64(1), stat.Attempts, "no new attempt after shutdown")
}

func TestShutdownBetweenAttemptsSkipsNextAttempt(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "exit 0")
	s := newTestSupervisor(t, bin, []playlist.Entry{"https://example.com/a.mp4"})

	done := make(chan struct{})
	go func() {
		s.Run(time.Hour) // park in the retry delay after the first attempt
		close(done)
	}()

	waitFor(t, func() bool { return s.Status().Attempts == 1 }, 10*time.Second,
		"first attempt did not complete")
	s.Shutdown()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit from the retry delay")
	}
	assert.Equal(t, uint64(1), s.Status().Attempts)
}

func TestShutdownIsIdempotent(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "exit 0")
	s := newTestSupervisor(t, bin, []playlist.Entry{"https://example.com/a.mp4"})

	done := make(chan struct{})
	go func() {
		s.Run(time.Hour)
		close(done)
	}()

	waitFor(t, func() bool { return s.Status().Attempts >= 1 }, 10*time.Second,
		"first attempt did not complete")

	s.Shutdown()
	s.Shutdown() // second invocation must be a no-op
	<-done
	s.Shutdown() // and after the loop stopped, still a no-op

	assert.False(t, s.Status().Running)
}

func TestStatusFileSnapshot(t *testing.T) {
	skipOnWindows(t)
	bin := fakeRelay(t, "exit 0")
	statusFile := filepath.Join(t.TempDir(), "status.json")
	logger := zerolog.Nop()
	s := New(Options{
		Stream:     testStream(),
		Entries:    []playlist.Entry{"https://example.com/a.mp4"},
		FFmpegPath: bin,
		StopGrace:  time.Second,
		StatusFile: statusFile,
		Logger:     &logger,
	})

	done := make(chan struct{})
	go func() {
		s.Run(time.Hour)
		close(done)
	}()

	waitFor(t, func() bool { return s.Status().Attempts >= 1 }, 10*time.Second,
		"first attempt did not complete")
	s.Shutdown()
	<-done

	data, err := os.ReadFile(statusFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"running": false`)
	assert.Contains(t, string(data), `"last_state": "success"`)
	// The stream key must never leak into the snapshot.
	assert.NotContains(t, string(data), "test-key")
}
