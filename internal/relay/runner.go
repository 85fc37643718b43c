// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package relay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/ManuGH/relayd/internal/metrics"
	"github.com/ManuGH/relayd/internal/procgroup"
	"github.com/rs/zerolog"
)

const diagnosticLines = 20

// Runner owns exactly one external relay process instance. Run blocks until
// the process exits; Stop may be called concurrently (typically from the
// shutdown path) to force termination. A Runner is single-use.
type Runner struct {
	binPath string
	grace   time.Duration
	logger  zerolog.Logger
	ring    *LineRing

	mu      sync.Mutex
	cmd     *exec.Cmd
	stopped bool
}

// NewRunner creates a Runner for the given relay binary. grace is the delay
// between SIGTERM and SIGKILL on forced termination.
func NewRunner(binPath string, grace time.Duration, logger zerolog.Logger) *Runner {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	if grace <= 0 {
		grace = 5 * time.Second
	}
	return &Runner{
		binPath: binPath,
		grace:   grace,
		logger:  logger,
		ring:    NewLineRing(256),
	}
}

// Run launches the relay process and blocks until it exits, naturally or via
// Stop. Output streams are captured into a ring buffer rather than inherited,
// so diagnostics can be reported on failure without interleaving with
// supervisor logs. The process handle is cleared on every exit path.
func (r *Runner) Run(args []string) Result {
	cmd := exec.Command(r.binPath, args...) // #nosec G204 -- args built internally
	procgroup.Set(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errorResult(fmt.Errorf("pipe stdout: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errorResult(fmt.Errorf("pipe stderr: %w", err))
	}

	var ioWg sync.WaitGroup
	drain := func(pipe io.Reader) {
		defer ioWg.Done()
		scanner := bufio.NewScanner(pipe)
		for scanner.Scan() {
			r.ring.Add(scanner.Text())
		}
	}

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return errorResult(errors.New("runner already stopped"))
	}
	if err := cmd.Start(); err != nil {
		r.mu.Unlock()
		return errorResult(fmt.Errorf("start %s: %w", r.binPath, err))
	}
	r.cmd = cmd
	r.mu.Unlock()

	// Handle must be cleared on every exit path, including panics mid-wait.
	defer func() {
		r.mu.Lock()
		r.cmd = nil
		r.mu.Unlock()
		metrics.ActiveRelay.Set(0)
	}()

	started := time.Now()
	metrics.ActiveRelay.Set(1)
	r.logger.Info().
		Str("event", "relay.start").
		Int("pid", cmd.Process.Pid).
		Msg("relay process started")

	ioWg.Add(2)
	go drain(stdout)
	go drain(stderr)

	waitErr := cmd.Wait()
	ioWg.Wait()
	ended := time.Now()

	if waitErr == nil {
		return Result{State: StateSuccess, StartedAt: started, EndedAt: ended}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return Result{
			State:     StateFailed,
			ExitCode:  exitErr.ExitCode(),
			Stderr:    r.ring.LastN(diagnosticLines),
			StartedAt: started,
			EndedAt:   ended,
		}
	}

	res := errorResult(fmt.Errorf("wait for %s: %w", r.binPath, waitErr))
	res.StartedAt = started
	res.EndedAt = ended
	return res
}

// Stop requests forced termination of the running process: SIGTERM to the
// process group, escalating to SIGKILL after the grace period. It never
// blocks on the child and is idempotent; stopping an already-exited or
// never-started runner is a no-op. The pending Run observes the exit through
// its normal Wait and returns.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}

	r.logger.Debug().
		Str("event", "relay.terminate").
		Str("signal", "SIGTERM").
		Int("pid", r.cmd.Process.Pid).
		Msg("sending SIGTERM to relay process group")
	if err := procgroup.Kill(r.cmd, syscall.SIGTERM); err != nil {
		r.logger.Warn().Err(err).Msg("failed to signal relay process")
		return
	}
	metrics.IncTerminate("SIGTERM")

	cmd := r.cmd
	time.AfterFunc(r.grace, func() {
		_ = procgroup.Kill(cmd, syscall.SIGKILL)
	})
}

// Diagnostics returns the last captured output lines.
func (r *Runner) Diagnostics() []string {
	return r.ring.LastN(diagnosticLines)
}

func errorResult(err error) Result {
	return Result{State: StateError, Err: err}
}
