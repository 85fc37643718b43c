// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics provides Prometheus metrics for the relay supervisor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptTotal counts completed relay attempts by result.
	AttemptTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayd_attempt_total",
		Help: "Total number of completed relay attempts, by result (success/failed/error).",
	}, []string{"result"})

	// SkipTotal counts playlist entries skipped as inaccessible.
	SkipTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relayd_skip_total",
		Help: "Total number of playlist entries skipped because the source was inaccessible.",
	})

	// CycleTotal counts full passes over the playlist.
	CycleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relayd_playlist_cycle_total",
		Help: "Total number of completed playlist passes.",
	})

	// TerminateTotal counts termination signals sent to the relay process.
	TerminateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relayd_terminate_total",
		Help: "Total number of termination signals sent to the relay process, by signal.",
	}, []string{"signal"})

	// AttemptDuration observes wall-clock duration of relay attempts.
	AttemptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "relayd_attempt_duration_seconds",
		Help:    "Wall-clock duration of relay attempts.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// ActiveRelay is 1 while a relay process is running.
	ActiveRelay = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relayd_active_relay",
		Help: "Whether a relay process is currently running (0 or 1).",
	})
)

// IncTerminate records a termination signal sent to the child.
func IncTerminate(signal string) {
	TerminateTotal.WithLabelValues(signal).Inc()
}
