// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes the optional status HTTP surface: health, supervisor
// status and Prometheus metrics. It is read-only; the relay is controlled
// exclusively through process signals.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ManuGH/relayd/internal/log"
	"github.com/ManuGH/relayd/internal/supervisor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer builds the status server listening on addr.
func NewServer(addr string, sup *supervisor.Supervisor) *http.Server {
	logger := log.WithComponent("api")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, sup.Status())
	})

	r.Handle("/metrics", promhttp.Handler())

	logger.Info().Str("addr", addr).Msg("status server configured")

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
