// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package relay builds and runs the external relay process that pushes one
// media source to the RTMP ingest endpoint.
package relay

import (
	"fmt"

	"github.com/ManuGH/relayd/internal/playlist"
)

// Config holds the static stream parameters used to build the relay command.
type Config struct {
	StreamKey     string
	IngestHost    string
	IngestApp     string
	VideoCodec    string
	AudioCodec    string
	Preset        string
	VideoBitrateK int
	AudioBitrateK int
}

// DestinationURL returns the full RTMP publish URL including the stream key.
// Callers must not log this value; use MaskedDestination instead.
func DestinationURL(cfg Config) string {
	return fmt.Sprintf("rtmp://%s/%s/%s", cfg.IngestHost, cfg.IngestApp, cfg.StreamKey)
}

// MaskedDestination returns the publish URL with the stream key redacted.
func MaskedDestination(cfg Config) string {
	return fmt.Sprintf("rtmp://%s/%s/***", cfg.IngestHost, cfg.IngestApp)
}

// BuildArgs constructs the argument vector for the relay tool. It is pure
// and deterministic: the same (entry, cfg) always yields the same vector.
// -re throttles input reads to native rate so a file source is not pushed
// faster than real time.
func BuildArgs(entry playlist.Entry, cfg Config) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-re",
		"-i", string(entry),
		"-c:v", cfg.VideoCodec,
		"-preset", cfg.Preset,
		"-b:v", fmt.Sprintf("%dk", cfg.VideoBitrateK),
		"-c:a", cfg.AudioCodec,
		"-b:a", fmt.Sprintf("%dk", cfg.AudioBitrateK),
		"-f", "flv",
		DestinationURL(cfg),
	}
}
