// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads and validates the relayd configuration with
// precedence ENV > file > defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/relayd/internal/relay"
)

// Config is the effective runtime configuration.
type Config struct {
	// Stream parameters handed to the relay command builder.
	StreamKey     string
	IngestHost    string
	IngestApp     string
	VideoCodec    string
	AudioCodec    string
	Preset        string
	VideoBitrateK int
	AudioBitrateK int

	// Process supervision.
	FFmpegPath   string
	PlaylistPath string
	RetryDelay   time.Duration
	StopGrace    time.Duration

	// Optional surfaces.
	ListenAddr string // status/metrics HTTP server, disabled when empty
	StatusFile string // atomic JSON snapshot, disabled when empty

	LogLevel string
}

// Default values applied before file and environment overrides.
func defaults() Config {
	return Config{
		IngestHost:    "a.rtmp.youtube.com",
		IngestApp:     "live2",
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		Preset:        "veryfast",
		VideoBitrateK: 2500,
		AudioBitrateK: 160,
		FFmpegPath:    "ffmpeg",
		RetryDelay:    10 * time.Second,
		StopGrace:     5 * time.Second,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	var errs []error
	if c.StreamKey == "" {
		errs = append(errs, errors.New("stream key is required"))
	}
	if c.IngestHost == "" {
		errs = append(errs, errors.New("ingest host is required"))
	}
	if c.PlaylistPath == "" {
		errs = append(errs, errors.New("playlist path is required"))
	}
	if c.VideoBitrateK <= 0 {
		errs = append(errs, fmt.Errorf("video bitrate must be positive, got %d", c.VideoBitrateK))
	}
	if c.AudioBitrateK <= 0 {
		errs = append(errs, fmt.Errorf("audio bitrate must be positive, got %d", c.AudioBitrateK))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry delay must not be negative, got %s", c.RetryDelay))
	}
	return errors.Join(errs...)
}

// Stream maps the configuration onto the relay command builder's Config.
func (c *Config) Stream() relay.Config {
	return relay.Config{
		StreamKey:     c.StreamKey,
		IngestHost:    c.IngestHost,
		IngestApp:     c.IngestApp,
		VideoCodec:    c.VideoCodec,
		AudioCodec:    c.AudioCodec,
		Preset:        c.Preset,
		VideoBitrateK: c.VideoBitrateK,
		AudioBitrateK: c.AudioBitrateK,
	}
}
