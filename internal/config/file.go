// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the YAML config file layout. All fields are optional;
// unset fields keep their previous (default) value.
type FileConfig struct {
	StreamKey     *string `yaml:"stream_key"`
	IngestHost    *string `yaml:"ingest_host"`
	IngestApp     *string `yaml:"ingest_app"`
	VideoCodec    *string `yaml:"video_codec"`
	AudioCodec    *string `yaml:"audio_codec"`
	Preset        *string `yaml:"preset"`
	VideoBitrateK *int    `yaml:"video_bitrate_k"`
	AudioBitrateK *int    `yaml:"audio_bitrate_k"`
	FFmpegPath    *string `yaml:"ffmpeg_path"`
	PlaylistPath  *string `yaml:"playlist"`
	RetryDelay    *string `yaml:"retry_delay"`
	StopGrace     *string `yaml:"stop_grace"`
	ListenAddr    *string `yaml:"listen"`
	StatusFile    *string `yaml:"status_file"`
	LogLevel      *string `yaml:"log_level"`
}

func loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return &fc, nil // empty file, keep defaults
		}
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// mergeFile applies non-nil file values onto cfg.
func mergeFile(cfg *Config, fc *FileConfig) error {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&cfg.StreamKey, fc.StreamKey)
	setString(&cfg.IngestHost, fc.IngestHost)
	setString(&cfg.IngestApp, fc.IngestApp)
	setString(&cfg.VideoCodec, fc.VideoCodec)
	setString(&cfg.AudioCodec, fc.AudioCodec)
	setString(&cfg.Preset, fc.Preset)
	setInt(&cfg.VideoBitrateK, fc.VideoBitrateK)
	setInt(&cfg.AudioBitrateK, fc.AudioBitrateK)
	setString(&cfg.FFmpegPath, fc.FFmpegPath)
	setString(&cfg.PlaylistPath, fc.PlaylistPath)
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.StatusFile, fc.StatusFile)
	setString(&cfg.LogLevel, fc.LogLevel)

	var errs []error
	if fc.RetryDelay != nil {
		d, err := parseFileDuration(*fc.RetryDelay)
		if err != nil {
			errs = append(errs, fmt.Errorf("retry_delay: %w", err))
		} else {
			cfg.RetryDelay = d
		}
	}
	if fc.StopGrace != nil {
		d, err := parseFileDuration(*fc.StopGrace)
		if err != nil {
			errs = append(errs, fmt.Errorf("stop_grace: %w", err))
		} else {
			cfg.StopGrace = d
		}
	}
	return errors.Join(errs...)
}

// parseFileDuration accepts either a Go duration string or a bare number of seconds.
func parseFileDuration(v string) (time.Duration, error) {
	if v == "" {
		return 0, errors.New("empty duration")
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	var secs int
	if _, err := fmt.Sscanf(v, "%d", &secs); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", v)
}
