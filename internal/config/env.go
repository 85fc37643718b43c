// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/relayd/internal/log"
	"github.com/rs/zerolog"
)

// ParseString reads a string from an environment variable or returns the default.
// It logs the source (environment or default) for observability. Values of
// sensitive variables (key/token/password/secret) are never logged.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		switch {
		case isSensitiveKey(key):
			logger.Debug().
				Str("key", key).
				Str("source", "environment").
				Bool("sensitive", true).
				Msg("using environment variable")
		case value == "":
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		default:
			logger.Debug().
				Str("key", key).
				Str("value", value).
				Str("source", "environment").
				Msg("using environment variable")
		}
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("default", defaultValue).
		Str("source", "default").
		Msg("using default value")
	return defaultValue
}

// ParseInt reads an integer from an environment variable or returns the default.
// It falls back to the default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			logger.Debug().
				Str("key", key).
				Int("value", i).
				Str("source", "environment").
				Msg("using environment variable")
			return i
		}
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
	}
	return defaultValue
}

// ParseDuration reads a time.Duration from an environment variable or returns
// the default. A bare number is interpreted as seconds.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		logger.Debug().
			Str("key", key).
			Dur("value", d).
			Str("source", "environment").
			Msg("using environment variable")
		return d
	}
	logger.Warn().
		Str("key", key).
		Str("value", v).
		Dur("default", defaultValue).
		Msg("invalid duration in environment variable, using default")
	return defaultValue
}

// mergeEnv applies RELAYD_* environment overrides onto cfg.
func mergeEnv(cfg *Config) {
	cfg.StreamKey = ParseString("RELAYD_STREAM_KEY", cfg.StreamKey)
	cfg.IngestHost = ParseString("RELAYD_INGEST_HOST", cfg.IngestHost)
	cfg.IngestApp = ParseString("RELAYD_INGEST_APP", cfg.IngestApp)
	cfg.VideoCodec = ParseString("RELAYD_VIDEO_CODEC", cfg.VideoCodec)
	cfg.AudioCodec = ParseString("RELAYD_AUDIO_CODEC", cfg.AudioCodec)
	cfg.Preset = ParseString("RELAYD_PRESET", cfg.Preset)
	cfg.VideoBitrateK = ParseInt("RELAYD_VIDEO_BITRATE", cfg.VideoBitrateK)
	cfg.AudioBitrateK = ParseInt("RELAYD_AUDIO_BITRATE", cfg.AudioBitrateK)
	cfg.FFmpegPath = ParseString("RELAYD_FFMPEG", cfg.FFmpegPath)
	cfg.PlaylistPath = ParseString("RELAYD_PLAYLIST", cfg.PlaylistPath)
	cfg.RetryDelay = ParseDuration("RELAYD_RETRY_DELAY", cfg.RetryDelay)
	cfg.StopGrace = ParseDuration("RELAYD_STOP_GRACE", cfg.StopGrace)
	cfg.ListenAddr = ParseString("RELAYD_LISTEN", cfg.ListenAddr)
	cfg.StatusFile = ParseString("RELAYD_STATUS_FILE", cfg.StatusFile)
	cfg.LogLevel = ParseString("RELAYD_LOG_LEVEL", cfg.LogLevel)
}

var sensitiveKeywords = []string{"key", "token", "password", "secret"}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
