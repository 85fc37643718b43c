// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package relay

import (
	"strings"
	"testing"

	"github.com/ManuGH/relayd/internal/playlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		StreamKey:     "abcd-1234",
		IngestHost:    "a.rtmp.youtube.com",
		IngestApp:     "live2",
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		Preset:        "veryfast",
		VideoBitrateK: 2500,
		AudioBitrateK: 160,
	}
}

func TestBuildArgsShape(t *testing.T) {
	args := BuildArgs("/media/intro.mp4", testConfig())

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-re")
	assert.Contains(t, joined, "-i /media/intro.mp4")
	assert.Contains(t, joined, "-c:v libx264")
	assert.Contains(t, joined, "-preset veryfast")
	assert.Contains(t, joined, "-b:v 2500k")
	assert.Contains(t, joined, "-c:a aac")
	assert.Contains(t, joined, "-b:a 160k")
	assert.Contains(t, joined, "-f flv")

	// Destination is always the final argument.
	require.NotEmpty(t, args)
	assert.Equal(t, "rtmp://a.rtmp.youtube.com/live2/abcd-1234", args[len(args)-1])
}

func TestBuildArgsDeterministic(t *testing.T) {
	cfg := testConfig()
	entry := playlist.Entry("https://example.com/a.mp4")

	first := BuildArgs(entry, cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildArgs(entry, cfg))
	}
}

func TestDestinationEmbedsExactlyConfiguredKey(t *testing.T) {
	cfg := testConfig()
	cfg.StreamKey = "key-A"
	other := testConfig()
	other.StreamKey = "key-B"

	assert.Equal(t, "rtmp://a.rtmp.youtube.com/live2/key-A", DestinationURL(cfg))
	assert.NotContains(t, DestinationURL(cfg), other.StreamKey)
}

func TestMaskedDestinationHidesKey(t *testing.T) {
	cfg := testConfig()
	masked := MaskedDestination(cfg)
	assert.NotContains(t, masked, cfg.StreamKey)
	assert.Equal(t, "rtmp://a.rtmp.youtube.com/live2/***", masked)
}
