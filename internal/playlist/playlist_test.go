// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryIsRemote(t *testing.T) {
	tests := []struct {
		entry  string
		remote bool
	}{
		{"http://example.com/stream.mp4", true},
		{"https://cdn.example.com/a.mp4?sig=abc", true},
		{"rtmp://live.example.com/app/key", true},
		{"rtsp://cam.local/feed", true},
		{"udp://239.0.0.1:1234", true},
		{"srt://host:9000", true},
		{"HTTP://UPPER.example.com/x", true},
		{"/var/media/intro.mp4", false},
		{"relative/clip.mp4", false},
		{"file.mp4", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.entry, func(t *testing.T) {
			assert.Equal(t, tc.remote, Entry(tc.entry).IsRemote())
		})
	}
}

func TestEntryAccessible(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	assert.True(t, Entry(existing).Accessible())
	assert.False(t, Entry(filepath.Join(dir, "missing.mp4")).Accessible())
	// Remote entries are assumed reachable, no probe.
	assert.True(t, Entry("https://example.com/gone.mp4").Accessible())
}

func TestLoadPlainList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.txt")
	content := "/media/a.mp4\n\nhttps://example.com/b.mp4\n  /media/c.mp4  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		"/media/a.mp4",
		"https://example.com/b.mp4",
		"/media/c.mp4",
	}, entries)
}

func TestLoadM3U(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.m3u")
	content := "#EXTM3U\n#EXTINF:-1,First\nhttp://example.com/1.ts\n#EXTINF:-1,Second\n/media/2.mp4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{"http://example.com/1.ts", "/media/2.mp4"}, entries)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.m3u"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.m3u")
	require.NoError(t, os.WriteFile(empty, []byte("#EXTM3U\n\n"), 0o644))
	_, err = Load(empty)
	assert.ErrorContains(t, err, "no entries")
}
