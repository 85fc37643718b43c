// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package playlist loads and validates the ordered sequence of media
// sources to relay.
package playlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry identifies one media source: a remote URL or a local file path.
// Entries are immutable and ordering is significant.
type Entry string

// remoteSchemes are the URL prefixes treated as remote sources. Remote
// entries are assumed reachable; failures surface later as relay errors.
var remoteSchemes = []string{
	"http://",
	"https://",
	"rtmp://",
	"rtsp://",
	"udp://",
	"srt://",
}

// IsRemote reports whether the entry is a scheme-prefixed remote reference.
func (e Entry) IsRemote() bool {
	s := strings.ToLower(string(e))
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

// Accessible reports whether the entry is usable right now. Remote entries
// are always considered accessible (no network probe); local entries must
// exist on the filesystem at call time.
func (e Entry) Accessible() bool {
	if e.IsRemote() {
		return true
	}
	_, err := os.Stat(string(e))
	return err == nil
}

// Load reads an ordered playlist from a plain text or #EXTM3U file.
// Blank lines and comment/directive lines (leading '#') are skipped;
// source order is preserved.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("playlist %s contains no entries", path)
	}
	return entries, nil
}
