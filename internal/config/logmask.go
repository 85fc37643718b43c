// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// Masked returns a copy of the configuration safe for logging or status
// dumps: the stream key is replaced with "***". The ingest destination
// itself is not secret, only the key segment is.
func (c *Config) Masked() Config {
	masked := *c
	if masked.StreamKey != "" {
		masked.StreamKey = "***"
	}
	return masked
}
