// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package config defines Encore's configuration and its layered loading:
// built-in defaults, then an optional YAML file, then ENCORE_* environment
// variables. Later layers override earlier ones.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatasetConfig holds raw dataset location and cleaning thresholds.
type DatasetConfig struct {
	// Path is the raw interaction CSV snapshot
	// (user_id, artist_name, track_name, playlist_name).
	Path string `koanf:"path"`

	// MinArtistCount keeps artists with strictly more than this many rows.
	MinArtistCount int `koanf:"min_artist_count"`

	// MinUserTracks keeps users with strictly more than this many distinct
	// track names.
	MinUserTracks int `koanf:"min_user_tracks"`

	// FilterUniformPlaylists enables dropping playlists that cover too few
	// distinct artists. Off by default.
	FilterUniformPlaylists bool `koanf:"filter_uniform_playlists"`

	// MinPlaylistArtists keeps playlists with strictly more than this many
	// distinct artists when FilterUniformPlaylists is enabled.
	MinPlaylistArtists int `koanf:"min_playlist_artists"`
}

// StoreConfig holds artifact store (DuckDB) settings.
type StoreConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// TopK is the number of artist names each recommender returns.
	TopK int `koanf:"top_k"`

	// Neighbors is the number of nearest users for user-based prediction.
	Neighbors int `koanf:"neighbors"`
}

// Default returns a Config with all default values applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8642,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Dataset: DatasetConfig{
			Path:                   "data/spotify_dataset.csv",
			MinArtistCount:         100,
			MinUserTracks:          100,
			FilterUniformPlaylists: false,
			MinPlaylistArtists:     10,
		},
		Store: StoreConfig{
			Path:      "data/encore.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Recommend: RecommendConfig{
			TopK:      10,
			Neighbors: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must not be empty")
	}
	if c.Dataset.MinArtistCount < 0 {
		return fmt.Errorf("dataset.min_artist_count must be non-negative, got %d", c.Dataset.MinArtistCount)
	}
	if c.Dataset.MinUserTracks < 0 {
		return fmt.Errorf("dataset.min_user_tracks must be non-negative, got %d", c.Dataset.MinUserTracks)
	}
	if c.Dataset.MinPlaylistArtists < 0 {
		return fmt.Errorf("dataset.min_playlist_artists must be non-negative, got %d", c.Dataset.MinPlaylistArtists)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Recommend.TopK <= 0 {
		return fmt.Errorf("recommend.top_k must be positive, got %d", c.Recommend.TopK)
	}
	if c.Recommend.Neighbors <= 0 {
		return fmt.Errorf("recommend.neighbors must be positive, got %d", c.Recommend.Neighbors)
	}
	return nil
}
