// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package recommend

import "fmt"

// Config contains recommendation engine configuration.
type Config struct {
	// TopK is the maximum number of artist names each recommender returns.
	TopK int

	// Neighbors is the number of nearest users considered by user-based
	// prediction.
	Neighbors int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		TopK:      10,
		Neighbors: 10,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.Neighbors <= 0 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	return nil
}
