// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soundlens/encore/internal/config"
	"github.com/soundlens/encore/internal/dataset"
	"github.com/soundlens/encore/internal/matrix"
	"github.com/soundlens/encore/internal/metrics"
)

// Loader produces the build the service runs on: a persisted build when a
// consistent one exists, otherwise a fresh build from the raw dataset which
// is then persisted. A mutex makes concurrent callers share one attempt
// instead of racing duplicate builds.
type Loader struct {
	store   *Store
	dataset config.DatasetConfig
	logger  zerolog.Logger

	mu    sync.Mutex
	build *matrix.Build
}

// NewLoader creates a loader backed by the given store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoader(s *Store, datasetCfg config.DatasetConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		store:   s,
		dataset: datasetCfg,
		logger:  logger.With().Str("component", "loader").Logger(),
	}
}

// LoadOrBuild returns the current build, restoring or building it on first
// use. A restored build that fails its consistency checks is discarded and
// rebuilt from the raw dataset.
func (l *Loader) LoadOrBuild(ctx context.Context) (*matrix.Build, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.build != nil {
		return l.build, nil
	}

	b, err := l.store.LoadBuild(ctx)
	switch {
	case err == nil:
		l.adopt(b)
		return b, nil
	case errors.Is(err, ErrNoBuild):
		l.logger.Info().Msg("no persisted build, building from dataset")
	case errors.Is(err, ErrInconsistentBuild):
		l.logger.Warn().Err(err).Msg("persisted build inconsistent, rebuilding from dataset")
	default:
		return nil, err
	}

	b, err = l.rebuild(ctx)
	if err != nil {
		return nil, err
	}

	l.adopt(b)
	return b, nil
}

// adopt caches the build and publishes its gauges.
func (l *Loader) adopt(b *matrix.Build) {
	l.build = b
	metrics.BuildTimestamp.Set(float64(b.CreatedAt.Unix()))
	metrics.BuildDatasetRows.Set(float64(len(b.Dataset)))
	metrics.BuildMatrixCells.Set(float64(b.Ratings.NNZ()))
}

// rebuild runs the full preparation pipeline and persists the result.
func (l *Loader) rebuild(ctx context.Context) (*matrix.Build, error) {
	start := time.Now()

	raw, err := dataset.ReadCSV(l.dataset.Path, l.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	prepared := dataset.NewPreparer(l.dataset, l.logger).Prepare(raw)
	if len(prepared) == 0 {
		return nil, fmt.Errorf("dataset %s is empty after filtering", l.dataset.Path)
	}

	b := matrix.NewBuild(prepared)

	if err := l.store.SaveBuild(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist build: %w", err)
	}

	elapsed := time.Since(start)
	metrics.ObserveBuildDuration(elapsed)
	l.logger.Info().
		Str("build_id", b.ID).
		Int("raw_rows", len(raw)).
		Int("prepared_rows", len(prepared)).
		Dur("elapsed", elapsed).
		Msg("build assembled")

	return b, nil
}
