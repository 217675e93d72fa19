// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package main is the entry point for the Encore server.
//
// Encore serves music artist recommendations computed from a playlist
// interaction snapshot. Startup order:
//
//  1. Configuration: defaults, optional config.yaml, ENCORE_* env (Koanf v2)
//  2. Store: open the DuckDB build store
//  3. Build: restore the newest persisted build, or assemble one from the
//     raw dataset CSV and persist it
//  4. Engine: precompute the artist similarity matrix
//  5. HTTP server: REST API, health endpoints and Prometheus metrics
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundlens/encore/internal/api"
	"github.com/soundlens/encore/internal/config"
	"github.com/soundlens/encore/internal/logging"
	"github.com/soundlens/encore/internal/recommend"
	"github.com/soundlens/encore/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("dataset", cfg.Dataset.Path).
		Str("store", cfg.Store.Path).
		Msg("Starting Encore")

	s, err := store.New(cfg.Store, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open build store")
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close build store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := store.NewLoader(s, cfg.Dataset, logger)
	build, err := loader.LoadOrBuild(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load or build artifacts")
	}

	engine, err := recommend.NewEngine(build, recommend.Config{
		TopK:      cfg.Recommend.TopK,
		Neighbors: cfg.Recommend.Neighbors,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	router := api.NewRouter(api.NewHandler(engine, s), cfg.Server)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
