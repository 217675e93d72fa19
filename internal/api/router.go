// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package api provides HTTP routing using the Chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soundlens/encore/internal/config"
	"github.com/soundlens/encore/internal/middleware"
)

// Router wires handlers and middleware into the service's HTTP surface.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig
}

// NewRouter creates a router for the given handler set.
func NewRouter(handler *Handler, cfg config.ServerConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup builds the route tree. Middleware order: request ID, real IP,
// panic recovery, CORS (global so OPTIONS preflight always answers), then
// per-group rate limits and metrics.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	// Health endpoints get a permissive limit so monitors can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/tracklist", router.handler.Tracklist)
		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/popular", router.handler.Popular)
			r.Post("/item-based", router.handler.ItemBased)
			r.Post("/user-based", router.handler.UserBased)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit returns the per-IP limiter for data endpoints, or a no-op when
// disabled via configuration.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	if router.cfg.RateLimitReqs <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.LimitByIP(router.cfg.RateLimitReqs, router.cfg.RateLimitWindow)
}
