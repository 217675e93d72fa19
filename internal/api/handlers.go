// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/soundlens/encore/internal/cache"
	"github.com/soundlens/encore/internal/metrics"
	"github.com/soundlens/encore/internal/models"
	"github.com/soundlens/encore/internal/recommend"
	"github.com/soundlens/encore/internal/store"
	"github.com/soundlens/encore/internal/validation"
)

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	engine  *recommend.Engine
	store   *store.Store
	results *cache.ResultCache
}

// NewHandler creates the API handler set. Selection-based recommendation
// results are cached; the cache is scoped to this handler and dies with the
// build it serves.
func NewHandler(engine *recommend.Engine, s *store.Store) *Handler {
	return &Handler{
		engine:  engine,
		store:   s,
		results: cache.NewResultCache(1024, 5*time.Minute),
	}
}

// Tracklist handles GET /api/v1/tracklist. It returns the selectable
// "Artist - Track" display names of the served build.
func (h *Handler) Tracklist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	names := h.engine.Tracklist().DisplayNames()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.TracklistResponse{
			Tracks: names,
			Count:  len(names),
		},
		Metadata: h.metadata(start),
	})
}

// Popular handles GET /api/v1/recommendations/popular.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	artists := h.engine.Popularity()
	metrics.RecordRecommendation("popularity", time.Since(start))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RecommendationResponse{
			Algorithm: "popularity",
			Artists:   artists,
		},
		Metadata: h.metadata(start),
	})
}

// ItemBased handles POST /api/v1/recommendations/item-based.
func (h *Handler) ItemBased(w http.ResponseWriter, r *http.Request) {
	h.recommendFromSelection(w, r, "item_based", h.engine.ItemBased)
}

// UserBased handles POST /api/v1/recommendations/user-based.
func (h *Handler) UserBased(w http.ResponseWriter, r *http.Request) {
	h.recommendFromSelection(w, r, "user_based", h.engine.UserBased)
}

// recommendFromSelection decodes and validates the selection body, runs the
// given recommender and writes the response.
func (h *Handler) recommendFromSelection(
	w http.ResponseWriter,
	r *http.Request,
	algorithm string,
	fn func([]string) ([]string, error),
) {
	start := time.Now()

	var req models.RecommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		metrics.RecordRecommendationError(algorithm, "bad_request")
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.RecordRecommendationError(algorithm, "validation")
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status: "error",
			Error: &models.APIError{
				Code:    "VALIDATION_ERROR",
				Message: verr.Error(),
				Details: verr.Fields,
			},
			Metadata: h.metadata(start),
		})
		return
	}

	key := cacheKey(algorithm, req.Artists)
	if artists, ok := h.results.Get(key); ok {
		metrics.RecordRecommendation(algorithm, time.Since(start))
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status: "success",
			Data: models.RecommendationResponse{
				Algorithm: algorithm,
				Artists:   artists,
			},
			Metadata: h.metadata(start),
		})
		return
	}

	artists, err := fn(req.Artists)
	if err != nil {
		if errors.Is(err, recommend.ErrUnknownArtist) {
			metrics.RecordRecommendationError(algorithm, "unknown_artist")
			respondError(w, http.StatusUnprocessableEntity, "UNKNOWN_ARTIST", err.Error(), nil)
			return
		}
		metrics.RecordRecommendationError(algorithm, "internal")
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR", "Failed to generate recommendations", err)
		return
	}
	h.results.Add(key, artists)
	metrics.RecordRecommendation(algorithm, time.Since(start))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RecommendationResponse{
			Algorithm: algorithm,
			Artists:   artists,
		},
		Metadata: h.metadata(start),
	})
}

// cacheKey derives a selection-order-insensitive cache key. Artist names
// cannot contain NUL, so it is a safe separator.
func cacheKey(algorithm string, artists []string) string {
	sorted := make([]string, len(artists))
	copy(sorted, artists)
	sort.Strings(sorted)
	return algorithm + "\x00" + strings.Join(sorted, "\x00")
}

// Health handles GET /api/v1/health: overall status, combining liveness
// and readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.HealthReady(w, r)
}

// HealthLive handles GET /api/v1/health/live. Always healthy while the
// process serves requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     models.HealthResponse{Status: "alive"},
		Metadata: h.metadata(time.Now()),
	})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the store
// answers and a build is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     models.HealthResponse{Status: "store unavailable"},
			Error:    &models.APIError{Code: "STORE_UNAVAILABLE", Message: err.Error()},
			Metadata: h.metadata(time.Now()),
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthResponse{
			Status:  "ready",
			BuildID: h.engine.Build().ID,
		},
		Metadata: h.metadata(time.Now()),
	})
}

func (h *Handler) metadata(start time.Time) models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
		BuildID:     h.engine.Build().ID,
	}
}
