// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package models defines the shared API response envelope.
package models

import "time"

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS float64   `json:"query_time_ms"`
	BuildID     string    `json:"build_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// TracklistResponse is the payload of GET /api/v1/tracklist.
type TracklistResponse struct {
	Tracks []string `json:"tracks"`
	Count  int      `json:"count"`
}

// RecommendationRequest is the body of the item-based and user-based
// recommendation endpoints.
type RecommendationRequest struct {
	// Artists is the user's current selection by exact artist name.
	Artists []string `json:"artists" validate:"max=1000,dive,required,max=512"`
}

// RecommendationResponse is the payload of all recommendation endpoints.
type RecommendationResponse struct {
	Algorithm string   `json:"algorithm"`
	Artists   []string `json:"artists"`
}

// HealthResponse is the payload of the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	BuildID string `json:"build_id,omitempty"`
}
