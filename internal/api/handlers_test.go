// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlens/encore/internal/config"
	"github.com/soundlens/encore/internal/dataset"
	"github.com/soundlens/encore/internal/logging"
	"github.com/soundlens/encore/internal/matrix"
	"github.com/soundlens/encore/internal/recommend"
	"github.com/soundlens/encore/internal/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	b := matrix.NewBuild([]dataset.Interaction{
		{UserID: "u1", Artist: "ABBA", Track: "Waterloo", Playlist: "p1"},
		{UserID: "u1", Artist: "Queen", Track: "Innuendo", Playlist: "p1"},
		{UserID: "u2", Artist: "Queen", Track: "Innuendo", Playlist: "p2"},
		{UserID: "u2", Artist: "Vangelis", Track: "Pulstar", Playlist: "p2"},
	})

	engine, err := recommend.NewEngine(b, recommend.DefaultConfig(), logging.NewTestLogger(nil))
	require.NoError(t, err)

	s, err := store.New(config.StoreConfig{
		Path:      filepath.Join(t.TempDir(), "encore.duckdb"),
		MaxMemory: "512MB",
		Threads:   1,
	}, logging.NewTestLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	router := NewRouter(NewHandler(engine, s), config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		Timeout:         5 * time.Second,
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   0, // disabled in tests
		RateLimitWindow: time.Minute,
	})

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func postJSON(t *testing.T, url string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func dataField(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data field missing: %v", body)
	return data
}

func TestTracklistEndpoint(t *testing.T) {
	srv := testServer(t)

	status, body := getJSON(t, srv.URL+"/api/v1/tracklist")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	data := dataField(t, body)
	assert.Equal(t, float64(3), data["count"])
	assert.Contains(t, data["tracks"], "ABBA - Waterloo")
}

func TestPopularEndpoint(t *testing.T) {
	srv := testServer(t)

	status, body := getJSON(t, srv.URL+"/api/v1/recommendations/popular")

	require.Equal(t, http.StatusOK, status)
	data := dataField(t, body)
	assert.Equal(t, "popularity", data["algorithm"])
	artists, ok := data["artists"].([]interface{})
	require.True(t, ok)
	// Queen has two playlist plays, everyone else one.
	assert.Equal(t, "Queen", artists[0])
	assert.Len(t, artists, 3)
}

func TestItemBasedEndpoint(t *testing.T) {
	srv := testServer(t)

	status, body := postJSON(t, srv.URL+"/api/v1/recommendations/item-based",
		map[string]interface{}{"artists": []string{"ABBA"}})

	require.Equal(t, http.StatusOK, status)
	data := dataField(t, body)
	assert.Equal(t, "item_based", data["algorithm"])
	assert.NotContains(t, data["artists"], "ABBA")
}

func TestUserBasedEndpoint(t *testing.T) {
	srv := testServer(t)

	status, body := postJSON(t, srv.URL+"/api/v1/recommendations/user-based",
		map[string]interface{}{"artists": []string{"Queen"}})

	require.Equal(t, http.StatusOK, status)
	data := dataField(t, body)
	assert.Equal(t, "user_based", data["algorithm"])
	assert.NotContains(t, data["artists"], "Queen")
}

func TestItemBasedUnknownArtist(t *testing.T) {
	srv := testServer(t)

	status, body := postJSON(t, srv.URL+"/api/v1/recommendations/item-based",
		map[string]interface{}{"artists": []string{"Nobody"}})

	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "error", body["status"])
}

func TestItemBasedEmptySelection(t *testing.T) {
	srv := testServer(t)

	status, body := postJSON(t, srv.URL+"/api/v1/recommendations/item-based",
		map[string]interface{}{"artists": []string{}})

	require.Equal(t, http.StatusOK, status)
	data := dataField(t, body)
	artists, ok := data["artists"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, artists)
}

func TestItemBasedRejectsMalformedBody(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		srv.URL+"/api/v1/recommendations/item-based", bytes.NewReader([]byte(`{"artists": "not-a-list"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItemBasedRejectsEmptyArtistName(t *testing.T) {
	srv := testServer(t)

	status, body := postJSON(t, srv.URL+"/api/v1/recommendations/item-based",
		map[string]interface{}{"artists": []string{"ABBA", ""}})

	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", body["status"])
}

func TestHealthEndpoints(t *testing.T) {
	srv := testServer(t)

	status, body := getJSON(t, srv.URL+"/api/v1/health/live")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", dataField(t, body)["status"])

	status, body = getJSON(t, srv.URL+"/api/v1/health/ready")
	require.Equal(t, http.StatusOK, status)
	data := dataField(t, body)
	assert.Equal(t, "ready", data["status"])
	assert.NotEmpty(t, data["build_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/metrics", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
