// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlens/encore/internal/dataset"
	"github.com/soundlens/encore/internal/logging"
	"github.com/soundlens/encore/internal/matrix"
)

func interaction(user, artist, track, playlist string) dataset.Interaction {
	return dataset.Interaction{UserID: user, Artist: artist, Track: track, Playlist: playlist}
}

// popularityBuild has column sums A=2, B=4, C=2, D=2 so B leads and the
// remaining tie resolves in index order.
func popularityBuild() *matrix.Build {
	return matrix.NewBuild([]dataset.Interaction{
		interaction("u1", "A", "t1", "p1"),
		interaction("u1", "A", "t1", "p2"),
		interaction("u1", "B", "t2", "p1"),
		interaction("u2", "B", "t2", "p1"),
		interaction("u2", "B", "t2", "p2"),
		interaction("u2", "B", "t2", "p3"),
		interaction("u2", "C", "t3", "p1"),
		interaction("u3", "C", "t3", "p1"),
		interaction("u3", "D", "t4", "p1"),
		interaction("u3", "D", "t4", "p2"),
	})
}

// twinBuild gives X and Y identical rating columns (cosine 1) and Z an
// orthogonal one (cosine 0).
func twinBuild() *matrix.Build {
	return matrix.NewBuild([]dataset.Interaction{
		interaction("u1", "X", "t1", "p1"),
		interaction("u1", "Y", "t2", "p1"),
		interaction("u2", "Z", "t3", "p1"),
	})
}

func newTestEngine(t *testing.T, b *matrix.Build, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(b, cfg, logging.NewTestLogger(nil))
	require.NoError(t, err)
	return e
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	_, err := NewEngine(twinBuild(), Config{TopK: 0, Neighbors: 10}, logging.NewTestLogger(nil))
	assert.Error(t, err)
}

func TestPopularityOrdersByTotalRating(t *testing.T) {
	e := newTestEngine(t, popularityBuild(), DefaultConfig())

	got := e.Popularity()

	assert.Equal(t, []string{"B", "A", "C", "D"}, got)
}

func TestPopularityTruncatesToTopK(t *testing.T) {
	e := newTestEngine(t, popularityBuild(), Config{TopK: 2, Neighbors: 10})

	assert.Equal(t, []string{"B", "A"}, e.Popularity())
}

func TestItemBasedRanksIdenticalColumnFirst(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	got, err := e.ItemBased([]string{"X"})

	require.NoError(t, err)
	// Y's rating column equals X's, Z's is orthogonal.
	assert.Equal(t, []string{"Y", "Z"}, got)
}

func TestItemBasedExcludesSelection(t *testing.T) {
	e := newTestEngine(t, popularityBuild(), DefaultConfig())

	got, err := e.ItemBased([]string{"A", "B"})

	require.NoError(t, err)
	assert.NotContains(t, got, "A")
	assert.NotContains(t, got, "B")
}

func TestItemBasedDuplicateSelection(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	// Duplicates in the selection are legal; they weight the sum, not
	// the outcome here.
	got, err := e.ItemBased([]string{"X", "X"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "Z"}, got)
}

func TestItemBasedEmptySelection(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	got, err := e.ItemBased(nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestItemBasedUnknownArtist(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	_, err := e.ItemBased([]string{"X", "Nobody"})

	require.ErrorIs(t, err, ErrUnknownArtist)
	assert.Contains(t, err.Error(), "Nobody")
}

func TestUserBasedPrefersSimilarUsersArtists(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	// u1 (who plays X and Y) is the nearest user to a query selecting X,
	// so Y outranks Z.
	got, err := e.UserBased([]string{"X"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "Z"}, got)
}

func TestUserBasedEmptySelection(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	got, err := e.UserBased(nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestUserBasedUnknownArtist(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	_, err := e.UserBased([]string{"Nobody"})

	assert.ErrorIs(t, err, ErrUnknownArtist)
}

func TestUserBasedNeighborhoodSmallerThanK(t *testing.T) {
	// Two users only; Neighbors of 10 must clamp, not panic.
	e := newTestEngine(t, twinBuild(), Config{TopK: 10, Neighbors: 10})

	got, err := e.UserBased([]string{"Z"})

	require.NoError(t, err)
	assert.NotContains(t, got, "Z")
	assert.Len(t, got, 2)
}

func TestTracklistExposed(t *testing.T) {
	e := newTestEngine(t, twinBuild(), DefaultConfig())

	assert.Equal(t, 3, e.Tracklist().Len())
	assert.Equal(t, e.Build().Tracklist, e.Tracklist())
}
