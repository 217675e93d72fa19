// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package recommend implements the three artist recommenders operating on
// one build: global popularity, item-based scoring over precomputed artist
// similarity, and user-based weighted rating prediction over the k nearest
// users.
//
// The engine is constructed once per build. All of its state is immutable
// after construction, so any number of concurrent requests may share one
// engine without locking.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/soundlens/encore/internal/matrix"
	"github.com/soundlens/encore/internal/similarity"
)

// ErrUnknownArtist is returned when a selected artist name is not part of
// the build's artist index. The whole request is rejected; the caller
// decides whether to filter the selection and retry.
var ErrUnknownArtist = errors.New("unknown artist")

// Engine serves artist recommendations for one build.
type Engine struct {
	cfg    Config
	logger zerolog.Logger

	build     *matrix.Build
	artistSim [][]float64
	rowSums   []float64

	// popular holds all artist indices ordered by descending total rating,
	// computed once so repeated popularity calls are stable and cheap.
	popular []int
}

// NewEngine constructs a ready-to-query engine from a build. The artist
// similarity matrix is computed here, once; requests only read it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(b *matrix.Build, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		build:     b,
		artistSim: similarity.ArtistCosine(b.Ratings),
		rowSums:   b.Ratings.RowSums(),
		popular:   rankDescending(b.Ratings.ColumnSums()),
	}

	e.logger.Info().
		Str("build_id", b.ID).
		Int("users", b.Users.Len()).
		Int("artists", b.Artists.Len()).
		Int("nnz", b.Ratings.NNZ()).
		Msg("engine ready")

	return e, nil
}

// Build returns the build this engine serves.
func (e *Engine) Build() *matrix.Build {
	return e.build
}

// Tracklist returns the build's tracklist, for selection UIs.
func (e *Engine) Tracklist() *matrix.Tracklist {
	return e.build.Tracklist
}

// Popularity returns the most popular artists by total rating, for
// cold-start users with no history. Nothing is excluded.
func (e *Engine) Popularity() []string {
	n := e.cfg.TopK
	if n > len(e.popular) {
		n = len(e.popular)
	}

	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = e.build.Artists.Name(e.popular[i])
	}
	return names
}

// ItemBased recommends artists similar to the selection: the similarity
// rows of the selected artists are summed elementwise and the highest
// scoring artists outside the selection are returned. An empty selection
// yields an empty list.
func (e *Engine) ItemBased(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return []string{}, nil
	}

	indices, err := e.resolve(selected)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, e.build.Artists.Len())
	for _, idx := range indices {
		for a, s := range e.artistSim[idx] {
			scores[a] += s
		}
	}

	return e.topNames(scores, indices), nil
}

// UserBased recommends artists liked by the users most similar to a
// synthetic user built from the selection. Prediction for artist a:
//
//	pred(a) = avg + Σ_n (r(n,a) − mean(a)) · sim(n) / rowSum(n)
//
// over the k nearest users n, where avg is the synthetic vector's mean,
// mean(a) is artist a's mean rating across the k neighbors, and rowSum(n)
// is neighbor n's own total rating sum. Normalizing by the neighbor's
// rating mass (rather than the total similarity weight) is deliberate: it
// reproduces the reference scoring this engine replaces. An empty
// selection yields an empty list.
func (e *Engine) UserBased(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return []string{}, nil
	}

	indices, err := e.resolve(selected)
	if err != nil {
		return nil, err
	}

	numArtists := e.build.Artists.Len()
	query := make([]float64, numArtists)
	for _, idx := range indices {
		query[idx]++
	}

	sims := similarity.UserCosine(e.build.Ratings, query)

	k := e.cfg.Neighbors
	if k > len(sims) {
		k = len(sims)
	}
	neighbors := rankDescending(sims)[:k]

	avg := float64(len(indices)) / float64(numArtists)

	// Per-artist mean rating across the neighborhood.
	mean := make([]float64, numArtists)
	for _, n := range neighbors {
		e.build.Ratings.Row(n, func(a int, val float64) {
			mean[a] += val
		})
	}
	for a := range mean {
		mean[a] /= float64(k)
	}

	// pred(a) = avg + Σ_n w_n·r(n,a) − mean(a)·Σ_n w_n with
	// w_n = sim(n)/rowSum(n). Zero-rating neighbors contribute nothing.
	scores := make([]float64, numArtists)
	var weightTotal float64
	for _, n := range neighbors {
		if e.rowSums[n] == 0 {
			continue
		}
		w := sims[n] / e.rowSums[n]
		weightTotal += w
		e.build.Ratings.Row(n, func(a int, val float64) {
			scores[a] += w * val
		})
	}
	for a := range scores {
		scores[a] += avg - mean[a]*weightTotal
	}

	return e.topNames(scores, indices), nil
}

// resolve maps artist names to their index positions. Any unknown name
// rejects the whole request.
func (e *Engine) resolve(names []string) ([]int, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx, ok := e.build.Artists.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownArtist, name)
		}
		indices[i] = idx
	}
	return indices, nil
}

// topNames returns the names of the highest scoring artists, skipping the
// already selected indices, up to TopK.
func (e *Engine) topNames(scores []float64, selected []int) []string {
	skip := make(map[int]struct{}, len(selected))
	for _, idx := range selected {
		skip[idx] = struct{}{}
	}

	names := make([]string, 0, e.cfg.TopK)
	for _, idx := range rankDescending(scores) {
		if _, ok := skip[idx]; ok {
			continue
		}
		names = append(names, e.build.Artists.Name(idx))
		if len(names) == e.cfg.TopK {
			break
		}
	}
	return names
}

// rankDescending returns all indices ordered by descending score, ties
// broken by ascending index.
func rankDescending(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}
