// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package dataset

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/soundlens/encore/internal/config"
)

// Preparer cleans raw interactions into the filtered dataset.
//
// The pipeline runs in a fixed order: drop incomplete and duplicate rows,
// canonicalize near-duplicate track spellings, drop unpopular artists, drop
// inactive users, and optionally drop uniform playlists. Row order is
// preserved throughout.
type Preparer struct {
	cfg    config.DatasetConfig
	logger zerolog.Logger
}

// NewPreparer creates a Preparer with the given thresholds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPreparer(cfg config.DatasetConfig, logger zerolog.Logger) *Preparer {
	return &Preparer{
		cfg:    cfg,
		logger: logger.With().Str("component", "dataset").Logger(),
	}
}

// Prepare runs the full cleaning pipeline.
func (p *Preparer) Prepare(rows []Interaction) []Interaction {
	in := len(rows)

	rows = dropIncomplete(rows)
	rows = CanonicalizeTracks(rows)
	rows = FilterUnpopularArtists(rows, p.cfg.MinArtistCount)
	rows = FilterInactiveUsers(rows, p.cfg.MinUserTracks)
	if p.cfg.FilterUniformPlaylists {
		rows = FilterUniformPlaylists(rows, p.cfg.MinPlaylistArtists)
	}

	p.logger.Info().
		Int("rows_in", in).
		Int("rows_out", len(rows)).
		Msg("dataset prepared")

	return rows
}

// dropIncomplete removes rows with any missing field and exact duplicate
// rows, keeping the first occurrence.
func dropIncomplete(rows []Interaction) []Interaction {
	seen := make(map[Interaction]struct{}, len(rows))
	out := rows[:0:0]

	for _, row := range rows {
		if !row.complete() {
			continue
		}
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		out = append(out, row)
	}

	return out
}

// normalizeName lowercases s and strips every rune outside
// [a-z0-9äöüß] (German umlauts survive the original dataset's spellings).
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'ä' || r == 'ö' || r == 'ü' || r == 'ß':
			b.WriteRune(r)
		}
	}

	return b.String()
}

// trackKey identifies a group of near-duplicate spellings.
type trackKey struct {
	artist string
	track  string
}

// spelling is one exact (artist, track) spelling with its frequency and
// the row index where it first appears.
type spelling struct {
	artist string
	track  string
	count  int
	first  int
}

// CanonicalizeTracks collapses near-duplicate track spellings. Rows whose
// lowercased, alphanumeric-stripped (artist, track) names coincide form a
// group; every row in the group is rewritten to the group's most frequent
// exact spelling. Ties are broken by the spelling that appears earliest in
// input order. Row order and count are preserved.
func CanonicalizeTracks(rows []Interaction) []Interaction {
	// Frequency of each exact spelling within its normalized group.
	counts := make(map[trackKey]map[trackKey]*spelling)
	for i, row := range rows {
		norm := trackKey{normalizeName(row.Artist), normalizeName(row.Track)}
		exact := trackKey{row.Artist, row.Track}

		group := counts[norm]
		if group == nil {
			group = make(map[trackKey]*spelling)
			counts[norm] = group
		}
		if sp, ok := group[exact]; ok {
			sp.count++
		} else {
			group[exact] = &spelling{artist: row.Artist, track: row.Track, count: 1, first: i}
		}
	}

	// Pick the representative spelling per group.
	best := make(map[trackKey]*spelling, len(counts))
	for norm, group := range counts {
		var winner *spelling
		for _, sp := range group {
			if winner == nil ||
				sp.count > winner.count ||
				(sp.count == winner.count && sp.first < winner.first) {
				winner = sp
			}
		}
		best[norm] = winner
	}

	out := make([]Interaction, len(rows))
	for i, row := range rows {
		norm := trackKey{normalizeName(row.Artist), normalizeName(row.Track)}
		rep := best[norm]
		out[i] = Interaction{
			UserID:   row.UserID,
			Artist:   rep.artist,
			Track:    rep.track,
			Playlist: row.Playlist,
		}
	}

	return out
}

// FilterUnpopularArtists keeps rows whose artist appears strictly more
// than minCount times in the dataset.
func FilterUnpopularArtists(rows []Interaction, minCount int) []Interaction {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Artist]++
	}

	out := rows[:0:0]
	for _, row := range rows {
		if counts[row.Artist] > minCount {
			out = append(out, row)
		}
	}

	return out
}

// FilterInactiveUsers keeps rows whose user has strictly more than
// minTracks distinct track names.
func FilterInactiveUsers(rows []Interaction, minTracks int) []Interaction {
	tracks := make(map[string]map[string]struct{})
	for _, row := range rows {
		set := tracks[row.UserID]
		if set == nil {
			set = make(map[string]struct{})
			tracks[row.UserID] = set
		}
		set[row.Track] = struct{}{}
	}

	out := rows[:0:0]
	for _, row := range rows {
		if len(tracks[row.UserID]) > minTracks {
			out = append(out, row)
		}
	}

	return out
}

// FilterUniformPlaylists keeps rows whose playlist covers strictly more
// than minArtists distinct artists. Disabled by default; see
// config.DatasetConfig.FilterUniformPlaylists.
func FilterUniformPlaylists(rows []Interaction, minArtists int) []Interaction {
	artists := make(map[string]map[string]struct{})
	for _, row := range rows {
		set := artists[row.Playlist]
		if set == nil {
			set = make(map[string]struct{})
			artists[row.Playlist] = set
		}
		set[row.Artist] = struct{}{}
	}

	out := rows[:0:0]
	for _, row := range rows {
		if len(artists[row.Playlist]) > minArtists {
			out = append(out, row)
		}
	}

	return out
}
