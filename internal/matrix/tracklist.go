// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package matrix

import (
	"sort"

	"github.com/soundlens/encore/internal/dataset"
)

// Track is one distinct (artist, track) pair of a build.
type Track struct {
	Artist string
	Track  string
}

// DisplayName returns the human-readable selection label.
func (t Track) DisplayName() string {
	return t.Artist + " - " + t.Track
}

// Tracklist is the ordered list of distinct tracks of a build, sorted by
// artist name. It backs selection UIs; its ordering is independent of the
// matrix's artist index.
type Tracklist struct {
	tracks []Track

	// byDisplay maps display names back to tracks for shell lookups.
	byDisplay map[string]Track
}

// NewTracklist derives the tracklist from the filtered dataset: distinct
// (artist, track) pairs sorted by artist name, ties keeping first-occurrence
// order.
func NewTracklist(rows []dataset.Interaction) *Tracklist {
	seen := make(map[Track]struct{}, len(rows))
	tracks := make([]Track, 0, len(rows))

	for _, row := range rows {
		tr := Track{Artist: row.Artist, Track: row.Track}
		if _, dup := seen[tr]; dup {
			continue
		}
		seen[tr] = struct{}{}
		tracks = append(tracks, tr)
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Artist < tracks[j].Artist
	})

	return NewTracklistFromTracks(tracks)
}

// NewTracklistFromTracks adopts an already-ordered track slice verbatim.
// Used when restoring a persisted build.
func NewTracklistFromTracks(tracks []Track) *Tracklist {
	byDisplay := make(map[string]Track, len(tracks))
	for _, tr := range tracks {
		byDisplay[tr.DisplayName()] = tr
	}

	return &Tracklist{tracks: tracks, byDisplay: byDisplay}
}

// Len returns the number of tracks.
func (tl *Tracklist) Len() int {
	return len(tl.tracks)
}

// Tracks returns a copy of the tracks in order.
func (tl *Tracklist) Tracks() []Track {
	out := make([]Track, len(tl.tracks))
	copy(out, tl.tracks)
	return out
}

// DisplayNames returns the ordered display-name list for selection UIs.
func (tl *Tracklist) DisplayNames() []string {
	out := make([]string, len(tl.tracks))
	for i, tr := range tl.tracks {
		out[i] = tr.DisplayName()
	}
	return out
}

// ArtistFor maps a display name back to its artist name.
func (tl *Tracklist) ArtistFor(displayName string) (string, bool) {
	tr, ok := tl.byDisplay[displayName]
	return tr.Artist, ok
}
