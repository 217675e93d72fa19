// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package matrix turns the filtered dataset into the immutable artifacts
// one build consists of: the user×artist rating matrix, the bidirectional
// user and artist index tables, and the tracklist. A build is assembled
// once and never mutated; all recommendation reads share it without
// locking.
package matrix

import (
	"time"

	"github.com/google/uuid"

	"github.com/soundlens/encore/internal/dataset"
)

// Build is one complete, mutually consistent set of derived artifacts.
// Ratings' rows follow Users, its columns follow Artists; every component
// consuming the matrix must use these index tables and no other ordering.
type Build struct {
	ID        string
	CreatedAt time.Time

	Dataset   []dataset.Interaction
	Tracklist *Tracklist
	Users     *Index
	Artists   *Index
	Ratings   *CSR
}

// playedArtist is a (user, artist) cell under construction.
type playedArtist struct {
	user   string
	artist string
}

// NewBuild assembles a build from the filtered dataset. The rating of a
// (user, artist) cell is the number of distinct playlists in which the
// user played the artist.
func NewBuild(rows []dataset.Interaction) *Build {
	tracklist := NewTracklist(rows)

	// Collapse to distinct (user, artist, playlist) triples.
	playlists := make(map[playedArtist]map[string]struct{})
	users := make([]string, 0, len(rows))
	artists := make([]string, 0, len(rows))

	for _, row := range rows {
		cell := playedArtist{user: row.UserID, artist: row.Artist}
		set := playlists[cell]
		if set == nil {
			set = make(map[string]struct{})
			playlists[cell] = set
			users = append(users, row.UserID)
			artists = append(artists, row.Artist)
		}
		set[row.Playlist] = struct{}{}
	}

	userIndex := NewIndex(users)
	artistIndex := NewIndex(artists)

	entries := make([]Entry, 0, len(playlists))
	for cell, set := range playlists {
		u, _ := userIndex.Lookup(cell.user)
		a, _ := artistIndex.Lookup(cell.artist)
		entries = append(entries, Entry{Row: u, Col: a, Val: float64(len(set))})
	}

	return &Build{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Dataset:   rows,
		Tracklist: tracklist,
		Users:     userIndex,
		Artists:   artistIndex,
		Ratings:   NewCSR(userIndex.Len(), artistIndex.Len(), entries),
	}
}
