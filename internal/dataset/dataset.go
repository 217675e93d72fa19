// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package dataset ingests and cleans raw listening interaction records.
//
// The raw snapshot is a CSV of (user_id, artist_name, track_name,
// playlist_name) rows. Ingestion is a best-effort ETL step: malformed rows
// are skipped and counted, never fatal. The Preparer turns the raw rows
// into the filtered dataset the matrix builder consumes.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Interaction is one raw listening record: a track by an artist appearing
// in a user's playlist. Immutable once read.
type Interaction struct {
	UserID   string
	Artist   string
	Track    string
	Playlist string
}

// complete reports whether all fields are present.
func (i Interaction) complete() bool {
	return i.UserID != "" && i.Artist != "" && i.Track != "" && i.Playlist != ""
}

// ReadCSV reads raw interactions from a CSV snapshot. The first row is
// assumed to be a header and skipped. Rows with a wrong field count or a
// CSV syntax error are skipped.
func ReadCSV(path string, logger zerolog.Logger) ([]Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, skipped, err := readAll(csv.NewReader(f))
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Int("skipped", skipped).
		Msg("raw dataset read")

	return rows, nil
}

// readAll consumes the reader, skipping the header and malformed rows.
func readAll(r *csv.Reader) ([]Interaction, int, error) {
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		rows    []Interaction
		skipped int
		first   = true
	)

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("read dataset: %w", err)
		}

		if first {
			first = false
			continue
		}

		if len(record) != 4 {
			skipped++
			continue
		}

		rows = append(rows, Interaction{
			UserID:   record[0],
			Artist:   record[1],
			Track:    record[2],
			Playlist: record[3],
		})
	}

	return rows, skipped, nil
}
