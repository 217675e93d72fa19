// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlens/encore/internal/logging"
)

func TestReadAllSkipsHeaderAndMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		`user_id,artist_name,track_name,playlist_name`,
		`u1,Daft Punk,One More Time,party`,
		`u1,too,few`,
		`u2,The Beatles,Let It Be,oldies,extra,fields`,
		`u2,Queen,Bohemian Rhapsody,rock`,
	}, "\n")

	rows, skipped, err := readAll(csv.NewReader(strings.NewReader(input)))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, Interaction{"u1", "Daft Punk", "One More Time", "party"}, rows[0])
	assert.Equal(t, Interaction{"u2", "Queen", "Bohemian Rhapsody", "rock"}, rows[1])
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	content := "user_id,artist_name,track_name,playlist_name\nu1,ABBA,Waterloo,seventies\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rows, err := ReadCSV(path, logging.NewTestLogger(io.Discard))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ABBA", rows[0].Artist)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"), logging.NewTestLogger(io.Discard))
	assert.Error(t, err)
}
