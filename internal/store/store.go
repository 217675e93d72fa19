// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package store persists builds in DuckDB. A build is written in a single
// transaction so readers either see the complete artifact set of a build or
// none of it; on load the newest build is restored and cross-checked before
// any recommender touches it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/soundlens/encore/internal/config"
	"github.com/soundlens/encore/internal/dataset"
	"github.com/soundlens/encore/internal/matrix"
)

var (
	// ErrNoBuild is returned by LoadBuild when the store holds no build.
	ErrNoBuild = errors.New("no build in store")

	// ErrInconsistentBuild is returned when a persisted build fails its
	// consistency checks. The build must not be served.
	ErrInconsistentBuild = errors.New("inconsistent build")
)

// Store wraps the DuckDB connection holding persisted builds.
type Store struct {
	conn   *sql.DB
	cfg    config.StoreConfig
	logger zerolog.Logger
}

// New opens (or creates) the build store and initializes its schema.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.StoreConfig, logger zerolog.Logger) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for the database file.
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dbDir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Store{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "store").Logger(),
	}

	if err := s.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return s, nil
}

// Conn exposes the underlying connection for health checks.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Ping checks that the store connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("store connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Close flushes the WAL and closes the connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to checkpoint store before close")
	}

	return s.conn.Close()
}

func (s *Store) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			build_id    VARCHAR PRIMARY KEY,
			created_at  TIMESTAMP NOT NULL,
			num_users   INTEGER NOT NULL,
			num_artists INTEGER NOT NULL,
			num_ratings INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			build_id VARCHAR NOT NULL,
			seq      INTEGER NOT NULL,
			user_id  VARCHAR NOT NULL,
			artist   VARCHAR NOT NULL,
			track    VARCHAR NOT NULL,
			playlist VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tracklist (
			build_id VARCHAR NOT NULL,
			seq      INTEGER NOT NULL,
			artist   VARCHAR NOT NULL,
			track    VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_index (
			build_id VARCHAR NOT NULL,
			pos      INTEGER NOT NULL,
			name     VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artist_index (
			build_id VARCHAR NOT NULL,
			pos      INTEGER NOT NULL,
			name     VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			build_id VARCHAR NOT NULL,
			user_pos INTEGER NOT NULL,
			artist_pos INTEGER NOT NULL,
			rating   DOUBLE NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// SaveBuild persists a complete build in a single transaction. Earlier
// builds are kept; LoadBuild always restores the newest one.
func (s *Store) SaveBuild(ctx context.Context, b *matrix.Build) error {
	start := time.Now()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (build_id, created_at, num_users, num_artists, num_ratings) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.CreatedAt, b.Users.Len(), b.Artists.Len(), b.Ratings.NNZ(),
	); err != nil {
		return fmt.Errorf("failed to insert build row: %w", err)
	}

	if err := s.saveInteractions(ctx, tx, b); err != nil {
		return err
	}
	if err := s.saveTracklist(ctx, tx, b); err != nil {
		return err
	}
	if err := s.saveIndex(ctx, tx, "user_index", b.ID, b.Users.Names()); err != nil {
		return err
	}
	if err := s.saveIndex(ctx, tx, "artist_index", b.ID, b.Artists.Names()); err != nil {
		return err
	}
	if err := s.saveRatings(ctx, tx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build: %w", err)
	}

	s.logger.Info().
		Str("build_id", b.ID).
		Int("users", b.Users.Len()).
		Int("artists", b.Artists.Len()).
		Int("nnz", b.Ratings.NNZ()).
		Dur("elapsed", time.Since(start)).
		Msg("build persisted")

	return nil
}

func (s *Store) saveInteractions(ctx context.Context, tx *sql.Tx, b *matrix.Build) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO interactions (build_id, seq, user_id, artist, track, playlist) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare interactions insert: %w", err)
	}
	defer closeStmt(stmt)

	for i, row := range b.Dataset {
		if _, err := stmt.ExecContext(ctx, b.ID, i, row.UserID, row.Artist, row.Track, row.Playlist); err != nil {
			return fmt.Errorf("failed to insert interaction %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) saveTracklist(ctx context.Context, tx *sql.Tx, b *matrix.Build) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tracklist (build_id, seq, artist, track) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare tracklist insert: %w", err)
	}
	defer closeStmt(stmt)

	for i, tr := range b.Tracklist.Tracks() {
		if _, err := stmt.ExecContext(ctx, b.ID, i, tr.Artist, tr.Track); err != nil {
			return fmt.Errorf("failed to insert tracklist row %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) saveIndex(ctx context.Context, tx *sql.Tx, table, buildID string, names []string) error {
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (build_id, pos, name) VALUES (?, ?, ?)`, table)) //nolint:gosec // table name is a fixed literal
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer closeStmt(stmt)

	for pos, name := range names {
		if _, err := stmt.ExecContext(ctx, buildID, pos, name); err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", table, pos, err)
		}
	}
	return nil
}

func (s *Store) saveRatings(ctx context.Context, tx *sql.Tx, b *matrix.Build) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ratings (build_id, user_pos, artist_pos, rating) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare ratings insert: %w", err)
	}
	defer closeStmt(stmt)

	for _, e := range b.Ratings.Entries() {
		if _, err := stmt.ExecContext(ctx, b.ID, e.Row, e.Col, e.Val); err != nil {
			return fmt.Errorf("failed to insert rating (%d,%d): %w", e.Row, e.Col, err)
		}
	}
	return nil
}

// LoadBuild restores the newest persisted build. It returns ErrNoBuild when
// the store is empty and ErrInconsistentBuild when the restored artifacts
// disagree with the recorded build row.
func (s *Store) LoadBuild(ctx context.Context) (*matrix.Build, error) {
	var (
		buildID    string
		createdAt  time.Time
		numUsers   int
		numArtists int
		numRatings int
	)

	err := s.conn.QueryRowContext(ctx,
		`SELECT build_id, created_at, num_users, num_artists, num_ratings
		 FROM builds ORDER BY created_at DESC, build_id DESC LIMIT 1`,
	).Scan(&buildID, &createdAt, &numUsers, &numArtists, &numRatings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBuild
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query newest build: %w", err)
	}

	rows, err := s.loadInteractions(ctx, buildID)
	if err != nil {
		return nil, err
	}
	tracks, err := s.loadTracklist(ctx, buildID)
	if err != nil {
		return nil, err
	}
	userNames, err := s.loadIndex(ctx, "user_index", buildID)
	if err != nil {
		return nil, err
	}
	artistNames, err := s.loadIndex(ctx, "artist_index", buildID)
	if err != nil {
		return nil, err
	}
	entries, err := s.loadRatings(ctx, buildID)
	if err != nil {
		return nil, err
	}

	if len(userNames) != numUsers {
		return nil, fmt.Errorf("%w %s: user index has %d names, build row records %d",
			ErrInconsistentBuild, buildID, len(userNames), numUsers)
	}
	if len(artistNames) != numArtists {
		return nil, fmt.Errorf("%w %s: artist index has %d names, build row records %d",
			ErrInconsistentBuild, buildID, len(artistNames), numArtists)
	}
	if len(entries) != numRatings {
		return nil, fmt.Errorf("%w %s: %d ratings stored, build row records %d",
			ErrInconsistentBuild, buildID, len(entries), numRatings)
	}
	for _, e := range entries {
		if e.Row < 0 || e.Row >= numUsers || e.Col < 0 || e.Col >= numArtists {
			return nil, fmt.Errorf("%w %s: rating cell (%d,%d) outside %dx%d matrix",
				ErrInconsistentBuild, buildID, e.Row, e.Col, numUsers, numArtists)
		}
	}

	b := &matrix.Build{
		ID:        buildID,
		CreatedAt: createdAt,
		Dataset:   rows,
		Tracklist: matrix.NewTracklistFromTracks(tracks),
		Users:     matrix.NewIndexFromNames(userNames),
		Artists:   matrix.NewIndexFromNames(artistNames),
		Ratings:   matrix.NewCSR(numUsers, numArtists, entries),
	}

	s.logger.Info().
		Str("build_id", buildID).
		Time("created_at", createdAt).
		Int("users", numUsers).
		Int("artists", numArtists).
		Int("nnz", numRatings).
		Msg("build restored")

	return b, nil
}

func (s *Store) loadInteractions(ctx context.Context, buildID string) ([]dataset.Interaction, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT user_id, artist, track, playlist FROM interactions WHERE build_id = ? ORDER BY seq`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer closeRows(rows)

	var out []dataset.Interaction
	for rows.Next() {
		var r dataset.Interaction
		if err := rows.Scan(&r.UserID, &r.Artist, &r.Track, &r.Playlist); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadTracklist(ctx context.Context, buildID string) ([]matrix.Track, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT artist, track FROM tracklist WHERE build_id = ? ORDER BY seq`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracklist: %w", err)
	}
	defer closeRows(rows)

	var out []matrix.Track
	for rows.Next() {
		var tr matrix.Track
		if err := rows.Scan(&tr.Artist, &tr.Track); err != nil {
			return nil, fmt.Errorf("failed to scan tracklist row: %w", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (s *Store) loadIndex(ctx context.Context, table, buildID string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT name FROM %s WHERE build_id = ? ORDER BY pos`, table), buildID) //nolint:gosec // table name is a fixed literal
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer closeRows(rows)

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *Store) loadRatings(ctx context.Context, buildID string) ([]matrix.Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT user_pos, artist_pos, rating FROM ratings WHERE build_id = ? ORDER BY user_pos, artist_pos`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeRows(rows)

	var out []matrix.Entry
	for rows.Next() {
		var e matrix.Entry
		if err := rows.Scan(&e.Row, &e.Col, &e.Val); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func closeQuietly(conn *sql.DB) {
	_ = conn.Close()
}

func closeStmt(stmt *sql.Stmt) {
	_ = stmt.Close()
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}
