// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package store is Funnel's analytics store client: an embedded DuckDB
// database standing in for spec.md's abstract columnar store, written
// to by the ingestion pipeline and read by the query API.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/nostr-funnel/funnel/internal/logging"
)

// Config controls how the embedded analytics store is opened. Path may
// be a filesystem path or ":memory:" for an ephemeral, test-only store.
//
// ReadOnly opens the file in DuckDB's read_only access mode instead of
// read_write. spec.md 2 runs ingestion and the query API as two
// concurrent processes against the same store; DuckDB allows exactly
// one process to hold a file read_write at a time, but any number of
// other processes may open the same file read_only concurrently with
// that writer. cmd/api sets ReadOnly so it can run alongside cmd/ingest
// instead of losing the lock race for read_write access.
type Config struct {
	Path     string
	Threads  int
	ReadOnly bool
}

// Store wraps the DuckDB connection pool and the read/write query
// surface spec.md 4.2 describes.
type Store struct {
	db       *sql.DB
	readOnly bool
}

// New opens the analytics store, applying the schema idempotently. A
// read_only store expects the schema to already exist (the ingestion
// process, opened read_write, is the one that creates it) and skips
// both the DDL and the checkpoint-on-close, since DuckDB rejects
// writes of any kind against a read_only connection.
func New(cfg Config) (*Store, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	mode := "read_write"
	if cfg.ReadOnly {
		mode = "read_only"
	}
	connStr := fmt.Sprintf("%s?access_mode=%s&threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, mode, threads)

	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(threads)

	s := &Store{db: db, readOnly: cfg.ReadOnly}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if !cfg.ReadOnly {
		if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: apply schema: %w", err)
		}
	}

	logging.Info().Str("path", cfg.Path).Bool("read_only", cfg.ReadOnly).Msg("analytics store ready")
	return s, nil
}

// Ping reports whether the underlying connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close flushes any buffered writes and closes the connection.
func (s *Store) Close() error {
	if s.readOnly {
		return s.db.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("checkpoint before close failed")
	}
	return s.db.Close()
}
