// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/logging"
)

// Store is the DuckDB-backed analysis history store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the DuckDB database at cfg.Path and
// ensures the schema exists. Pass ":memory:" as the path for an ephemeral
// store.
func Open(cfg *config.HistoryConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists so first boot does not fail with
	// "No such file or directory".
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create history directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(runtime.NumCPU())
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	s := &Store{db: db}
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()
	if err := s.CreateTables(initCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("History database opened")
	return s, nil
}

// CreateTables creates the history schema if it does not exist.
func (s *Store) CreateTables(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			data_type TEXT NOT NULL,
			region TEXT NOT NULL,
			time_period TEXT NOT NULL,
			status TEXT NOT NULL,
			months_total INTEGER NOT NULL,
			fallback_months INTEGER NOT NULL,
			failed_months INTEGER NOT NULL,
			duration_ms BIGINT NOT NULL,
			cached BOOLEAN NOT NULL,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for the history listing filters
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON analysis_runs(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_kind ON analysis_runs(kind);
		CREATE INDEX IF NOT EXISTS idx_runs_data_type ON analysis_runs(data_type);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON analysis_runs(status);

		CREATE TABLE IF NOT EXISTS analysis_months (
			run_id TEXT NOT NULL,
			month TEXT NOT NULL,
			tiles_processed INTEGER NOT NULL,
			grid_coverage TEXT,
			data_available BOOLEAN NOT NULL,
			duration_ms BIGINT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_months_run_id ON analysis_months(run_id)
	`

	// Split and execute each statement
	statements := strings.Split(query, ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	logging.Info().Msg("Analysis history tables created/verified")
	return nil
}

// Ping verifies the database connection is alive. Used by readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
