// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/metrics"
	"github.com/tomtom215/viridis/internal/models"
)

// ErrRunNotFound is returned by GetRun for unknown run IDs.
var ErrRunNotFound = errors.New("analysis run not found")

// RunFilter narrows ListRuns and CountRuns results. Zero values mean "no
// constraint".
type RunFilter struct {
	Kinds     []string
	DataTypes []string
	Statuses  []string
	Since     *time.Time
	Until     *time.Time
	OrderBy   string
	OrderDesc bool
	Limit     int
	Offset    int
}

// buildSliceCondition creates a SQL IN condition for a slice of string values.
func buildSliceCondition[T ~string](column string, values []T, args *[]interface{}) string {
	if len(values) == 0 {
		return ""
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		*args = append(*args, string(v))
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ","))
}

// SaveRun persists a run and its per-month breakdown atomically.
func (s *Store) SaveRun(ctx context.Context, detail *models.AnalysisRunDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if detail == nil {
		return fmt.Errorf("run detail cannot be nil")
	}

	start := time.Now()
	err := s.saveRunTx(ctx, detail)
	metrics.RecordDBQuery("insert", "analysis_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

func (s *Store) saveRunTx(ctx context.Context, detail *models.AnalysisRunDetail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	run := &detail.Run
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			id, kind, data_type, region, time_period, status,
			months_total, fallback_months, failed_months,
			duration_ms, cached, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Kind, run.DataType, run.Region, run.TimePeriod, run.Status,
		run.MonthsTotal, run.FallbackMonths, run.FailedMonths,
		run.DurationMS, run.Cached, nullableString(run.Error), createdAt,
	)
	if err != nil {
		return err
	}

	for i := range detail.Months {
		m := &detail.Months[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO analysis_months (
				run_id, month, tiles_processed, grid_coverage,
				data_available, duration_ms
			) VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.ID, m.Month, m.TilesProcessed, nullableString(m.GridCoverage),
			m.DataAvailable, m.DurationMS,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// nullableString maps empty strings to SQL NULL.
func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// GetRun retrieves one run with its per-month breakdown. Returns
// ErrRunNotFound (wrapped) for unknown IDs.
func (s *Store) GetRun(ctx context.Context, id string) (*models.AnalysisRunDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	detail, err := s.getRun(ctx, id)
	metrics.RecordDBQuery("select", "analysis_runs", time.Since(start), err)
	return detail, err
}

func (s *Store) getRun(ctx context.Context, id string) (*models.AnalysisRunDetail, error) {
	row := s.db.QueryRowContext(ctx, runSelectColumns+" FROM analysis_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, month, tiles_processed, grid_coverage, data_available, duration_ms
		FROM analysis_months
		WHERE run_id = ?
		ORDER BY month ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run months: %w", err)
	}
	defer rows.Close()

	detail := &models.AnalysisRunDetail{Run: *run}
	for rows.Next() {
		var m models.AnalysisMonth
		var coverage sql.NullString
		if err := rows.Scan(&m.RunID, &m.Month, &m.TilesProcessed, &coverage, &m.DataAvailable, &m.DurationMS); err != nil {
			logging.Warn().Err(err).Str("run_id", id).Msg("Failed to scan run month row")
			continue
		}
		m.GridCoverage = coverage.String
		detail.Months = append(detail.Months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run months: %w", err)
	}

	return detail, nil
}

// ListRuns retrieves runs matching the filter, most recent first unless the
// filter orders otherwise.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]models.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	query, args := buildRunQuery(filter, false)
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "analysis_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to scan analysis run row")
			continue
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}

	return runs, nil
}

// CountRuns returns the number of runs matching the filter.
func (s *Store) CountRuns(ctx context.Context, filter RunFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args := buildRunQuery(filter, true)
	var count int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analysis runs: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes runs (and their months) created before the cutoff.
// Used by the retention pruner.
func (s *Store) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	count, err := s.deleteOlderThan(ctx, olderThan)
	metrics.RecordDBQuery("delete", "analysis_runs", time.Since(start), err)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Info().Int64("deleted", count).Time("older_than", olderThan).Msg("Pruned old analysis runs")
	}
	return count, nil
}

func (s *Store) deleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM analysis_months
		WHERE run_id IN (SELECT id FROM analysis_runs WHERE created_at < ?)
	`, olderThan); err != nil {
		return 0, fmt.Errorf("failed to delete old run months: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old analysis runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	return count, nil
}

// DeleteAll wipes the history. Admin-only.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM analysis_months`); err != nil {
		return 0, fmt.Errorf("failed to wipe run months: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM analysis_runs`)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe analysis runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get wiped count: %w", err)
	}
	logging.Warn().Int64("deleted", count).Msg("Analysis history wiped")
	return count, nil
}

// StoreStats summarizes the history store for the stats endpoint.
type StoreStats struct {
	TotalRuns    int64            `json:"total_runs"`
	RunsByKind   map[string]int64 `json:"runs_by_kind"`
	RunsByStatus map[string]int64 `json:"runs_by_status"`
	OldestRun    *time.Time       `json:"oldest_run,omitempty"`
	NewestRun    *time.Time       `json:"newest_run,omitempty"`
}

// Stats returns aggregate counts over the stored runs.
func (s *Store) Stats(ctx context.Context) (*StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &StoreStats{
		RunsByKind:   make(map[string]int64),
		RunsByStatus: make(map[string]int64),
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analysis_runs").Scan(&stats.TotalRuns); err != nil {
		return nil, fmt.Errorf("failed to get total run count: %w", err)
	}

	kindCounts, err := s.countByColumn(ctx, "kind")
	if err != nil {
		return nil, err
	}
	stats.RunsByKind = kindCounts

	statusCounts, err := s.countByColumn(ctx, "status")
	if err != nil {
		return nil, err
	}
	stats.RunsByStatus = statusCounts

	var oldest, newest sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT MIN(created_at), MAX(created_at) FROM analysis_runs").Scan(&oldest, &newest); err == nil {
		if oldest.Valid {
			stats.OldestRun = &oldest.Time
		}
		if newest.Valid {
			stats.NewestRun = &newest.Time
		}
	}

	return stats, nil
}

// countByColumn executes a GROUP BY query and returns counts per value.
func (s *Store) countByColumn(ctx context.Context, column string) (map[string]int64, error) {
	result := make(map[string]int64)
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM analysis_runs GROUP BY %s", column, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s counts: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err == nil {
			result[key] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s counts: %w", column, err)
	}
	return result, nil
}

// runSelectColumns is the shared SELECT list for run rows.
const runSelectColumns = `
	SELECT
		id, kind, data_type, region, time_period, status,
		months_total, fallback_months, failed_months,
		duration_ms, cached, error, created_at`

// buildRunQuery constructs the listing or counting SQL for a filter.
func buildRunQuery(filter RunFilter, countOnly bool) (string, []interface{}) {
	var args []interface{}
	var conditions []string

	if cond := buildSliceCondition("kind", filter.Kinds, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if cond := buildSliceCondition("data_type", filter.DataTypes, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if cond := buildSliceCondition("status", filter.Statuses, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if filter.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *filter.Until)
	}

	query := runSelectColumns + " FROM analysis_runs"
	if countOnly {
		query = "SELECT COUNT(*) FROM analysis_runs"
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if !countOnly {
		query = appendOrderAndLimit(query, filter)
	}
	return query, args
}

// appendOrderAndLimit adds ORDER BY, LIMIT, and OFFSET clauses.
func appendOrderAndLimit(query string, filter RunFilter) string {
	// ORDER BY with validation
	orderBy := "created_at"
	validFields := map[string]bool{
		"created_at": true, "kind": true, "data_type": true,
		"status": true, "duration_ms": true,
	}
	if filter.OrderBy != "" && validFields[filter.OrderBy] {
		orderBy = filter.OrderBy
	}

	if filter.OrderDesc {
		query += fmt.Sprintf(" ORDER BY %s DESC", orderBy)
	} else {
		query += fmt.Sprintf(" ORDER BY %s ASC", orderBy)
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}
	return query
}

// rowScanner abstracts sql.Row and sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRun scans one run row.
func scanRun(row rowScanner) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	var errMsg sql.NullString
	if err := row.Scan(
		&run.ID, &run.Kind, &run.DataType, &run.Region, &run.TimePeriod, &run.Status,
		&run.MonthsTotal, &run.FallbackMonths, &run.FailedMonths,
		&run.DurationMS, &run.Cached, &errMsg, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	run.Error = errMsg.String
	return &run, nil
}
