package repository

import (
	"context"
	"database/sql"

	"github.com/logisticair/crewops/internal/model"
)

// SyncRunRepo provides data access to the `sync_runs` audit table.
// Rows are inserted by the background sync consumer and read-only
// everywhere else.
type SyncRunRepo struct{ DB *sql.DB }

func NewSyncRunRepo(db *sql.DB) *SyncRunRepo { return &SyncRunRepo{DB: db} }

// List returns sync runs newest-first, optionally filtered by status.
func (r *SyncRunRepo) List(ctx context.Context, status model.SyncRunStatus) ([]model.SyncRun, error) {
	query := "SELECT id, executed_at, data_source, flights_read, flights_updated, flights_created, errors, status, message FROM sync_runs"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY executed_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SyncRun
	for rows.Next() {
		var s model.SyncRun
		if err := rows.Scan(&s.ID, &s.ExecutedAt, &s.DataSource, &s.FlightsRead, &s.FlightsUpdated, &s.FlightsCreated, &s.Errors, &s.Status, &s.Message); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Insert records the outcome of one synchronization execution.
func (r *SyncRunRepo) Insert(ctx context.Context, s model.SyncRun) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sync_runs (executed_at, data_source, flights_read, flights_updated, flights_created, errors, status, message) VALUES (?,?,?,?,?,?,?,?)",
		s.ExecutedAt, s.DataSource, s.FlightsRead, s.FlightsUpdated, s.FlightsCreated, s.Errors, string(s.Status), s.Message)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
