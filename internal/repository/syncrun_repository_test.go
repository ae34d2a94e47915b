package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logisticair/crewops/internal/model"
)

var syncRunCols = []string{"id", "executed_at", "data_source", "flights_read", "flights_updated", "flights_created", "errors", "status", "message"}

func TestSyncRunRepoListNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newer := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-6 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, executed_at, data_source, flights_read, flights_updated, flights_created, errors, status, message FROM sync_runs ORDER BY executed_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(syncRunCols).
			AddRow(2, newer, "SerpAPI", 120, 118, 2, 0, "OK", "Synchronization completed successfully.").
			AddRow(1, older, "SerpAPI", 0, 0, 0, 1, "ERROR", "Connection to the data source failed."))

	repo := NewSyncRunRepo(db)
	runs, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, model.SyncOK, runs[0].Status)
	assert.Equal(t, model.SyncError, runs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRunRepoListByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, executed_at, data_source, flights_read, flights_updated, flights_created, errors, status, message FROM sync_runs WHERE status = ? ORDER BY executed_at DESC, id DESC")).
		WithArgs("ERROR").
		WillReturnRows(sqlmock.NewRows(syncRunCols))

	repo := NewSyncRunRepo(db)
	runs, err := repo.List(context.Background(), model.SyncError)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRunRepoInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	executed := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	run := model.SyncRun{
		ExecutedAt:     executed,
		DataSource:     "SerpAPI",
		FlightsRead:    50,
		FlightsUpdated: 48,
		FlightsCreated: 2,
		Status:         model.SyncOK,
		Message:        "Synchronization completed successfully.",
	}
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO sync_runs (executed_at, data_source, flights_read, flights_updated, flights_created, errors, status, message) VALUES (?,?,?,?,?,?,?,?)")).
		WithArgs(executed, "SerpAPI", 50, 48, 2, 0, "OK", "Synchronization completed successfully.").
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := NewSyncRunRepo(db)
	id, err := repo.Insert(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
