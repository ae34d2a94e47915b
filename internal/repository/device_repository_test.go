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

var deviceCols = []string{"id", "crew_id", "name", "platform", "model", "crew_name", "status", "registered_at", "last_seen_at"}

func TestDeviceRepoListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	registered := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+deviceColumns+" FROM devices WHERE 1=1 AND status = ? AND LOWER(crew_name) LIKE ? ORDER BY id")).
		WithArgs("ACTIVE", "%suarez%").
		WillReturnRows(sqlmock.NewRows(deviceCols).
			AddRow(1, 1, "iPhone de Suarez", "iOS", "iPhone 13", "Luis Suarez", "ACTIVE", registered, nil))

	repo := NewDeviceRepo(db)
	devices, err := repo.List(context.Background(), DeviceFilter{Status: model.DeviceActive, CrewName: "Suarez"})
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "iPhone de Suarez", devices[0].Name)
	assert.Nil(t, devices[0].LastSeenAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+deviceColumns+" FROM devices WHERE id = ? LIMIT 1")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(deviceCols))

	repo := NewDeviceRepo(db)
	_, err = repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepoUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	registered := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	seen := registered.Add(24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE devices SET status = ? WHERE id = ?")).
		WithArgs("SUSPENDED", uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+deviceColumns+" FROM devices WHERE id = ? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(deviceCols).
			AddRow(1, 1, "iPhone de Suarez", "iOS", "iPhone 13", "Luis Suarez", "SUSPENDED", registered, seen))

	repo := NewDeviceRepo(db)
	d, err := repo.UpdateStatus(context.Background(), 1, model.DeviceSuspended)
	require.NoError(t, err)
	assert.Equal(t, model.DeviceSuspended, d.Status)
	require.NotNil(t, d.LastSeenAt)
	assert.Equal(t, seen, *d.LastSeenAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepoUpdateStatusUnknownDevice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE devices SET status = ? WHERE id = ?")).
		WithArgs("REVOKED", uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+deviceColumns+" FROM devices WHERE id = ? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(deviceCols))

	repo := NewDeviceRepo(db)
	_, err = repo.UpdateStatus(context.Background(), 99, model.DeviceRevoked)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
