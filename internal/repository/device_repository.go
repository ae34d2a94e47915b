package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/logisticair/crewops/internal/model"
)

const deviceColumns = "id, crew_id, name, platform, model, crew_name, status, registered_at, last_seen_at"

// DeviceRepo provides data access to the `devices` table.
type DeviceRepo struct{ DB *sql.DB }

func NewDeviceRepo(db *sql.DB) *DeviceRepo { return &DeviceRepo{DB: db} }

func scanDevice(row interface{ Scan(...any) error }) (model.Device, error) {
	var d model.Device
	var lastSeen sql.NullTime
	err := row.Scan(&d.ID, &d.CrewID, &d.Name, &d.Platform, &d.Model, &d.CrewName, &d.Status, &d.RegisteredAt, &lastSeen)
	if lastSeen.Valid {
		t := lastSeen.Time
		d.LastSeenAt = &t
	}
	return d, err
}

// DeviceFilter holds the AND-combined list predicates for the devices
// view: exact status, exact platform, case-insensitive substring on the
// owner's name.
type DeviceFilter struct {
	Status   model.DeviceStatus
	Platform string
	CrewName string
}

// List returns devices matching the filter in registration order.
func (r *DeviceRepo) List(ctx context.Context, f DeviceFilter) ([]model.Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE 1=1"
	args := make([]any, 0, 3)
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Platform != "" {
		query += " AND platform = ?"
		args = append(args, f.Platform)
	}
	if f.CrewName != "" {
		query += " AND LOWER(crew_name) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.CrewName)+"%")
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByCrew returns all devices owned by one crew member.
func (r *DeviceRepo) ListByCrew(ctx context.Context, crewID uint64) ([]model.Device, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+deviceColumns+" FROM devices WHERE crew_id = ? ORDER BY id", crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID fetches one device or ErrNotFound.
func (r *DeviceRepo) GetByID(ctx context.Context, id uint64) (model.Device, error) {
	d, err := scanDevice(r.DB.QueryRowContext(ctx,
		"SELECT "+deviceColumns+" FROM devices WHERE id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Device{}, ErrNotFound
	}
	return d, err
}

// UpdateStatus sets a device's lifecycle status and returns the updated
// record.  The state machine is permissive: no transition is blocked by
// the current state.  The confirmation gate for REVOKED lives in the
// handler, next to the operator interaction it guards.
func (r *DeviceRepo) UpdateStatus(ctx context.Context, id uint64, status model.DeviceStatus) (model.Device, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE devices SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return model.Device{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean "already in that status"; confirm the
		// device exists before reporting ErrNotFound.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return model.Device{}, getErr
		}
	}
	return r.GetByID(ctx, id)
}
