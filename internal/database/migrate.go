package database

import (
	"context"
	"database/sql"
)

// ddl creates the tables owned by this service.  The crew roster is not
// here: it lives as one serialized blob in Redis (see repository.CrewRepo).
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		crew_id       BIGINT UNSIGNED NOT NULL,
		name          VARCHAR(128)    NOT NULL,
		platform      VARCHAR(16)     NOT NULL,
		model         VARCHAR(128)    NOT NULL DEFAULT '',
		crew_name     VARCHAR(128)    NOT NULL DEFAULT '',
		status        VARCHAR(16)     NOT NULL DEFAULT 'ACTIVE',
		registered_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_seen_at  DATETIME        NULL,
		INDEX idx_devices_crew (crew_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS credentials (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		crew_id    BIGINT UNSIGNED NOT NULL,
		code       VARCHAR(32)     NOT NULL,
		kind       VARCHAR(16)     NOT NULL,
		status     VARCHAR(16)     NOT NULL DEFAULT 'VALID',
		created_at DATETIME        NOT NULL,
		expires_at DATETIME        NOT NULL,
		INDEX idx_credentials_crew (crew_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sync_runs (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		executed_at     DATETIME        NOT NULL,
		data_source     VARCHAR(255)    NOT NULL,
		flights_read    INT             NOT NULL DEFAULT 0,
		flights_updated INT             NOT NULL DEFAULT 0,
		flights_created INT             NOT NULL DEFAULT 0,
		errors          INT             NOT NULL DEFAULT 0,
		status          VARCHAR(16)     NOT NULL,
		message         VARCHAR(512)    NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// seed inserts the demo fixtures the console expects on a fresh
// database: three registered devices and three historical sync runs.
var seed = []string{
	`INSERT INTO devices (crew_id, name, platform, model, crew_name, status, registered_at, last_seen_at) VALUES
		(1, 'iPhone de Suarez', 'iOS',     'iPhone 13',     'Luis Suarez',   'ACTIVE',    '2025-03-09 10:15:00', '2025-03-10 07:50:00'),
		(3, 'Android de Lola',  'Android', 'Samsung A54',   'Lola Martinez', 'SUSPENDED', '2025-03-08 16:40:00', '2025-03-10 06:20:00'),
		(2, 'iPhone de Lucas',  'iOS',     'iPhone 14 Pro', 'Lucas Perez',   'REVOKED',   '2025-03-07 09:00:00', '2025-03-09 23:10:00')`,

	`INSERT INTO sync_runs (executed_at, data_source, flights_read, flights_updated, flights_created, errors, status, message) VALUES
		('2025-03-09 21:00:00', 'SerpAPI (Google Flights) + internal airline system', 0,  0,  0,  1, 'ERROR',   'Connection to the data source failed.'),
		('2025-03-10 03:00:00', 'SerpAPI (Google Flights) + internal airline system', 38, 28, 8,  0, 'OK',      'Synchronization completed successfully.'),
		('2025-03-10 09:00:00', 'SerpAPI (Google Flights) + internal airline system', 42, 30, 10, 2, 'PARTIAL', 'Some flights could not be updated due to upstream changes.')`,
}

// Migrate applies the schema and seeds demo data when the tables are
// empty.  It is idempotent and safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM devices`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := db.ExecContext(ctx, seed[0]); err != nil {
			return err
		}
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_runs`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := db.ExecContext(ctx, seed[1]); err != nil {
			return err
		}
	}
	return nil
}
