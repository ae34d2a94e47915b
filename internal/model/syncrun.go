package model

import "time"

// SyncRunStatus classifies the outcome of one synchronization job.
type SyncRunStatus string

const (
	SyncOK      SyncRunStatus = "OK"
	SyncPartial SyncRunStatus = "PARTIAL"
	SyncError   SyncRunStatus = "ERROR"
)

// SyncRun is the audit record of one execution of the flight
// synchronization job.  Rows are written by the background consumer and
// are read-only everywhere else.
//
// Fields:
//  ID             – primary key identifier.
//  ExecutedAt     – when the run started.
//  DataSource     – label of the upstream source.
//  FlightsRead    – flights read from the source.
//  FlightsUpdated – flights updated locally.
//  FlightsCreated – flights created locally.
//  Errors         – error count for the run.
//  Status         – OK, PARTIAL or ERROR.
//  Message        – short human-readable summary.
type SyncRun struct {
	ID             uint64        `json:"id"`
	ExecutedAt     time.Time     `json:"executed_at"`
	DataSource     string        `json:"data_source"`
	FlightsRead    int           `json:"flights_read"`
	FlightsUpdated int           `json:"flights_updated"`
	FlightsCreated int           `json:"flights_created"`
	Errors         int           `json:"errors"`
	Status         SyncRunStatus `json:"status"`
	Message        string        `json:"message,omitempty"`
}
