package model

// FlightStatus enumerates the operational state shown in the flights table.
type FlightStatus string

const (
	FlightScheduled  FlightStatus = "SCHEDULED"
	FlightInProgress FlightStatus = "IN_PROGRESS"
	FlightFinished   FlightStatus = "FINISHED"
	FlightCancelled  FlightStatus = "CANCELLED"
)

// FlightStatuses lists the states in display order.  The demo flights
// backend does not report a status, so rows cycle through this list.
var FlightStatuses = []FlightStatus{FlightScheduled, FlightInProgress, FlightFinished, FlightCancelled}

// Flight is one row of the flights list plus the detail-only fields.
// The data originates in the external flights backend and is mapped,
// never stored locally.
type Flight struct {
	ID             uint64       `json:"id"`
	Code           string       `json:"code"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	Date           string       `json:"date"` // YYYY-MM-DD
	Kind           string       `json:"kind"`
	Status         FlightStatus `json:"status"`
	AssignedCrew   int          `json:"assigned_crew"`
	SeatsAvailable int          `json:"seats_available"`
	SeatsTotal     int          `json:"seats_total"`
	Aircraft       string       `json:"aircraft"`
	DepartureUTC   string       `json:"departure_utc"`
	ArrivalUTC     string       `json:"arrival_utc"`
}
