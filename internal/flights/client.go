// Package flights is the HTTP client for the external flights backend.
// The backend is a demo microservice exposing GET /vuelos; this package
// maps its rows into the shape the console tables expect, filling demo
// defaults for fields the backend does not report.
package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/logisticair/crewops/internal/model"
	"github.com/logisticair/crewops/internal/staging"
)

// apiVuelo is the backend's row shape, verbatim.
type apiVuelo struct {
	ID           uint64 `json:"id"`
	Origen       string `json:"origen"`
	Destino      string `json:"destino"`
	HoraSalida   string `json:"horaSalidaUTC"`
	HoraLlegada  string `json:"horaLlegadaUTC"`
	Aerolinea    string `json:"aerolinea"`
	Avion        string `json:"avion"`
	TipoVuelo    string `json:"tipoVuelo"`
	Tripulante   string `json:"nombreTripulante,omitempty"`
}

// Demo defaults applied when the backend omits a field, so the tables
// render fully populated.
const (
	defaultDate     = "2025-12-18"
	defaultOrigin   = "LPB"
	defaultDest     = "CBB"
	defaultKind     = "DEMO"
	defaultAircraft = "Boeing 737-800"
	defaultCrew     = 5
	defaultFree     = 40
	defaultTotal    = 60
)

// Client talks to the flights backend and the flight-assignment
// endpoint.  A zero AssignmentURL disables commit delivery; Commit then
// only produces the payload.
type Client struct {
	http          *resty.Client
	assignmentURL string
}

// New builds a Client for the given base URL (e.g. http://localhost:3001).
func New(baseURL, assignmentURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: c, assignmentURL: assignmentURL}
}

// mapVuelo converts one backend row.  The backend does not report a
// status, so rows cycle through the enum by index for demo variety.
func mapVuelo(v apiVuelo, index int) model.Flight {
	date := defaultDate
	if len(v.HoraSalida) >= 10 {
		date = v.HoraSalida[:10]
	}
	f := model.Flight{
		ID:             v.ID,
		Code:           fmt.Sprintf("FL-%04d", v.ID),
		Origin:         v.Origen,
		Destination:    v.Destino,
		Date:           date,
		Kind:           v.TipoVuelo,
		Status:         model.FlightStatuses[index%len(model.FlightStatuses)],
		AssignedCrew:   defaultCrew,
		SeatsAvailable: defaultFree,
		SeatsTotal:     defaultTotal,
		Aircraft:       v.Avion,
		DepartureUTC:   v.HoraSalida,
		ArrivalUTC:     v.HoraLlegada,
	}
	if f.Origin == "" {
		f.Origin = defaultOrigin
	}
	if f.Destination == "" {
		f.Destination = defaultDest
	}
	if f.Kind == "" {
		f.Kind = defaultKind
	}
	if f.Aircraft == "" {
		f.Aircraft = defaultAircraft
	}
	if f.DepartureUTC == "" {
		f.DepartureUTC = f.Date + "T10:00:00Z"
	}
	if f.ArrivalUTC == "" {
		f.ArrivalUTC = f.Date + "T11:00:00Z"
	}
	return f
}

// List fetches and maps all flights.  Any non-success response is one
// generic failure; callers render an empty collection.
func (c *Client) List(ctx context.Context) ([]model.Flight, error) {
	var rows []apiVuelo
	resp, err := c.http.R().SetContext(ctx).SetResult(&rows).Get("/vuelos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("flights backend returned %d", resp.StatusCode())
	}
	out := make([]model.Flight, 0, len(rows))
	for i, v := range rows {
		out = append(out, mapVuelo(v, i))
	}
	return out, nil
}

// GetByID fetches the full list and filters, since the demo backend has
// no per-id endpoint.
func (c *Client) GetByID(ctx context.Context, id uint64) (model.Flight, error) {
	all, err := c.List(ctx)
	if err != nil {
		return model.Flight{}, err
	}
	for _, f := range all {
		if f.ID == id {
			return f, nil
		}
	}
	return model.Flight{}, fmt.Errorf("flight %d not found", id)
}

// SubmitAssignment delivers a staging commit payload to the external
// flight-assignment endpoint.  Responsibility ends at success/failure;
// the response body is not interpreted.
func (c *Client) SubmitAssignment(ctx context.Context, payload staging.CommitPayload) error {
	if c.assignmentURL == "" {
		return nil // delivery not configured; payload production is the contract
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(payload).Post(c.assignmentURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("assignment endpoint returned %d", resp.StatusCode())
	}
	return nil
}
