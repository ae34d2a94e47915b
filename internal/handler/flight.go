package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/flights"
	"github.com/logisticair/crewops/internal/model"
)

// FlightHandler proxies the external flights backend.
type FlightHandler struct {
	Flights *flights.Client
	Log     *zap.Logger
}

func NewFlightHandler(client *flights.Client, log *zap.Logger) *FlightHandler {
	return &FlightHandler{Flights: client, Log: log}
}

// List returns the flight table, optionally narrowed by origin,
// destination, status or date.  Backend failure is one generic error;
// the console renders an empty table from it.
func (h *FlightHandler) List(c echo.Context) error {
	all, err := h.Flights.List(c.Request().Context())
	if err != nil {
		h.Log.Warn("flights backend unavailable", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not load flights"})
	}

	origin := strings.TrimSpace(c.QueryParam("origin"))
	dest := strings.TrimSpace(c.QueryParam("destination"))
	status := strings.TrimSpace(c.QueryParam("status"))
	date := strings.TrimSpace(c.QueryParam("date"))

	out := make([]model.Flight, 0, len(all))
	for _, f := range all {
		if origin != "" && !strings.EqualFold(f.Origin, origin) {
			continue
		}
		if dest != "" && !strings.EqualFold(f.Destination, dest) {
			continue
		}
		if status != "" && string(f.Status) != status {
			continue
		}
		if date != "" && f.Date != date {
			continue
		}
		out = append(out, f)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one flight by id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	f, err := h.Flights.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	}
	return c.JSON(http.StatusOK, f)
}
