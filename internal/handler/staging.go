package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/flights"
	"github.com/logisticair/crewops/internal/repository"
	"github.com/logisticair/crewops/internal/staging"
)

// StagingHandler drives the per-flight crew assignment workspace.
type StagingHandler struct {
	Crew     *repository.CrewRepo
	Sessions *staging.Store
	Flights  *flights.Client
	Log      *zap.Logger
}

func NewStagingHandler(crew *repository.CrewRepo, sessions *staging.Store, client *flights.Client, log *zap.Logger) *StagingHandler {
	return &StagingHandler{Crew: crew, Sessions: sessions, Flights: client, Log: log}
}

type openSessionReq struct {
	AssignedIDs []uint64 `json:"assigned_ids"` // pre-assigned members, optional
}

type moveReq struct {
	CrewID uint64 `json:"crew_id"`
}

// sessionView is the response shape for every session-returning route:
// the session plus its recomputed staffing summary.
type sessionView struct {
	Session *staging.Session `json:"session"`
	Summary staging.Summary  `json:"summary"`
}

// Open starts (or restarts) a staging session for the flight.  The
// available pool is the roster's ACTIVE members minus any ids named as
// pre-assigned; re-opening discards all previous moves.
func (h *StagingHandler) Open(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	var req openSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	members, err := h.Crew.ActiveMembers(ctx)
	if err != nil {
		h.Log.Error("load roster failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}

	pre := make(map[uint64]bool, len(req.AssignedIDs))
	for _, id := range req.AssignedIDs {
		pre[id] = true
	}
	var available, assigned []staging.Candidate
	for _, m := range members {
		cand := staging.CandidateFromCrew(m)
		if pre[m.ID] {
			assigned = append(assigned, cand)
		} else {
			available = append(available, cand)
		}
	}

	s := h.Sessions.Open(flightID, available, assigned)
	return c.JSON(http.StatusCreated, sessionView{Session: s, Summary: s.DotationSummary()})
}

// Get returns the flight's open session and summary.
func (h *StagingHandler) Get(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	s, err := h.Sessions.Get(flightID)
	if errors.Is(err, staging.ErrNoSession) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
	}
	return c.JSON(http.StatusOK, sessionView{Session: s, Summary: s.DotationSummary()})
}

// Assign moves a candidate from available to assigned.  An unknown
// crew_id leaves the session untouched and still answers 200, so a
// double click on the same row stays a no-op.
func (h *StagingHandler) Assign(c echo.Context) error {
	return h.move(c, func(s *staging.Session, id uint64) { s.Assign(id) })
}

// Unassign moves a candidate back from assigned to available.
func (h *StagingHandler) Unassign(c echo.Context) error {
	return h.move(c, func(s *staging.Session, id uint64) { s.Unassign(id) })
}

func (h *StagingHandler) move(c echo.Context, op func(*staging.Session, uint64)) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	var req moveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var view sessionView
	err = h.Sessions.With(flightID, func(s *staging.Session) {
		op(s, req.CrewID)
		// Snapshot under the store lock; serialization happens after
		// With returns, while other moves may be running.
		view = sessionView{Session: s.Clone(), Summary: s.DotationSummary()}
	})
	if errors.Is(err, staging.ErrNoSession) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
	}
	return c.JSON(http.StatusOK, view)
}

// Available returns a filtered view over the available pool.  Filters
// never mutate the session.
func (h *StagingHandler) Available(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	f := staging.Filter{
		Role: c.QueryParam("role"),
		Base: c.QueryParam("base"),
		Name: c.QueryParam("name"),
	}

	var out []staging.Candidate
	err = h.Sessions.With(flightID, func(s *staging.Session) {
		out = s.FilterAvailable(f)
	})
	if errors.Is(err, staging.ErrNoSession) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
	}
	return c.JSON(http.StatusOK, out)
}

// Commit packages the assigned set and delivers it to the external
// assignment endpoint.  Delivery failure keeps the session open so
// nothing staged is lost; success closes it.
func (h *StagingHandler) Commit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	var payload staging.CommitPayload
	err = h.Sessions.With(flightID, func(s *staging.Session) {
		payload = s.Commit()
	})
	if errors.Is(err, staging.ErrNoSession) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
	}

	if err := h.Flights.SubmitAssignment(ctx, payload); err != nil {
		h.Log.Error("assignment delivery failed", zap.Uint64("flight_id", flightID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "assignment delivery failed"})
	}

	h.Sessions.Close(flightID)
	return c.JSON(http.StatusOK, payload)
}
