package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/model"
	"github.com/logisticair/crewops/internal/repository"
)

// CrewHandler exposes the roster over HTTP.
type CrewHandler struct {
	Crew *repository.CrewRepo
	Log  *zap.Logger
}

func NewCrewHandler(crew *repository.CrewRepo, log *zap.Logger) *CrewHandler {
	return &CrewHandler{Crew: crew, Log: log}
}

type createCrewReq struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Role string `json:"role"`
	Base string `json:"base"`
}

type updateCrewStatusReq struct {
	Status string `json:"status"`
}

// List returns roster members, optionally narrowed by status/role/base/name.
func (h *CrewHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && !model.ValidCrewStatus(model.CrewStatus(status)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	f := repository.ListFilter{
		Status: model.CrewStatus(status),
		Role:   strings.TrimSpace(c.QueryParam("role")),
		Base:   strings.TrimSpace(c.QueryParam("base")),
		Name:   strings.TrimSpace(c.QueryParam("name")),
	}

	members, err := h.Crew.List(ctx, f)
	if err != nil {
		h.Log.Error("list crew failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list crew failed"})
	}
	return c.JSON(http.StatusOK, members)
}

// Get returns a single roster member.
func (h *CrewHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	member, err := h.Crew.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
	}
	if err != nil {
		h.Log.Error("get crew failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get crew failed"})
	}
	return c.JSON(http.StatusOK, member)
}

// Create registers a new roster member.  New members start ACTIVE.
func (h *CrewHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var req createCrewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	req.Role = strings.TrimSpace(req.Role)
	req.Base = strings.TrimSpace(req.Base)
	if req.Name == "" || req.Code == "" || req.Role == "" || req.Base == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code/role/base required"})
	}

	member, err := h.Crew.Create(ctx, model.CrewMember{
		Name:   req.Name,
		Code:   req.Code,
		Role:   req.Role,
		Base:   req.Base,
		Status: model.CrewActive,
	})
	if errors.Is(err, repository.ErrCodeExists) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
	}
	if err != nil {
		h.Log.Error("create crew failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create crew failed"})
	}
	return c.JSON(http.StatusCreated, member)
}

// Reload drops the cached roster and re-hydrates from the persisted
// blob, for operators who edited it out of band.  Responds with the
// refreshed list.
func (h *CrewHandler) Reload(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	h.Crew.Reload()
	members, err := h.Crew.List(ctx, repository.ListFilter{})
	if err != nil {
		h.Log.Error("reload roster failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, members)
}

// UpdateStatus moves a member between ACTIVE / TEMPORARY_LEAVE / PERMANENT_LEAVE.
func (h *CrewHandler) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateCrewStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidCrewStatus(model.CrewStatus(req.Status)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	member, err := h.Crew.UpdateStatus(ctx, id, model.CrewStatus(req.Status))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
	}
	if err != nil {
		h.Log.Error("update crew status failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, member)
}
