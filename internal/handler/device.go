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

// DeviceHandler manages the registered-device fleet.
type DeviceHandler struct {
	Devices *repository.DeviceRepo
	Log     *zap.Logger
}

func NewDeviceHandler(devices *repository.DeviceRepo, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{Devices: devices, Log: log}
}

type updateDeviceStatusReq struct {
	Status  string `json:"status"`
	Confirm bool   `json:"confirm"` // required true when status is REVOKED
}

// List returns devices with optional status/platform/crew_name narrowing.
func (h *DeviceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && !model.ValidDeviceStatus(model.DeviceStatus(status)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	f := repository.DeviceFilter{
		Status:   model.DeviceStatus(status),
		Platform: strings.TrimSpace(c.QueryParam("platform")),
		CrewName: strings.TrimSpace(c.QueryParam("crew_name")),
	}

	devices, err := h.Devices.List(ctx, f)
	if err != nil {
		h.Log.Error("list devices failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list devices failed"})
	}
	return c.JSON(http.StatusOK, devices)
}

// ListByCrew returns the devices registered to one crew member.
func (h *DeviceHandler) ListByCrew(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	crewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	devices, err := h.Devices.ListByCrew(ctx, crewID)
	if err != nil {
		h.Log.Error("list crew devices failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list devices failed"})
	}
	return c.JSON(http.StatusOK, devices)
}

// UpdateStatus changes a device's lifecycle state.  Any state may move to any
// other; revocation additionally requires an explicit confirm flag so a bare
// PATCH cannot kill a device by accident.
func (h *DeviceHandler) UpdateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateDeviceStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidDeviceStatus(model.DeviceStatus(req.Status)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if model.DeviceStatus(req.Status) == model.DeviceRevoked && !req.Confirm {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrConfirmationRequired.Error()})
	}

	device, err := h.Devices.UpdateStatus(ctx, id, model.DeviceStatus(req.Status))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "device not found"})
	}
	if err != nil {
		h.Log.Error("update device status failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, device)
}
