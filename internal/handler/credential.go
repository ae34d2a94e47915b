package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/access"
	"github.com/logisticair/crewops/internal/model"
	"github.com/logisticair/crewops/internal/repository"
)

// CredentialHandler issues and lists short-lived login credentials.
type CredentialHandler struct {
	Crew   *repository.CrewRepo
	Creds  *repository.CredentialRepo
	Issuer *access.Issuer
	Log    *zap.Logger
}

func NewCredentialHandler(crew *repository.CrewRepo, creds *repository.CredentialRepo, issuer *access.Issuer, log *zap.Logger) *CredentialHandler {
	return &CredentialHandler{Crew: crew, Creds: creds, Issuer: issuer, Log: log}
}

type issueCredentialReq struct {
	Kind string `json:"kind"` // NUMERIC_CODE or QR_TOKEN
}

// Issue generates a fresh credential for the crew member.  Issuing a QR
// token replaces the member's current QR slot; numeric codes stack.
func (h *CredentialHandler) Issue(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	crewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req issueCredentialReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	kind := model.CredentialKind(req.Kind)
	if kind != model.CredentialNumeric && kind != model.CredentialQRToken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
	}

	if _, err := h.Crew.GetByID(ctx, crewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		}
		h.Log.Error("load crew failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue failed"})
	}

	cred, err := h.Creds.Insert(ctx, h.Issuer.Issue(crewID, kind))
	if err != nil {
		h.Log.Error("insert credential failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue failed"})
	}
	return c.JSON(http.StatusCreated, cred)
}

// List returns the member's credentials newest first, with the derived
// expired flag computed against the current clock.
func (h *CredentialHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	crewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	creds, err := h.Creds.ListByCrew(ctx, crewID, time.Now().UTC())
	if err != nil {
		h.Log.Error("list credentials failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list credentials failed"})
	}
	return c.JSON(http.StatusOK, creds)
}

// Redeem marks a credential USED after the mobile app logs in with it.
// Elapsed expiry never flips the stored status; this is the only
// transition out of VALID.
func (h *CredentialHandler) Redeem(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.Creds.MarkUsed(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "credential not found"})
		}
		h.Log.Error("redeem credential failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redeem failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.CredentialUsed})
}

// CurrentQR returns the member's current QR token, if one has been
// issued this process lifetime.
func (h *CredentialHandler) CurrentQR(c echo.Context) error {
	crewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	code, ok := h.Creds.CurrentQR(crewID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no current QR token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"crew_id": crewID, "code": code})
}
