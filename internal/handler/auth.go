package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/auth"
	"github.com/logisticair/crewops/internal/config"
	"github.com/logisticair/crewops/internal/utils"
)

// AuthHandler bundles dependencies for the login endpoint.  The actual
// credential check is behind the auth.Authenticator interface so the
// accept-anything demo mode and a real check are interchangeable.
type AuthHandler struct {
	Cfg  config.Config
	Auth auth.Authenticator
	Log  *zap.Logger
}

func NewAuthHandler(cfg config.Config, a auth.Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: a, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	User   string    `json:"user"`
	Role   string    `json:"role"`
	Access tokenPart `json:"access"`
}

// Login validates the credential pair and returns a session JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	if err := h.Auth.Authenticate(c.Request().Context(), req.Email, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Email, "ADMIN", h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error("issue access token failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		User:   req.Email,
		Role:   "ADMIN",
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
