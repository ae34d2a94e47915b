package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/logisticair/crewops/internal/config"
	"github.com/logisticair/crewops/internal/handler"
	"github.com/logisticair/crewops/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Crew        *handler.CrewHandler
	Devices     *handler.DeviceHandler
	Credentials *handler.CredentialHandler
	Flights     *handler.FlightHandler
	Staging     *handler.StagingHandler
	SyncRuns    *handler.SyncRunHandler
}

// RegisterRoutes wires every endpoint onto the Echo instance.  Order
// matters: metrics and rate limiting wrap everything, the response
// cache only wraps the read-mostly list groups, and the whole /v1
// surface except login sits behind JWT + the ADMIN role.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.POST("/auth/login", h.Auth.Login)

	protected := v1.Group("", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("ADMIN"))
	protected.GET("/auth/me", h.Auth.Me)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	crew := protected.Group("/crew")
	crew.GET("", h.Crew.List, cache)
	crew.POST("", h.Crew.Create)
	crew.POST("/reload", h.Crew.Reload)
	crew.GET("/:id", h.Crew.Get)
	crew.PATCH("/:id/status", h.Crew.UpdateStatus)
	crew.GET("/:id/devices", h.Devices.ListByCrew)
	crew.POST("/:id/credentials", h.Credentials.Issue)
	crew.GET("/:id/credentials", h.Credentials.List)
	crew.GET("/:id/credentials/qr", h.Credentials.CurrentQR)
	protected.POST("/credentials/:id/redeem", h.Credentials.Redeem)

	devices := protected.Group("/devices")
	devices.GET("", h.Devices.List, cache)
	devices.PATCH("/:id/status", h.Devices.UpdateStatus)

	flights := protected.Group("/flights")
	flights.GET("", h.Flights.List, cache)
	flights.GET("/:id", h.Flights.Get)

	st := protected.Group("/flights/:id/staging")
	st.POST("", h.Staging.Open)
	st.GET("", h.Staging.Get)
	st.GET("/available", h.Staging.Available)
	st.POST("/assign", h.Staging.Assign)
	st.POST("/unassign", h.Staging.Unassign)
	st.POST("/commit", h.Staging.Commit)

	runs := protected.Group("/sync-runs")
	runs.GET("", h.SyncRuns.List, cache)
	runs.POST("/trigger", h.SyncRuns.Trigger)
	runs.GET("/export", h.SyncRuns.Export)
}
