package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/logisticair/crewops/internal/access"
	"github.com/logisticair/crewops/internal/auth"
	"github.com/logisticair/crewops/internal/config"
	"github.com/logisticair/crewops/internal/database"
	"github.com/logisticair/crewops/internal/flights"
	"github.com/logisticair/crewops/internal/handler"
	"github.com/logisticair/crewops/internal/queue"
	"github.com/logisticair/crewops/internal/repository"
	"github.com/logisticair/crewops/internal/router"
	queuePublisher "github.com/logisticair/crewops/internal/service"
	"github.com/logisticair/crewops/internal/staging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Migrate(ctx, db); err != nil {
			cancel()
			log.Fatalf("database migration failed: %v", err)
		}
		cancel()
	}

	// Redis backs the roster blob, the response cache and the rate
	// limiter.  A nil client degrades all three gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; roster falls back to seed data, cache and rate limit disabled")
	}

	var rosterKV repository.KV
	if rdb != nil {
		rosterKV = repository.RedisKV{Client: rdb}
	}
	crewRepo := repository.NewCrewRepo(rosterKV, logger)
	crewRepo.WarmUp()
	deviceRepo := repository.NewDeviceRepo(db)
	credRepo := repository.NewCredentialRepo(db)
	runRepo := repository.NewSyncRunRepo(db)

	flightClient := flights.New(cfg.FlightsAPIURL, cfg.AssignmentAPIURL)
	sessions := staging.NewStore()
	issuer := access.NewIssuer()
	authenticator := auth.FromConfig(cfg.AdminEmail, cfg.AdminPassHash)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, authenticator, logger),
		Crew:        handler.NewCrewHandler(crewRepo, logger),
		Devices:     handler.NewDeviceHandler(deviceRepo, logger),
		Credentials: handler.NewCredentialHandler(crewRepo, credRepo, issuer, logger),
		Flights:     handler.NewFlightHandler(flightClient, logger),
		Staging:     handler.NewStagingHandler(crewRepo, sessions, flightClient, logger),
		SyncRuns:    handler.NewSyncRunHandler(runRepo, logger),
	}

	// Background consumer: executes operator-triggered sync requests.
	consumer := &queue.SyncConsumer{
		BrokerURL: queuePublisher.BrokerURL(),
		Source:    flightClient,
		Runs:      runRepo,
		Label:     cfg.SyncSource,
		Log:       logger,
	}
	go func() {
		if err := consumer.Start(); err != nil {
			logger.Error("sync consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e, h, cfg, rdb)

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
