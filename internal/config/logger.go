package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the service-wide zap logger.  LOG_LEVEL selects the
// minimum level (debug, info, warn, error; default info).  In the dev
// environment the console encoder is used, otherwise production JSON.
func NewLogger(env string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.Set(v); err != nil {
			level = zapcore.InfoLevel
		}
	}

	var cfg zap.Config
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
