package utils

import (
	"log"

	"github.com/tmurray-at-tygershark/solushipX-sub005/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger.
var Logger *zap.Logger

// InitializeLogger builds the logger for the configured environment:
// JSON at info level in production, colored console at debug elsewhere.
func InitializeLogger() {
	var cfg zap.Config

	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Middleware that only has zap.L() in scope gets the same logger.
	zap.ReplaceGlobals(Logger)
}

// GetLogger returns the global logger, building it on first use.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
