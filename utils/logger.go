package utils

import (
	"log"

	"sanket/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger, also installed as zap's global.
var Logger *zap.Logger

// NewLogger builds a JSON logger for production and a colored console
// logger otherwise. An unparsable level falls back to info.
func NewLogger(production bool, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atomic = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = atomic
	return cfg.Build()
}

// InitializeLogger builds Logger from the loaded config.
func InitializeLogger() {
	logger, err := NewLogger(config.IsProduction(), config.AppConfig.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Logger = logger
	zap.ReplaceGlobals(Logger)
}

// GetLogger returns Logger, initializing it on first use.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
