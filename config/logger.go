package config

import (
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

// InitLogger builds the zap logger according to the environment. Business
// rule rejections are never logged through this; it exists for
// infrastructure failures (storage, database) and startup messages.
func InitLogger(cfg *Config) (*zap.SugaredLogger, error) {
	var zl *zap.Logger
	var err error
	if cfg != nil && cfg.IsProduction() {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	logger = zl.Sugar()
	return logger, nil
}

// Logger returns the process logger, initializing a no-op fallback if
// InitLogger was never called (tests).
func Logger() *zap.SugaredLogger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return logger
}

// SetLogger sets the logger instance (primarily for testing)
func SetLogger(l *zap.SugaredLogger) {
	logger = l
}
