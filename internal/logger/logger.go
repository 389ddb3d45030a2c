// Package logger provides the shared application logger.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	instance *zap.SugaredLogger
	mu       sync.Mutex
)

// Initialize sets up the global logger. Level is one of debug, info, warn,
// error; anything else falls back to info. Safe to call more than once; the
// last call wins.
func Initialize(level string, production bool) error {
	mu.Lock()
	defer mu.Unlock()

	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	instance = log.Sugar()
	return nil
}

// get returns the configured logger, initializing a default one if
// Initialize was never called (useful in tests).
func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		log, _ := zap.NewDevelopmentConfig().Build(zap.AddCallerSkip(1))
		instance = log.Sugar()
	}
	return instance
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	get().Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	get().Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) {
	get().Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	get().Errorf(format, args...)
}

// Fatalf logs a formatted message at error level and exits.
func Fatalf(format string, args ...any) {
	get().Errorf(format, args...)
	os.Exit(1)
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		_ = instance.Sync()
	}
}
