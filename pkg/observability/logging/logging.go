// Package logging provides the shared structured logger for the classifier.
// All library code logs through this package rather than the standard log
// package so that output format and level are controlled in one place.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger = zap.NewNop().Sugar()
)

// InitLoggerFromEnv initializes the global logger using the LOG_LEVEL
// environment variable (debug, info, warn, error; default info). Returns the
// underlying zap.Logger so callers can attach it elsewhere if needed.
func InitLoggerFromEnv() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	SetLogger(l)
	return l, nil
}

// SetLogger replaces the global logger. Safe for concurrent use.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, args ...interface{}) { get().Debugf(format, args...) }

func Infof(format string, args ...interface{}) { get().Infof(format, args...) }

func Warnf(format string, args ...interface{}) { get().Warnf(format, args...) }

func Errorf(format string, args ...interface{}) { get().Errorf(format, args...) }

// LogEvent emits a structured event with arbitrary key/value fields.
func LogEvent(event string, fields map[string]interface{}) {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	get().Infow(event, kv...)
}
