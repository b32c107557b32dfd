// Package logger provides the process-wide structured logger.
//
// The generator and its collaborators log skip decisions, degraded lines and
// save failures here rather than returning them to the caller; only fatal
// per-plot errors travel up as error values.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log starts as a no-op so packages can log safely before Initialize runs.
var log = zap.NewNop().Sugar()

// Initialize builds the global logger at the requested level. Accepted levels
// are debug, info, warn and error; anything else falls back to info.
func Initialize(level string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.DisableStacktrace = true
	built, err := cfg.Build()
	if err != nil {
		return err
	}
	log = built.Sugar()
	return nil
}

// L returns the current global logger.
func L() *zap.SugaredLogger { return log }

// Set replaces the global logger. Tests use this to capture output.
func Set(l *zap.SugaredLogger) { log = l }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
