// Package logging provides structured logging for the rice doctor service:
// a zap logger teed to console and a rotating log file, plus structured
// field helpers for diagnosis telemetry.
package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseLogLevel parses a log level string. Returns the default level for
// empty or unrecognized input. Parsing is case-insensitive.
//
// Valid levels: debug, info, warn, warning, error, fatal.
func ParseLogLevel(levelStr string, defaultLevel zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return defaultLevel
	}
}
