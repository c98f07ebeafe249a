// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type loggerKey struct{}

var globalLogger zerolog.Logger

func init() {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := zerolog.ParseLevel(raw)
		if err != nil || parsed == zerolog.NoLevel {
			log.Warn().Str("LOG_LEVEL", raw).Msg("invalid LOG_LEVEL, defaulting to INFO")
		} else {
			level = parsed
		}
	}

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	globalLogger = log.With().
		Str("hostname", hostname).
		Caller().
		Logger().
		Level(level)

	log.Logger = globalLogger
}

// Ctx returns the logger stored in ctx, or the global logger when none is set.
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &globalLogger
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// ConsoleMode switches the global logger to human-readable console
// output. Meant for interactive use; deployments keep JSON.
func ConsoleMode() {
	globalLogger = globalLogger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Logger = globalLogger
}

// SetLevel updates the global log level
func SetLevel(level zerolog.Level) {
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

// Fatal logs a fatal message and exits
func Fatal() *zerolog.Event {
	return globalLogger.Fatal()
}

// Error logs an error message
func Error() *zerolog.Event {
	return globalLogger.Error()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

// Info logs an info message
func Info() *zerolog.Event {
	return globalLogger.Info()
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	return globalLogger.Debug()
}
