// Package slogx builds the service logger and carries request scoped loggers
// through contexts.
package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Redacted replaces the value of attributes that may hold credentials.
const Redacted = "[REDACTED]"

// sensitiveKeys never reach the log output with their value.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"secret":        {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"fingerprint":   {},
	"cookie":        {},
	"set-cookie":    {},
}

type Config struct {
	Service string
	Version string
	Env     string // dev, test, prod
	Level   string // debug, info, warn, error
	Format  string // json, text

	// Output defaults to stdout.
	Output io.Writer
}

// New builds a logger from cfg and installs it as the slog default.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		AddSource:   cfg.Env == "dev",
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	slog.SetDefault(logger)
	return logger
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	return a
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
