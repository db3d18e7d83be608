// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
)

// ParseLevel maps a config level name to a pterm log level.
// Unknown names fall back to info.
func ParseLevel(name string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// NewLogger returns a slog logger rendered by pterm's structured logger.
func NewLogger(w io.Writer, level string) *slog.Logger {
	pl := pterm.DefaultLogger.WithLevel(ParseLevel(level)).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(pl))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return NewLogger(io.Discard, "off")
}
