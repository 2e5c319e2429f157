// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
)

// NewLogger builds the process logger for the given level and format.
//
// Unknown levels fall back to info and unknown formats to text. The logger is
// not installed as the default; callers decide with [slog.SetDefault].
func NewLogger(level, format string, out io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		handler = slog.NewJSONHandler(out, options)
	} else {
		handler = slog.NewTextHandler(out, options)
	}

	return slog.New(handler).With(slog.String("app", constants.AppName))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
