// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command lmsdl downloads course materials from the Central University LMS.
//
// # Startup Sequence
//
//  1. Parse the command line.
//  2. Load configuration from .env and environment variables, apply flags.
//  3. Initialize the structured logger.
//  4. Load the static request headers.
//  5. Build the HTTP session and the API gateway.
//  6. Wire the resolver, the download engine and the orchestrator.
//  7. Run until done or interrupted.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/cli"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/course"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/download"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/lmsapi"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/config"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/httpclient"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/transport"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/storage"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/traversal"
)

func main() {
	// Minimal logger until the configured one is built.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run wires the application and performs one download run.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {

	// ── 1. Command Line ───────────────────────────────────────────────────
	options, exit, err := cli.Parse(args, stdout)
	if err != nil || exit {
		return err
	}

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	options.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}

	// ── 3. Logger ─────────────────────────────────────────────────────────
	log := config.NewLogger(cfg.EffectiveLogLevel(), cfg.LogFormat, stderr)
	slog.SetDefault(log)

	log.Debug("configuration_loaded",
		slog.String("base_url", cfg.BaseURL),
		slog.String("download_root", cfg.DownloadRoot),
		slog.Int("workers", cfg.Workers),
		slog.String("existing", cfg.Existing),
	)

	// ── 4. Credentials ────────────────────────────────────────────────────
	headers, found, err := config.LoadHeaders(cfg.HeadersPath)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	if !found {
		log.Warn("headers_file_missing",
			slog.String(constants.FieldPath, cfg.HeadersPath),
			slog.String("hint", "requests are sent without a session cookie"),
		)
	}

	policy, err := download.ParsePolicy(cfg.Existing)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}

	// ── 5. HTTP Session ───────────────────────────────────────────────────
	client := httpclient.New(httpclient.Config{
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		Middleware: []transport.Middleware{
			transport.RequestID(),
			transport.StructuredLogger(log),
			transport.RateLimit(transport.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)),
			transport.UserAgent(constants.AppName + "/" + constants.AppVersion),
		},
	})
	defer client.CloseIdleConnections()

	gateway, err := lmsapi.New(lmsapi.Config{BaseURL: cfg.BaseURL, Headers: headers}, client)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	files := storage.NewLocal()
	resolver := course.NewService(course.NewHTTPRepository(gateway), log)
	engine := download.NewService(gateway, files)
	orchestrator := traversal.NewService(resolver, engine, files, traversal.Options{
		Workers:      cfg.Workers,
		Policy:       policy,
		Retries:      cfg.Retries,
		RetryBackoff: cfg.RetryBackoff,
		Out:          stdout,
	}, log)

	// ── 7. Run ────────────────────────────────────────────────────────────
	summary, err := orchestrator.Run(ctx, traversal.Selection{
		CoursePredicate: options.CoursePredicate(),
		WeekNumber:      options.Week,
		OutputRoot:      cfg.DownloadRoot,
	})

	switch {
	case errors.Is(err, traversal.ErrNoCourses):
		return &cli.ExitError{Code: cli.ExitFailure, Message: "No courses match the filters."}
	case apperr.IsUnauthorized(err):
		return &cli.ExitError{Code: cli.ExitFailure, Message: err.Error()}
	case err != nil:
		return err
	}

	summary.Print(stdout)
	return nil
}
