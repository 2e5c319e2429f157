// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package cli parses the command line of the downloader.
//
// Flags override the environment configuration; a flag that is not given
// leaves the configured value untouched.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/course"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/config"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/slice"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/split"
)

// Exit codes. Success is a nil error from the caller.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError builds an [ExitError] for invalid command lines.
func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// Options is the parsed command line.
type Options struct {
	// Course selection
	Course       string
	CourseLike   string
	Exclude      []string
	SkipArchived bool
	Week         int

	// Overrides, applied only for flags that were given
	HeadersPath    string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	OutputRoot     string
	Workers        int
	Existing       string
	Retries        int
	LogLevel       string
	LogFormat      string

	set map[string]bool
}

// Parse processes command-line arguments.
//
// # Returns
//   - The options, false and nil on success.
//   - nil, true and nil when help was requested.
//   - An [*ExitError] with [ExitUsage] for invalid input.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet(constants.AppName, flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
lmsdl - download course materials from the Central University LMS.

Usage:
  lmsdl [options]

Every option falls back to its environment variable (see LMS_*, DOWNLOAD_*,
LOG_*) and then to the built-in default.

Options:
`)
		flagSet.PrintDefaults()
	}

	options := &Options{set: make(map[string]bool)}
	var timeout, exclude string

	flagSet.StringVar(&options.HeadersPath, "headers", "", "Path to headers.json with the session cookie (LMS_HEADERS_PATH).")
	flagSet.StringVar(&timeout, "timeout", "", "Timeouts in seconds, format 'connect,read' (LMS_CONNECT_TIMEOUT, LMS_READ_TIMEOUT).")
	flagSet.StringVar(&options.Course, "course", "", "Exact course name.")
	flagSet.StringVar(&options.CourseLike, "course-like", "", "Case-insensitive substring of the course name.")
	flagSet.StringVar(&exclude, "exclude", "", "Comma-separated substrings; matching courses are skipped.")
	flagSet.BoolVar(&options.SkipArchived, "skip-archived", false, "Skip courses the LMS marks as archived.")
	flagSet.IntVar(&options.Week, "week", 0, "Week number (1..N). All weeks when omitted.")
	flagSet.StringVar(&options.OutputRoot, "out", "", "Output directory (DOWNLOAD_ROOT).")
	flagSet.IntVar(&options.Workers, "workers", 0, "Concurrent downloads per week (DOWNLOAD_WORKERS).")
	flagSet.StringVar(&options.Existing, "existing", "", "Existing files: 'overwrite' or 'skip' (DOWNLOAD_EXISTING).")
	flagSet.IntVar(&options.Retries, "retries", 0, "Extra attempts for transient failures (DOWNLOAD_RETRIES).")
	flagSet.StringVar(&options.LogLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error' (LOG_LEVEL).")
	flagSet.StringVar(&options.LogFormat, "log-format", "", "Log output format: 'text' or 'json' (LOG_FORMAT).")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}

	if flagSet.NArg() > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}

	flagSet.Visit(func(f *flag.Flag) {
		options.set[f.Name] = true
	})

	// 1. Timeouts
	if options.set["timeout"] {
		seconds, err := split.Ints(timeout)
		if err != nil || len(seconds) != 2 || seconds[0] <= 0 || seconds[1] <= 0 {
			return nil, false, usageError("invalid --timeout %q: expected 'connect,read' in whole seconds", timeout)
		}
		options.ConnectTimeout = time.Duration(seconds[0]) * time.Second
		options.ReadTimeout = time.Duration(seconds[1]) * time.Second
	}

	// 2. Selection
	if options.Week < 0 {
		return nil, false, usageError("invalid --week %d: must be 1 or greater", options.Week)
	}
	options.Exclude = split.Strings(exclude)

	// 3. Enumerations, normalized for the configuration validator
	options.Existing = strings.ToLower(options.Existing)
	options.LogLevel = strings.ToLower(options.LogLevel)
	options.LogFormat = strings.ToLower(options.LogFormat)

	return options, false, nil
}

// Apply overrides cfg with every flag that was given.
func (options *Options) Apply(cfg *config.Config) {
	if options.set["headers"] {
		cfg.HeadersPath = options.HeadersPath
	}
	if options.set["timeout"] {
		cfg.ConnectTimeout = options.ConnectTimeout
		cfg.ReadTimeout = options.ReadTimeout
	}
	if options.set["out"] {
		cfg.DownloadRoot = options.OutputRoot
	}
	if options.set["workers"] {
		cfg.Workers = options.Workers
	}
	if options.set["existing"] {
		cfg.Existing = options.Existing
	}
	if options.set["retries"] {
		cfg.Retries = options.Retries
	}
	if options.set["log-level"] {
		cfg.LogLevel = options.LogLevel
	}
	if options.set["log-format"] {
		cfg.LogFormat = options.LogFormat
	}
}

// CoursePredicate combines the course filters. Nil means every course.
func (options *Options) CoursePredicate() slice.Predicate[course.Course] {
	var predicates []slice.Predicate[course.Course]

	if options.Course != "" {
		predicates = append(predicates, course.ByExactName(options.Course))
	}
	if options.CourseLike != "" {
		predicates = append(predicates, course.ByNameContains(options.CourseLike))
	}
	if len(options.Exclude) > 0 {
		predicates = append(predicates, course.ExcludingNames(options.Exclude...))
	}
	if options.SkipArchived {
		predicates = append(predicates, course.NotArchived())
	}

	if len(predicates) == 0 {
		return nil
	}
	return slice.All(predicates...)
}
