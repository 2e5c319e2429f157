// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package traversal drives a full download run over courses, weeks, sections and files.

Flow:

 1. List the courses accepted by the selection.
 2. For each course, resolve one week or all of them.
 3. For each week, enumerate the materials of every section in order.
 4. Download the materials on a bounded pool and report them in traversal order.

Error policy:

  - UNAUTHORIZED stops the whole run; the credentials must be refreshed.
  - Any other metadata error aborts that course or week and is recorded.
  - A file that fails to download is recorded and never affects its siblings.
*/
package traversal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/course"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/download"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/apperr"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/ctxutil"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/sanitize"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/slice"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/uuidv7"
)

// ErrNoCourses is returned by [Service.Run] when the selection matches no course.
var ErrNoCourses = errors.New("no courses match the filters")

// # Collaborators

// Resolver enumerates the course hierarchy.
type Resolver interface {
	ListCourses(context context.Context, predicate slice.Predicate[course.Course]) ([]course.Course, error)
	ListWeeks(context context.Context, courseID int, predicate slice.Predicate[course.Week]) ([]course.Week, error)
	GetWeek(context context.Context, courseID, number int) (*course.Week, error)
	ListMaterials(context context.Context, sectionID int) ([]course.Material, error)
}

// Downloader materializes one file.
type Downloader interface {
	DownloadFile(context context.Context, filename, version, destination string) (bool, error)
}

// FileStore answers the filesystem questions of the traversal.
type FileStore interface {
	Exists(path string) (bool, error)
	EnsureDir(dir string) error
}

// Options tunes a [Service].
type Options struct {
	// Workers bounds concurrent downloads within a week.
	Workers int
	// Policy decides whether an existing destination is downloaded again.
	Policy download.ExistingFilePolicy
	// Retries is the number of extra attempts for transient failures.
	Retries int
	// RetryBackoff is the pause between attempts.
	RetryBackoff time.Duration
	// Out receives one human-readable line per finished week. Nil disables it.
	Out io.Writer
}

// Selection chooses what a run downloads.
type Selection struct {
	// CoursePredicate filters the course list. Nil accepts every course.
	CoursePredicate slice.Predicate[course.Course]
	// WeekNumber selects one 1-indexed week. Zero selects every week.
	WeekNumber int
	// OutputRoot is the directory the course tree is written under.
	OutputRoot string
}

// Service is the traversal orchestrator.
type Service struct {
	resolver   Resolver
	downloader Downloader
	files      FileStore
	options    Options
	logger     *slog.Logger
}

// NewService wires the orchestrator. Workers below one are raised to one.
func NewService(resolver Resolver, downloader Downloader, files FileStore, options Options, logger *slog.Logger) *Service {
	if options.Workers < 1 {
		options.Workers = 1
	}
	if options.Policy == "" {
		options.Policy = download.PolicyOverwrite
	}

	return &Service{
		resolver:   resolver,
		downloader: downloader,
		files:      files,
		options:    options,
		logger:     logger,
	}
}

// # Run

// Run downloads every selected week of every selected course.
//
// # Returns
//   - The summary, also when the run is aborted part way.
//   - [ErrNoCourses] when the selection is empty.
//   - The UNAUTHORIZED error, or the course list error, when the run is aborted.
//   - The context error when the run is interrupted.
func (service *Service) Run(context context.Context, selection Selection) (*Summary, error) {
	runID := uuidv7.New()
	logger := service.logger.With(slog.String(constants.FieldRunID, runID))
	context = ctxutil.WithLogger(ctxutil.WithRunID(context, runID), logger)

	summary := &Summary{RunID: runID}

	// 1. Courses
	courses, err := service.resolver.ListCourses(context, selection.CoursePredicate)
	if err != nil {
		return summary, err
	}
	if len(courses) == 0 {
		return summary, ErrNoCourses
	}

	logger.InfoContext(context, "run_started",
		slog.Int("courses", len(courses)),
		slog.Int(constants.FieldWeek, selection.WeekNumber),
		slog.String("output_root", selection.OutputRoot),
	)

	for _, item := range courses {
		courseLogger := logger.With(slog.String(constants.FieldCourse, item.Name))

		// 2. Weeks of the course
		weeks, err := service.selectWeeks(context, item, selection.WeekNumber)
		if err != nil {
			if apperr.IsUnauthorized(err) {
				return summary, err
			}
			if context.Err() != nil {
				return summary, context.Err()
			}
			courseLogger.WarnContext(context, "course_skipped", slog.Any(constants.FieldError, err))
			summary.Failures = append(summary.Failures, Failure{Course: item.Name, Err: err})
			continue
		}

		// 3. Files of every week
		for _, week := range weeks {
			result, err := service.downloadWeek(context, item, week, selection.OutputRoot)
			if err != nil {
				if apperr.IsUnauthorized(err) {
					return summary, err
				}
				if context.Err() != nil {
					return summary, context.Err()
				}
				courseLogger.WarnContext(context, "week_skipped",
					slog.String(constants.FieldWeek, week.Name),
					slog.Any(constants.FieldError, err),
				)
				summary.Failures = append(summary.Failures, Failure{Course: item.Name, Week: week.Name, Err: err})
				continue
			}

			summary.Weeks = append(summary.Weeks, *result)
			printWeek(service.options.Out, *result)
		}
	}

	saved, skipped, failed := summary.Totals()
	logger.InfoContext(context, "run_finished",
		slog.Int("saved", saved),
		slog.Int("skipped", skipped),
		slog.Int("failed", failed),
	)
	return summary, nil
}

func (service *Service) selectWeeks(context context.Context, item course.Course, number int) ([]course.Week, error) {
	if number <= 0 {
		return service.resolver.ListWeeks(context, item.ID, nil)
	}

	week, err := service.resolver.GetWeek(context, item.ID, number)
	if err != nil {
		return nil, err
	}
	return []course.Week{*week}, nil
}

// # Week Download

// DownloadWeekFiles downloads every file of a week under
// outputRoot/Title(course)/Title(week) and returns the written paths in
// traversal order. Files that were not written are not listed.
func (service *Service) DownloadWeekFiles(context context.Context, item course.Course, week course.Week, outputRoot string) ([]string, error) {
	result, err := service.downloadWeek(context, item, week, outputRoot)
	if err != nil {
		return nil, err
	}
	return result.Saved, nil
}

// job is one material and its destination.
type job struct {
	material    course.Material
	destination string
}

func (service *Service) downloadWeek(context context.Context, item course.Course, week course.Week, outputRoot string) (*WeekResult, error) {
	logger := ctxutil.GetLogger(context).With(
		slog.String(constants.FieldCourse, item.Name),
		slog.String(constants.FieldWeek, week.Name),
	)
	context = ctxutil.WithLogger(context, logger)

	directory := filepath.Join(outputRoot, sanitize.Title(item.Name), sanitize.Title(week.Name))
	if err := service.files.EnsureDir(directory); err != nil {
		return nil, err
	}

	// 1. Enumerate sequentially, in section order then material order
	var jobs []job
	for _, section := range week.Sections {
		materials, err := service.resolver.ListMaterials(context, section.ID)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", section.Name, err)
		}
		for _, material := range materials {
			jobs = append(jobs, job{
				material:    material,
				destination: filepath.Join(directory, sanitize.Filename(material.Filename)),
			})
		}
	}

	// 2. Download on the bounded pool
	outcomes, err := service.runJobs(context, jobs)
	if err != nil {
		return nil, err
	}

	// 3. Aggregate in traversal order
	result := &WeekResult{Course: item.Name, Week: week.Name, Saved: []string{}}
	for i, outcome := range outcomes {
		switch outcome {
		case outcomeSaved:
			result.Saved = append(result.Saved, jobs[i].destination)
		case outcomeSkippedExisting:
			result.SkippedExisting++
		case outcomeUnavailable:
			result.Unavailable++
		default:
			result.Failed++
		}
	}

	logger.InfoContext(context, "week_downloaded",
		slog.Int("saved", len(result.Saved)),
		slog.Int("skipped_existing", result.SkippedExisting),
		slog.Int("unavailable", result.Unavailable),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

// runJobs downloads jobs concurrently and returns one outcome per job, by index.
//
// Jobs sharing a destination run one after another in traversal order, so the
// last one wins as it would sequentially. Only UNAUTHORIZED is returned as an
// error; it cancels the remaining jobs.
func (service *Service) runJobs(parent context.Context, jobs []job) ([]outcome, error) {
	outcomes := make([]outcome, len(jobs))

	// Group job indexes by destination, keeping first-seen order
	var order []string
	groups := make(map[string][]int)
	for i, current := range jobs {
		if _, seen := groups[current.destination]; !seen {
			order = append(order, current.destination)
		}
		groups[current.destination] = append(groups[current.destination], i)
	}

	group, context := errgroup.WithContext(parent)
	group.SetLimit(service.options.Workers)

	for _, destination := range order {
		indexes := groups[destination]
		group.Go(func() error {
			for _, index := range indexes {
				result, err := service.downloadOne(context, jobs[index])
				outcomes[index] = result
				if err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// downloadOne applies the existing-file policy and the retry budget to one job.
func (service *Service) downloadOne(context context.Context, current job) (outcome, error) {
	logger := ctxutil.GetLogger(context).With(slog.String(constants.FieldFile, current.material.Filename))

	if err := context.Err(); err != nil {
		return outcomeFailed, nil
	}

	// 1. Existing-file policy
	if service.options.Policy == download.PolicySkipExisting {
		exists, err := service.files.Exists(current.destination)
		if err != nil {
			logger.WarnContext(context, "file_failed", slog.Any(constants.FieldError, err))
			return outcomeFailed, nil
		}
		if exists {
			logger.DebugContext(context, "file_skipped", slog.String("reason", "exists"))
			return outcomeSkippedExisting, nil
		}
	}

	// 2. Download with retry on transient failures
	written, err := service.downloadWithRetry(context, logger, current)
	switch {
	case apperr.IsUnauthorized(err):
		return outcomeFailed, err
	case err != nil:
		logger.WarnContext(context, "file_failed", slog.Any(constants.FieldError, err))
		return outcomeFailed, nil
	case !written:
		logger.InfoContext(context, "file_skipped", slog.String("reason", "unavailable"))
		return outcomeUnavailable, nil
	default:
		return outcomeSaved, nil
	}
}

func (service *Service) downloadWithRetry(context context.Context, logger *slog.Logger, current job) (bool, error) {
	var lastErr error

	for attempt := 0; attempt <= service.options.Retries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(service.options.RetryBackoff):
			case <-context.Done():
				return false, context.Err()
			}

			logger.InfoContext(context, "file_retry", slog.Int("attempt", attempt+1))
		}

		written, err := service.downloader.DownloadFile(context,
			current.material.Filename, current.material.Version, current.destination)
		if err == nil {
			return written, nil
		}

		lastErr = err
		if !isTransient(err) || context.Err() != nil {
			return false, err
		}
	}

	return false, lastErr
}

// isTransient reports whether err is worth another attempt: a server-side
// API error or a transport failure that is not a cancellation.
func isTransient(err error) bool {
	if ae := apperr.As(err); ae != nil {
		return ae.Code == apperr.CodeAPI && ae.HTTPStatus >= 500
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var transportErr *url.Error
	return errors.As(err, &transportErr)
}
