// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package traversal

import (
	"fmt"
	"io"
)

// outcome is the result of one material.
type outcome int

const (
	outcomeSaved outcome = iota
	outcomeSkippedExisting
	outcomeUnavailable
	outcomeFailed
)

// WeekResult aggregates the materials of one week.
type WeekResult struct {
	Course string
	Week   string
	// Saved lists the written paths in traversal order.
	Saved []string
	// SkippedExisting counts files kept on disk by the skip policy.
	SkippedExisting int
	// Unavailable counts files without a link or with a rejected payload.
	Unavailable int
	// Failed counts files whose download returned an error.
	Failed int
}

// Failure records a branch of the traversal that could not be enumerated.
type Failure struct {
	Course string
	// Week is empty when the week list itself failed.
	Week string
	Err  error
}

// Summary is the result of [Service.Run].
type Summary struct {
	RunID    string
	Weeks    []WeekResult
	Failures []Failure
}

// Totals returns the saved, skipped and failed counts over all weeks.
// Skipped includes both existing and unavailable files.
func (summary *Summary) Totals() (saved, skipped, failed int) {
	for _, week := range summary.Weeks {
		saved += len(week.Saved)
		skipped += week.SkippedExisting + week.Unavailable
		failed += week.Failed
	}
	return saved, skipped, failed + len(summary.Failures)
}

// printWeek writes the human-readable line of a finished week.
func printWeek(out io.Writer, result WeekResult) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "[%s] %s: %d files saved\n", result.Course, result.Week, len(result.Saved))
}

// Print writes the final totals and the failed branches.
func (summary *Summary) Print(out io.Writer) {
	saved, skipped, failed := summary.Totals()
	fmt.Fprintf(out, "Done: %d saved, %d skipped, %d failed\n", saved, skipped, failed)

	for _, failure := range summary.Failures {
		if failure.Week == "" {
			fmt.Fprintf(out, "  [%s] not processed: %v\n", failure.Course, failure.Err)
			continue
		}
		fmt.Fprintf(out, "  [%s] %s not processed: %v\n", failure.Course, failure.Week, failure.Err)
	}
}
