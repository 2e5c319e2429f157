// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sanitize_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/sanitize"
)

/*
TestTitle verifies truncation, cleanup and the empty fallback for display names.
*/
func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"truncated_at_colon", "Неделя 3: Введение в теорию", "Неделя 3"},
		{"truncated_at_dot", "Week 1. Intro", "Week 1"},
		{"truncated_at_comma", "Алгебра, осень", "Алгебра"},
		{"earliest_delimiter_wins", "A: b. c, d", "A"},
		{"emoji_removed", "🚀 Python 🐍 basics", "Python basics"},
		{"reserved_replaced", `Go <advanced> "track"`, "Go advanced track"},
		{"slash_replaced", "Back/Front end", "Back Front end"},
		{"whitespace_collapsed", "  many \t  spaces  ", "many spaces"},
		{"empty", "", "untitled"},
		{"only_emoji", "🎉🎉", "untitled"},
		{"only_reserved", `***`, "untitled"},
		{"leading_delimiter", ".NET", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize.Title(tt.input))
		})
	}
}

/*
TestFilename verifies suffix preservation and stem cleanup for file names.
*/
func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "lecture.pdf", "lecture.pdf"},
		{"multi_suffix_kept", "report.final.pdf", "report.final.pdf"},
		{"archive_suffix", "data set.tar.gz", "data set.tar.gz"},
		{"reserved_collapsed", "bad/name*?.txt", "bad name .txt"},
		{"emoji_in_stem", "📚 notes.md", "notes.md"},
		{"no_suffix", "README", "README"},
		{"dotfile", ".bashrc", ".bashrc"},
		{"empty", "", "file"},
		{"empty_stem", "***.pdf", "file.pdf"},
		{"dots_only", "..", "file"},
		{"spaced_part_stays_in_stem", "Lecture 1. Intro.pdf", "Lecture 1. Intro.pdf"},
		{"reserved_part_stays_in_stem", "a.b?c.d", "a.b c.d"},
		{"control_chars", "tab\tand\x00nul.txt", "tab and nul.txt"},
		{"trailing_whitespace", ". .pdf ", "file.pdf"},
		{"trailing_reserved", "?. .b/", "file.b"},
		{"leading_whitespace_trimmed", "  .hidden", ".hidden"},
		{"combining_mark_after_emoji", "a🎉\u0301.pdf", "\u00e1.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize.Filename(tt.input))
		})
	}
}

/*
TestFilename_Idempotent checks that sanitizing twice changes nothing.
*/
func TestFilename_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"report.final.pdf",
		"bad/name*?.txt",
		"a.b?c.d",
		"a.😀.d",
		"  .hidden",
		"Lecture 1. Intro.pdf",
		"x. y",
		"name.",
		"..",
		". .",
		"🚀/🚀.tar.gz",
		"Семинар №2 <итог>.docx",
		"non breaking space.txt",
	}

	for _, input := range inputs {
		once := sanitize.Filename(input)
		assert.NotEmpty(t, once, "input %q", input)
		assert.Equal(t, once, sanitize.Filename(once), "input %q", input)
	}
}

/*
TestTitle_Idempotent checks that sanitizing a title twice changes nothing.
*/
func TestTitle_Idempotent(t *testing.T) {
	inputs := []string{"", "Неделя 3: Введение", "🚀 Go", `a\b`, "Week 10"}

	for _, input := range inputs {
		once := sanitize.Title(input)
		assert.Equal(t, once, sanitize.Title(once), "input %q", input)
	}
}

// nameAlphabet mixes the characters the sanitizer treats specially.
var nameAlphabet = []string{
	"a", "Z", "я", "漢", "1", ".", ".", " ", "\t", "\u00a0", "\u3000",
	"/", "\\", "*", "?", "\"", "<", ">", "|", "\x00", "\x1f",
	"🎉", "\u200d", "\ufe0f", "\u0301", "\u0308", "e", "pdf",
}

/*
TestFilename_IdempotentRandom runs the idempotence check on generated names.
*/
func TestFilename_IdempotentRandom(t *testing.T) {
	random := rand.New(rand.NewPCG(2026, 10))

	for range 20000 {
		var builder strings.Builder
		for range random.IntN(12) {
			builder.WriteString(nameAlphabet[random.IntN(len(nameAlphabet))])
		}
		input := builder.String()

		once := sanitize.Filename(input)
		if !assert.Equal(t, once, sanitize.Filename(once), "input %q", input) {
			return
		}
		assert.NotEmpty(t, once, "input %q", input)
	}
}
