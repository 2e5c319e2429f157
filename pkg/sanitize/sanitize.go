// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize turns arbitrary LMS titles and file names into safe
// filesystem path segments.
//
// # Usage
//
// Course and week names become directory names through [Title]; material
// file names become leaf names through [Filename]. Both are total: any input,
// including the empty string, yields a non-empty segment.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// FallbackTitle replaces a title that sanitizes to nothing.
	FallbackTitle = "untitled"
	// FallbackStem replaces a file stem that sanitizes to nothing.
	FallbackStem = "file"

	// titleDelimiters cut a display name; everything after the first one is descriptive text.
	titleDelimiters = ".,:"
	// reservedChars are rejected by at least one mainstream filesystem.
	reservedChars = `\/*?"<>|`
)

var (
	// reservedRun matches runs of reserved or control characters.
	reservedRun = regexp.MustCompile(`[\\/*?"<>|\p{Cc}]+`)
	// whitespaceRun collapses any whitespace sequence into a single space.
	whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)
)

// pictographs lists the emoji and pictograph code points removed from names.
var pictographs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1}, // zero width joiner
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23fa, Stride: 1},
		{Lo: 0x24c2, Hi: 0x24c2, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1}, // misc symbols, dingbats
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
		{Lo: 0xfe0e, Hi: 0xfe0f, Stride: 1}, // variation selectors
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1}, // emoticons, flags, transport, supplemental
		{Lo: 0xe0020, Hi: 0xe007f, Stride: 1}, // tag sequences
	},
}

// Title converts a course or week display name into a directory name.
//
// # Transformation Pipeline
//
// 1. Drops pictographs and normalizes to NFC.
// 2. Truncates at the first '.', ',' or ':'.
// 3. Replaces reserved characters with spaces and collapses whitespace.
func Title(raw string) string {
	text := strings.TrimSpace(clean(raw))

	if cut := strings.IndexAny(text, titleDelimiters); cut >= 0 {
		text = text[:cut]
	}

	if result := collapse(text); result != "" {
		return result
	}
	return FallbackTitle
}

// Filename converts a material file name into a leaf file name.
//
// The extension suffix (possibly multi-part, e.g. ".tar.gz") is kept as is,
// only the stem is cleaned. The suffix is chosen on the squeezed name, so a
// second pass sees the same split.
func Filename(raw string) string {
	name := strings.TrimRight(squeeze(strings.TrimSpace(clean(raw))), " ")
	stem, suffix := splitSuffix(name)

	stem = strings.TrimLeft(stem, " ")
	if strings.Trim(stem, ". ") == "" {
		stem = FallbackStem
	}

	return stem + suffix
}

// clean removes pictographs and normalizes the rest to NFC.
func clean(text string) string {
	chain := transform.Chain(runes.Remove(runes.In(pictographs)), norm.NFC)
	result, _, err := transform.String(chain, text)
	if err != nil {
		return text
	}
	return result
}

// collapse squeezes text and trims it.
func collapse(text string) string {
	return strings.TrimSpace(squeeze(text))
}

// squeeze turns runs of reserved characters and whitespace into single spaces.
func squeeze(text string) string {
	text = reservedRun.ReplaceAllString(text, " ")
	return whitespaceRun.ReplaceAllString(text, " ")
}

// splitSuffix separates the trailing dot-suffixes from the stem.
//
// Leading dots belong to the stem (".bashrc" has no suffix). A component only
// counts as suffix when it is non-empty and free of whitespace and reserved
// characters. Scanning stops at the first one that is not.
func splitSuffix(name string) (stem, suffix string) {
	body := strings.TrimLeft(name, ".")
	lead := name[:len(name)-len(body)]

	parts := strings.Split(body, ".")
	cut := len(parts)
	for cut > 1 && isSuffixPart(parts[cut-1]) {
		cut--
	}

	stem = lead + strings.Join(parts[:cut], ".")
	if cut < len(parts) {
		suffix = "." + strings.Join(parts[cut:], ".")
	}
	return stem, suffix
}

func isSuffixPart(part string) bool {
	if part == "" {
		return false
	}
	return !strings.ContainsFunc(part, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(reservedChars, r)
	})
}
