// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package split parses comma-separated command-line values.
package split

import (
	"fmt"
	"strconv"
	"strings"
)

// Strings splits a comma-separated value into a trimmed slice of strings.
// Empty entries are dropped.
func Strings(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Ints parses a comma-separated list of integers.
//
// Unlike [Strings] it is strict: any malformed entry fails the whole value.
func Ints(val string) ([]int, error) {
	parts := Strings(val)
	res := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("split: %q is not an integer", part)
		}
		res = append(res, n)
	}
	return res, nil
}
