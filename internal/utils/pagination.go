// Package utils holds small helpers shared across layers, mainly for
// parsing and bounding the pagination query parameters of the menu history
// endpoint.
package utils

import "strconv"

// AtoiDefault parses s as an integer, falling back to def when s is empty
// or not a plain base-10 number. Query parameters like ?page=abc therefore
// degrade to the caller's default instead of erroring.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampInt bounds n to the inclusive [lo, hi] range.
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
