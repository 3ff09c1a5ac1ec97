package main

import (
	"slices"
	"strings"
)

// sortNatural orders paths so that digit runs compare numerically:
// "ch2.md" sorts before "ch10.md".
func sortNatural(paths []string) {
	slices.SortStableFunc(paths, compareNatural)
}

// compareNatural compares a and b chunk by chunk. Digit runs compare by
// value, then by length so "01" sorts after "1"; other runs compare
// lexicographically.
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		ca, ra := nextChunk(a)
		cb, rb := nextChunk(b)
		if c := compareChunk(ca, cb); c != 0 {
			return c
		}
		a, b = ra, rb
	}
	return len(a) - len(b)
}

func compareChunk(a, b string) int {
	if isDigit(a[0]) && isDigit(b[0]) {
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			return len(ta) - len(tb)
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// nextChunk splits off the leading run of digits or non-digits.
func nextChunk(s string) (chunk, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
