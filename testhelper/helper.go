// Package testhelper holds small utilities shared by package tests.
package testhelper

import (
	"strings"
	"testing"
)

// TrimIndent strips the indentation of a raw string literal so that
// multi-line expectations can be written inline. The first line (the one
// right after the opening backquote) is dropped, the indentation of the
// second line is removed from every line, and a trailing line holding
// only indentation is dropped too.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	lines = lines[1:]
	indent := lines[0][:len(lines[0])-len(strings.TrimLeft(lines[0], " \t"))]

	if last := lines[len(lines)-1]; strings.TrimLeft(last, " \t") == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}

	return strings.Join(lines, "\n")
}
