// Package testutil provides common testing utilities for UI components.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences so rendered output can be compared
// as plain text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// MeasureWidth returns the visual width of a string in cells.
func MeasureWidth(s string) int {
	return ansi.StringWidth(s)
}

// SplitLines strips escape sequences and splits output into lines,
// removing trailing empty lines.
func SplitLines(output string) []string {
	lines := strings.Split(StripANSI(output), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// FindLine returns the first plain line containing substr, or "".
func FindLine(output, substr string) string {
	for _, line := range SplitLines(output) {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// ColumnOf returns the cell column where substr starts in line, or -1.
func ColumnOf(line, substr string) int {
	i := strings.Index(line, substr)
	if i < 0 {
		return -1
	}
	return ansi.StringWidth(line[:i])
}
