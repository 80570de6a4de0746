// Package cli provides shared formatting helpers for CLI output.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color constants.
const (
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Red    = "\033[31m"
	Cyan   = "\033[36m"
	Dim    = "\033[2m"
	Bold   = "\033[1m"
	Reset  = "\033[0m"
)

// Section width for divider rules.
const sectionWidth = 42

// ShortenHome replaces $HOME prefix with ~.
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// FormatNumber adds comma separators (1234 -> "1,234").
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return FormatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}

// Section prints a section divider line: ── Name ─────────────────
func Section(name string) {
	prefix := "── " + name + " "
	remaining := sectionWidth - len([]rune(prefix))
	if remaining < 0 {
		remaining = 0
	}
	fmt.Printf("\n%s%s%s%s\n\n", Cyan, prefix, strings.Repeat("─", remaining), Reset)
}

// Warn prints a yellow warning line to stderr.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s! %s%s\n", Yellow, fmt.Sprintf(format, args...), Reset)
}

// Fail prints a red error line to stderr.
func Fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%sx %s%s\n", Red, fmt.Sprintf(format, args...), Reset)
}

// OK prints a green success line.
func OK(format string, args ...any) {
	fmt.Printf("%s+ %s%s\n", Green, fmt.Sprintf(format, args...), Reset)
}
