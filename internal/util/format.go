package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatPosition formats a chain position against its length, e.g. "2.50 / 47".
func FormatPosition(x float64, n int) string {
	return fmt.Sprintf("%.2f / %d", x, n)
}

// FormatTicks formats a tick count at fps as elapsed time, e.g. "0.72s".
func FormatTicks(ticks, fps int) string {
	if fps <= 0 {
		fps = 60
	}
	if ticks < 0 {
		ticks = 0
	}
	d := time.Duration(ticks) * time.Second / time.Duration(fps)
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// Indent prefixes every non-empty line of s.
func Indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
