package ui

import "strings"

// renderCaret places a caret under the commanded target on a bar of the
// given width.
func renderCaret(target float64, n, width int) string {
	if width < 1 {
		width = 1
	}
	at := int(ratio(target, n) * float64(width-1))
	return strings.Repeat(" ", at) + "^"
}

func barWidth(termWidth int) int {
	w := termWidth - 20
	if w < 20 {
		w = 20
	}
	if w > 80 {
		w = 80
	}
	return w
}

func ratio(v float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	r := v / float64(n)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
