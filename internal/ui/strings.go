package ui

import (
	"fmt"
	"strings"
)

// truncate shortens a string to the given limit, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if width <= 0 || n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// plural formats a count with a noun, adding "s" unless n is one.
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// hostOf strips the scheme from an API base URL for display.
func hostOf(apiURL string) string {
	if i := strings.Index(apiURL, "://"); i >= 0 {
		apiURL = apiURL[i+3:]
	}
	return strings.TrimSuffix(apiURL, "/")
}
