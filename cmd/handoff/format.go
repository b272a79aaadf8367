package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// formatAge renders the time since t as "Ns ago", "Nm ago", "Nh ago" or
// "Nd ago".
func formatAge(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}

// formatPreview flattens content onto one line and truncates it to maxLen
// characters.
func formatPreview(content string, maxLen int) string {
	preview := strings.ReplaceAll(content, "\n", "␤")
	preview = strings.ReplaceAll(preview, "\r", "")

	if utf8.RuneCountInString(preview) > maxLen {
		runes := []rune(preview)
		preview = string(runes[:maxLen-3]) + "..."
	}
	return preview
}

// pad left-aligns s in a column of width characters, cutting it if longer.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
