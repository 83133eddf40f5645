// ABOUTME: Plain-text formatting for CLI progress output
// ABOUTME: Renders progress bars, method labels and elapsed time without a TUI

package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vidgrab/workflow"
)

const progressBarWidth = 30

// FormatProgressBar renders percent (0..100) as a fixed-width bar like [#####-----]
func FormatProgressBar(percent float64, width int) string {
	if width <= 0 {
		return "[]"
	}

	if math.IsNaN(percent) {
		percent = 0
	}

	percent = min(max(percent, 0), 100)
	filled := int(math.Round(percent / 100 * float64(width)))

	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// FormatProgressLine renders one status line for a progress report
func FormatProgressLine(p workflow.Progress, totalMethods int) string {
	return fmt.Sprintf("%s %5.1f%%  %s (method %d/%d)",
		FormatProgressBar(p.Value, progressBarWidth), p.Value, p.Method, p.MethodIndex+1, totalMethods)
}

// formatElapsed formats a duration right-padded to 6 chars (max "59m59s")
func formatElapsed(d time.Duration) string {
	var s string
	if d >= time.Minute {
		s = fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		s = fmt.Sprintf("%ds", int(d.Seconds()))
	}

	return fmt.Sprintf("%6s", s)
}

// formatPercent renders a ratio as a percentage, "-" when the denominator is zero
func formatPercent(n, d int) string {
	if d == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f%%", float64(n)/float64(d)*100)
}
