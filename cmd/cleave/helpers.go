package main

import (
	"fmt"
	"math"
	"time"
)

// formatTimestamp renders a position in seconds as h:mm:ss.s for tables.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	fraction := seconds - float64(whole)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := float64(whole%60) + fraction
	return fmt.Sprintf("%d:%02d:%04.1f", hours, minutes, secs)
}

// formatOffset renders a signed deviation like +4.2s or -1.5s.
func formatOffset(seconds float64) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%.1fs", sign, math.Abs(seconds))
}

func formatDurationSeconds(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

func formatClock(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04:05")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
