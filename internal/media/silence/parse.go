package silence

import (
	"strconv"
	"strings"
)

// ParseIntervals extracts silence intervals from silencedetect log output.
// The filter emits pairs of lines:
//
//	[silencedetect @ 0x...] silence_start: 1795.02
//	[silencedetect @ 0x...] silence_end: 1802.1 | silence_duration: 7.08
//
// Unparseable lines are skipped; an end without a matching start is ignored.
func ParseIntervals(output string, minDurationSec float64) []Interval {
	var intervals []Interval
	pendingStart := 0.0
	havePending := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if value, ok := fieldAfter(line, "silence_start:"); ok {
			if start, err := strconv.ParseFloat(value, 64); err == nil {
				pendingStart = start
				havePending = true
			}
			continue
		}

		value, ok := fieldAfter(line, "silence_end:")
		if !ok || !havePending {
			continue
		}
		end, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}

		duration := end - pendingStart
		if reported, ok := fieldAfter(line, "silence_duration:"); ok {
			if parsed, err := strconv.ParseFloat(reported, 64); err == nil {
				duration = parsed
			}
		}

		if duration >= minDurationSec && end >= pendingStart {
			intervals = append(intervals, Interval{Start: pendingStart, End: end, Duration: duration})
		}
		havePending = false
	}

	return intervals
}

// fieldAfter returns the first whitespace-or-pipe-delimited token following
// the marker in line.
func fieldAfter(line, marker string) (string, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimSpace(line[idx+len(marker):])
	if rest == "" {
		return "", false
	}
	if cut := strings.IndexAny(rest, " |\t"); cut >= 0 {
		rest = rest[:cut]
	}
	return rest, rest != ""
}
