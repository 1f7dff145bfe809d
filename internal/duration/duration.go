// Package duration provides parsing for human-readable day spans.
package duration

import (
	"fmt"
	"strconv"
)

// Days parses a day-granular span like "365", "90d", "12w", "6mo" or
// "1y" into a whole number of days.
func Days(s string) (int, error) {
	// A bare integer is already a day count.
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, fmt.Errorf("invalid day span: %s (use e.g., 365, 90d, 6mo, 1y)", s)
	}

	switch unit {
	case "d", "day", "days":
		return n, nil
	case "w", "wk", "wks", "week", "weeks":
		return n * 7, nil
	case "mo", "month", "months":
		return n * 30, nil
	case "y", "yr", "yrs", "year", "years":
		return n * 365, nil
	}
	return 0, fmt.Errorf("unknown day span unit: %s", unit)
}
