package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDurationHours converts a stored job duration into fractional hours.
// Three historical formats exist in the data: Go-style ("2h30m"), decimal
// hours ("2.5"), and clock-style ("2:30").
func ParseDurationHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("billing: empty duration")
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		hours, err := strconv.Atoi(parts[0])
		if err != nil || hours < 0 {
			return 0, fmt.Errorf("billing: bad duration %q", s)
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("billing: bad duration %q", s)
		}
		return float64(hours) + float64(minutes)/60, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("billing: non-positive duration %q", s)
		}
		return d.Hours(), nil
	}

	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		if hours <= 0 {
			return 0, fmt.Errorf("billing: non-positive duration %q", s)
		}
		return hours, nil
	}

	return 0, fmt.Errorf("billing: bad duration %q", s)
}
