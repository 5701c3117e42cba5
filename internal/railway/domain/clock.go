package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts a wall-clock string to minutes since midnight.
// It tolerates the formats found in historical train records: "H:MM",
// three-digit "HMM", four-digit "HHMM" and canonical "HH:MM". Anything
// else parses as 0 (midnight), never an error, so a corrupt time field
// cannot take a train out of the search results on its own.
func ParseClock(s string) int {
	normalized := s

	switch {
	case len(s) == 4 && s[1] == ':':
		normalized = "0" + s
	case len(s) == 3 && !strings.Contains(s, ":"):
		normalized = "0" + s[:1] + ":" + s[1:]
	case len(s) == 4 && !strings.Contains(s, ":"):
		normalized = s[:2] + ":" + s[2:]
	}

	if len(normalized) != 5 || normalized[2] != ':' {
		return 0
	}

	hours, err := strconv.Atoi(normalized[:2])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(normalized[3:])
	if err != nil {
		return 0
	}

	return hours*60 + minutes
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM",
// wrapping on the 24 hour boundary in both directions.
func FormatClock(totalMinutes int) string {
	totalMinutes %= minutesPerDay
	if totalMinutes < 0 {
		totalMinutes += minutesPerDay
	}

	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}
