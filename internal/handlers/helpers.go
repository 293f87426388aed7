package handlers

import (
	"strconv"
	"time"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// parseDate accepts the two date encodings the admin console sends: full
// RFC3339 timestamps and bare calendar dates.
func parseDate(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
