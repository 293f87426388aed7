package repository

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// The collections predate any schema enforcement: the same field can hold a
// native timestamp, an ISO string, or an epoch number depending on which
// client wrote the document. All reads go through the helpers below so the
// rest of the codebase only ever sees one canonical shape.

func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func IsAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

func pairDocID(coachID, playerID string) string {
	return coachID + "_" + playerID
}

func strField(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := data[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func strPtrField(data map[string]any, key string) *string {
	if value, ok := data[key].(string); ok && value != "" {
		return &value
	}
	return nil
}

func boolField(data map[string]any, key string) bool {
	value, _ := data[key].(bool)
	return value
}

func intField(data map[string]any, key string) int {
	switch value := data[key].(type) {
	case int64:
		return int(value)
	case int:
		return value
	case float64:
		return int(value)
	default:
		return 0
	}
}

func floatField(data map[string]any, key string) float64 {
	switch value := data[key].(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	case int:
		return float64(value)
	default:
		return 0
	}
}

func timeField(data map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		if ts := asTime(data[key]); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

// asTime normalizes the three timestamp encodings found in the store: native
// timestamps, ISO-8601/date-only strings, and Unix epoch numbers. Anything
// unparseable decodes to the zero time and is excluded from date-based
// rollups instead of failing them.
func asTime(value any) time.Time {
	switch ts := value.(type) {
	case time.Time:
		return ts
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, ts); err == nil {
				return parsed
			}
		}
		return time.Time{}
	case int64:
		return epochTime(ts)
	case float64:
		return epochTime(int64(ts))
	default:
		return time.Time{}
	}
}

func epochTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	// Values past the year ~33000 in seconds are millisecond epochs.
	if value > 1e12 {
		return time.UnixMilli(value).UTC()
	}
	return time.Unix(value, 0).UTC()
}

func stringSliceField(data map[string]any, key string) []string {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if value, ok := item.(string); ok {
			values = append(values, value)
		}
	}
	return values
}
