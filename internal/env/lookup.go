package env

import (
	"strconv"
	"time"
)

// GetOrDefault retrieves an environment variable with a default value
func GetOrDefault(key, defaultValue string) string {
	if value, ok := Get(key); ok {
		return value
	}
	return defaultValue
}

// GetDuration parses a duration such as "30s" or "500ms". A bare integer is
// read as milliseconds. Unset or invalid values yield defaultValue and ok=false.
func GetDuration(key string, defaultValue time.Duration) (time.Duration, bool) {
	raw, ok := Get(key)
	if !ok {
		return defaultValue, false
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, false
	}
	return d, true
}

// GetBool parses a boolean ("1", "true", "yes", "on" and their negatives).
func GetBool(key string, defaultValue bool) bool {
	raw, ok := Get(key)
	if !ok {
		return defaultValue
	}
	switch raw {
	case "yes", "on", "Y", "y":
		return true
	case "no", "off", "N", "n":
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}
