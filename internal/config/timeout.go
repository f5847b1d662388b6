package config

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimeout = errors.New("invalid timeout syntax")

const defaultTimeoutSeconds = 10

// ParseTimeout accepts decimal digits followed by a literal "s" naming at
// least one second. Anything else, "0s" included, yields the 10s default
// together with ErrInvalidTimeout, so the caller can warn and carry on.
func ParseTimeout(s string) (time.Duration, error) {
	fallback := defaultTimeoutSeconds * time.Second
	digits, ok := strings.CutSuffix(s, "s")
	if !ok || digits == "" {
		return fallback, ErrInvalidTimeout
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fallback, ErrInvalidTimeout
		}
	}
	secs, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || secs == 0 || secs > math.MaxInt64/uint64(time.Second) {
		return fallback, ErrInvalidTimeout
	}
	return time.Duration(secs) * time.Second, nil
}
