package profile

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is how expiration dates appear in verdict lines.
const DateLayout = "2006-01-02 15:04:05"

// ReferenceClock supplies the instant expiration dates are compared against.
// It is read once per file and never changes during a run.
type ReferenceClock func() time.Time

// FixedClock always reports t.
func FixedClock(t time.Time) ReferenceClock {
	return func() time.Time { return t }
}

// SystemClock reports the current time.
func SystemClock() ReferenceClock {
	return time.Now
}

// ParseReferenceDate accepts "", a calendar date (YYYY-MM-DD), a date-time
// (YYYY-MM-DD HH:MM:SS) or RFC 3339. Zone-less values are taken as UTC,
// the zone plist dates decode into. Empty input yields the zero time.
func ParseReferenceDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, DateLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reference date %q (want YYYY-MM-DD or RFC 3339)", raw)
}

// ClockFromConfig returns a fixed clock when a reference date is configured,
// otherwise the system clock.
func ClockFromConfig(cfg Config) (ReferenceClock, error) {
	t, err := ParseReferenceDate(cfg.ReferenceDate)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return SystemClock(), nil
	}
	return FixedClock(t), nil
}
