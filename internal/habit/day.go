package habit

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form, with no time or zone component.
type Day string

// ParseDay parses a strict YYYY-MM-DD string. Anything else (shortened
// fields, trailing time, garbage) is rejected.
func ParseDay(s string) (Day, error) {
	if len(s) != len(dayLayout) {
		return "", fmt.Errorf("invalid day %q", s)
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q", s)
	}
	// time.Parse tolerates non-padded fields; round-tripping catches those.
	if t.Format(dayLayout) != s {
		return "", fmt.Errorf("invalid day %q", s)
	}
	return Day(s), nil
}

// DayOf extracts the calendar day of t as represented in t's own location.
// It deliberately does not convert to the local zone, so a date stored as
// midnight UTC stays on the same calendar day regardless of where the
// process runs.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Today returns the current calendar day in the local zone.
func Today() Day {
	return DayOf(time.Now())
}

func (d Day) String() string { return string(d) }

// Valid reports whether d holds a well-formed calendar day.
func (d Day) Valid() bool {
	_, err := ParseDay(string(d))
	return err == nil
}

// Time returns the day as midnight UTC. Zero time for invalid days.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Next returns the following calendar day.
func (d Day) Next() Day { return DayOf(d.Time().AddDate(0, 0, 1)) }

// Prev returns the preceding calendar day.
func (d Day) Prev() Day { return DayOf(d.Time().AddDate(0, 0, -1)) }

// Before reports whether d is earlier than other. The YYYY-MM-DD form sorts
// lexically, so plain string comparison is correct.
func (d Day) Before(other Day) bool { return d < other }
