package store

import (
	"sort"
	"time"

	"github.com/sadopc/streakr/internal/habit"
)

// NormalizeHistory turns the loosely typed history values a header may carry
// into a clean, deduplicated, ascending list of calendar days.
//
// YAML hands back unquoted dates as time.Time; those contribute the calendar
// day of the stored instant as-is, without converting to the local zone, so
// a habit logged from another timezone does not shift by a day. Strings keep
// only their leading YYYY-MM-DD prefix. Anything that still fails the strict
// day grammar is dropped, not passed through.
func NormalizeHistory(raw []any) []habit.Day {
	var out []habit.Day
	for _, v := range raw {
		var s string
		switch t := v.(type) {
		case time.Time:
			out = append(out, habit.DayOf(t))
			continue
		case habit.Day:
			s = string(t)
		case string:
			s = t
		default:
			continue
		}
		if len(s) > 10 {
			s = s[:10]
		}
		if d, err := habit.ParseDay(s); err == nil {
			out = append(out, d)
		}
	}

	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:1]
	for _, d := range out[1:] {
		if d != dedup[len(dedup)-1] {
			dedup = append(dedup, d)
		}
	}
	return dedup
}
