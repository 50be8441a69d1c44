package habit

import (
	"math"
	"sort"
)

// Record is the in-memory projection of one habit document. It is rebuilt on
// every read; the backing document is the only durable form. Values are
// treated as immutable: mutations go through MarkDone, which returns a copy.
type Record struct {
	Path     string // opaque stable identifier (the backing document path)
	Title    string
	Trigger  string
	Schedule string
	History  []Day // deduped, ascending
	Count    *int  // explicit override of the completion total, if any
}

// DeriveCount returns the explicit count override when present, otherwise
// the number of distinct days in history.
func (r Record) DeriveCount() int {
	if r.Count != nil {
		return *r.Count
	}
	return len(dedupe(r.History))
}

// MarkDone returns a copy of r with day inserted into its history. Marking
// an already-done day is a no-op copy. The receiver is never mutated.
func (r Record) MarkDone(day Day) Record {
	out := r
	out.History = dedupe(append(append([]Day(nil), r.History...), day))
	if r.Count != nil {
		c := *r.Count
		out.Count = &c
	}
	return out
}

// IsDone reports whether day is present in the history.
func (r Record) IsDone(day Day) bool {
	for _, d := range r.History {
		if d == day {
			return true
		}
	}
	return false
}

// CurrentStreak counts the run of consecutive completed days ending at day,
// walking strictly backward. If day itself is not done the walk starts at
// the day before, so a habit not yet done today keeps yesterday's streak.
// Entries after day are never visited.
func (r Record) CurrentStreak(day Day) int {
	done := make(map[Day]bool, len(r.History))
	for _, d := range r.History {
		done[d] = true
	}

	cursor := day
	if !done[cursor] {
		cursor = cursor.Prev()
	}

	streak := 0
	for done[cursor] {
		streak++
		cursor = cursor.Prev()
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in the
// history, or 0 for an empty history.
func (r Record) LongestStreak() int {
	days := dedupe(r.History)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Next() == days[i] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// CompletionRate returns the percentage (rounded to the nearest whole
// number) of the windowDays calendar days ending at day, inclusive, that are
// present in the history. Returns 0 for a non-positive window.
func (r Record) CompletionRate(windowDays int, day Day) int {
	if windowDays <= 0 {
		return 0
	}

	done := make(map[Day]bool, len(r.History))
	for _, d := range r.History {
		done[d] = true
	}

	count := 0
	cursor := day
	for i := 0; i < windowDays; i++ {
		if done[cursor] {
			count++
		}
		cursor = cursor.Prev()
	}
	return int(math.Round(float64(count) / float64(windowDays) * 100))
}

// dedupe returns a sorted copy of days with duplicates removed.
func dedupe(days []Day) []Day {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[Day]bool, len(days))
	out := make([]Day, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
