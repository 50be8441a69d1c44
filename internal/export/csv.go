package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/streakr/internal/habit"
)

const rateWindow = 30

func ToCSV(recs []habit.Record, today habit.Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{"Path", "Title", "Trigger", "Schedule", "Count", "Current Streak", "Longest Streak", "Rate (30d)", "Last Done"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range recs {
		row := []string{
			r.Path,
			r.Title,
			r.Trigger,
			r.Schedule,
			fmt.Sprintf("%d", r.DeriveCount()),
			fmt.Sprintf("%d", r.CurrentStreak(today)),
			fmt.Sprintf("%d", r.LongestStreak()),
			fmt.Sprintf("%d%%", r.CompletionRate(rateWindow, today)),
			string(lastDone(r)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// lastDone returns the most recent history entry, or "" for a fresh habit.
func lastDone(r habit.Record) habit.Day {
	var last habit.Day
	for _, d := range r.History {
		if d > last {
			last = d
		}
	}
	return last
}
