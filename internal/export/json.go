package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/streakr/internal/habit"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Day        string      `json:"day"`
	Count      int         `json:"count"`
	Habits     []jsonHabit `json:"habits"`
}

type jsonHabit struct {
	Path          string   `json:"path"`
	Title         string   `json:"title"`
	Trigger       string   `json:"trigger,omitempty"`
	Schedule      string   `json:"schedule,omitempty"`
	Count         int      `json:"count"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	Rate30        int      `json:"rate_30d"`
	LastDone      string   `json:"last_done,omitempty"`
	History       []string `json:"history,omitempty"`
}

func ToJSON(recs []habit.Record, today habit.Day, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Day:        string(today),
		Count:      len(recs),
	}

	for _, r := range recs {
		history := make([]string, 0, len(r.History))
		for _, d := range r.History {
			history = append(history, string(d))
		}

		export.Habits = append(export.Habits, jsonHabit{
			Path:          r.Path,
			Title:         r.Title,
			Trigger:       r.Trigger,
			Schedule:      r.Schedule,
			Count:         r.DeriveCount(),
			CurrentStreak: r.CurrentStreak(today),
			LongestStreak: r.LongestStreak(),
			Rate30:        r.CompletionRate(rateWindow, today),
			LastDone:      string(lastDone(r)),
			History:       history,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
