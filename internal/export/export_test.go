package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/streakr/internal/habit"
)

const today = habit.Day("2025-11-12")

func sampleHabits() []habit.Record {
	return []habit.Record{
		{
			Path:    "Habits/run.md",
			Title:   "Morning run",
			Trigger: "after coffee",
			History: []habit.Day{"2025-11-10", "2025-11-11", "2025-11-12"},
		},
		{
			Path:     "Habits/read.md",
			Title:    "Read",
			Schedule: "daily",
			History:  []habit.Day{"2025-11-01"},
		},
		{
			Path:  "Habits/new.md",
			Title: "Brand new",
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(sampleHabits(), today, path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	// Check header
	header := records[0]
	expectedHeader := []string{"Path", "Title", "Trigger", "Schedule", "Count", "Current Streak", "Longest Streak", "Rate (30d)", "Last Done"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	// Check first data row
	row := records[1]
	if row[0] != "Habits/run.md" {
		t.Fatalf("Path = %q", row[0])
	}
	if row[1] != "Morning run" {
		t.Fatalf("Title = %q", row[1])
	}
	if row[4] != "3" {
		t.Fatalf("Count = %q, want 3", row[4])
	}
	if row[5] != "3" {
		t.Fatalf("Current Streak = %q, want 3", row[5])
	}
	if row[6] != "3" {
		t.Fatalf("Longest Streak = %q, want 3", row[6])
	}
	if row[7] != "10%" {
		t.Fatalf("Rate = %q, want 10%%", row[7])
	}
	if row[8] != "2025-11-12" {
		t.Fatalf("Last Done = %q", row[8])
	}

	// A fresh habit has no last-done day
	if records[3][8] != "" {
		t.Fatalf("fresh habit should have empty last done, got %q", records[3][8])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, today, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, today, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	recs := []habit.Record{
		{
			Path:    "Habits/odd.md",
			Title:   `Habit with "quotes" and, commas`,
			History: []habit.Day{"2025-11-12"},
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	err := ToCSV(recs, today, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Habit with "quotes" and, commas` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	err := ToJSON(sampleHabits(), today, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if result.Day != "2025-11-12" {
		t.Fatalf("day = %q", result.Day)
	}
	if len(result.Habits) != 3 {
		t.Fatalf("habits = %d, want 3", len(result.Habits))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	// Check first habit
	h := result.Habits[0]
	if h.Title != "Morning run" {
		t.Fatalf("Title = %q", h.Title)
	}
	if h.Count != 3 || h.CurrentStreak != 3 || h.LongestStreak != 3 {
		t.Fatalf("stats = %d/%d/%d, want 3/3/3", h.Count, h.CurrentStreak, h.LongestStreak)
	}
	if h.LastDone != "2025-11-12" {
		t.Fatalf("LastDone = %q", h.LastDone)
	}
	if len(h.History) != 3 {
		t.Fatalf("history = %v", h.History)
	}

	// A fresh habit has empty stats and no history
	fresh := result.Habits[2]
	if fresh.Count != 0 || fresh.CurrentStreak != 0 || fresh.LastDone != "" || fresh.History != nil {
		t.Fatalf("fresh habit not zeroed: %+v", fresh)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	err := ToJSON(nil, today, path)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Habits != nil {
		t.Fatal("habits should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, today, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, today, path)

	data, _ := os.ReadFile(path)
	// Pretty-printed JSON should contain newlines and indentation
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(sampleHabits(), today, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	_, err := time.Parse(time.RFC3339, result.ExportedAt)
	if err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

// ============================================================
// lastDone (internal helper)
// ============================================================

func TestLastDone(t *testing.T) {
	tests := []struct {
		history []habit.Day
		want    habit.Day
	}{
		{nil, ""},
		{[]habit.Day{"2025-11-12"}, "2025-11-12"},
		{[]habit.Day{"2025-11-12", "2025-01-01", "2025-06-30"}, "2025-11-12"},
	}

	for _, tt := range tests {
		got := lastDone(habit.Record{History: tt.history})
		if got != tt.want {
			t.Errorf("lastDone(%v) = %q, want %q", tt.history, got, tt.want)
		}
	}
}
