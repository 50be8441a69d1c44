package habit

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-11-12")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2025-11-12" {
		t.Fatalf("unexpected day %q", d)
	}
}

func TestParseDayRejectsBadInput(t *testing.T) {
	bad := []string{
		"",
		"2025-11-12T10:00:00",
		"2025-11-12 extra",
		"2025-13-01",
		"2025-02-30",
		"2025-1-2",
		"12-11-2025",
		"not a date",
	}
	for _, s := range bad {
		if _, err := ParseDay(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDayOfIsZoneStable(t *testing.T) {
	// Midnight UTC on the 12th is still the 11th in UTC-5; the day must be
	// read from the value's own location, not the process's.
	utc := time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)
	if got := DayOf(utc); got != "2025-11-12" {
		t.Fatalf("expected 2025-11-12, got %s", got)
	}

	est := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2025, 11, 12, 23, 30, 0, 0, est)
	if got := DayOf(late); got != "2025-11-12" {
		t.Fatalf("expected 2025-11-12, got %s", got)
	}
}

func TestNextPrev(t *testing.T) {
	d := Day("2025-11-12")
	if d.Next() != "2025-11-13" || d.Prev() != "2025-11-11" {
		t.Fatalf("next/prev wrong: %s %s", d.Next(), d.Prev())
	}

	// Month and year boundaries.
	if Day("2025-11-30").Next() != "2025-12-01" {
		t.Fatal("month rollover failed")
	}
	if Day("2025-01-01").Prev() != "2024-12-31" {
		t.Fatal("year rollback failed")
	}
	// Leap day.
	if Day("2024-02-28").Next() != "2024-02-29" {
		t.Fatal("leap day failed")
	}
}

func TestBefore(t *testing.T) {
	if !Day("2025-11-11").Before("2025-11-12") {
		t.Fatal("expected before")
	}
	if Day("2025-11-12").Before("2025-11-12") {
		t.Fatal("day is not before itself")
	}
}

func TestValid(t *testing.T) {
	if !Day("2025-11-12").Valid() {
		t.Fatal("expected valid")
	}
	if Day("2025-11-12T00:00").Valid() {
		t.Fatal("expected invalid")
	}
}

func TestTodayIsValid(t *testing.T) {
	if !Today().Valid() {
		t.Fatalf("Today returned invalid day %q", Today())
	}
}
