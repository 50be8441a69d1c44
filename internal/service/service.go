// Package service ties the habit store to the vault and carries the
// application-level operations the UI calls: listing habits, marking one
// done, and creating new ones.
package service

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sadopc/streakr/internal/config"
	"github.com/sadopc/streakr/internal/habit"
	"github.com/sadopc/streakr/internal/store"
)

// ErrEmptyTitle is returned when creating a habit without a title.
var ErrEmptyTitle = errors.New("habit title is empty")

// Service exposes the habit operations. All methods re-read the vault so
// external edits are picked up without any cache coordination.
type Service struct {
	store *store.Store
	vault store.Vault
	cfg   *config.Config

	// Warnf receives non-fatal problems, like a daily log append that
	// failed. Nil means warnings are dropped.
	Warnf func(format string, args ...any)
}

func New(st *store.Store, v store.Vault, cfg *config.Config) *Service {
	return &Service{store: st, vault: v, cfg: cfg}
}

// List scans the vault and returns all habit records sorted by title.
func (s *Service) List() ([]habit.Record, error) {
	recs, err := s.store.DiscoverHabits()
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Title != recs[j].Title {
			return recs[i].Title < recs[j].Title
		}
		return recs[i].Path < recs[j].Path
	})
	return recs, nil
}

// Increment marks the habit done for day and persists it. Marking a day
// that is already done is a no-op and touches nothing on disk. The daily
// log append is best effort: a failure there is reported through Warnf and
// never fails the increment.
func (s *Service) Increment(rec habit.Record, day habit.Day) (habit.Record, error) {
	if rec.IsDone(day) {
		return rec, nil
	}

	updated := rec.MarkDone(day)
	if err := s.store.WriteHabit(updated); err != nil {
		return rec, err
	}

	if s.cfg.DailyLog {
		if err := s.appendDailyLog(updated.Title, day); err != nil {
			s.warnf("daily log: %v", err)
		}
	}
	return updated, nil
}

// Create makes a new habit document. An empty path derives one from the
// title under the Habits folder.
func (s *Service) Create(p, title, trigger, schedule string) (habit.Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return habit.Record{}, ErrEmptyTitle
	}
	if p == "" {
		p = path.Join("Habits", slug(title)+".md")
	}

	rec := habit.Record{
		Path:     p,
		Title:    title,
		Trigger:  strings.TrimSpace(trigger),
		Schedule: strings.TrimSpace(schedule),
	}
	if err := s.store.CreateHabit(p, rec); err != nil {
		return habit.Record{}, err
	}
	return rec, nil
}

// appendDailyLog adds a checklist line for the habit to the day's log
// document, creating the folder and document on first use. Lines already
// present are not duplicated.
func (s *Service) appendDailyLog(title string, day habit.Day) error {
	line := "- [x] " + title + "\n"
	p := path.Join(s.cfg.LogFolder, string(day)+".md")

	text, err := s.vault.ReadDocument(p)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.vault.CreateFolder(s.cfg.LogFolder); err != nil {
			return err
		}
		return s.vault.CreateDocument(p, "# "+string(day)+"\n\n"+line)
	}
	if err != nil {
		return err
	}

	if strings.Contains(text, line) {
		return nil
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return s.vault.WriteDocument(p, text+line)
}

func (s *Service) warnf(format string, args ...any) {
	if s.Warnf != nil {
		s.Warnf(format, args...)
	}
}

// slug lowercases the title and squashes everything that is not a letter
// or digit into single dashes.
func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		out = fmt.Sprintf("habit-%d", len(title))
	}
	return out
}
