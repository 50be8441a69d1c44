package store

import (
	"errors"
	"fmt"
	"path"

	"github.com/sadopc/streakr/internal/habit"
)

var (
	// ErrNotFound is returned when a backing document is missing at write time.
	ErrNotFound = errors.New("document not found")
	// ErrExists is returned when creating a document that already exists.
	ErrExists = errors.New("document already exists")
)

// Vault is the host capability surface the store consumes: a flat index of
// text documents addressed by slash-separated relative paths. Implementations
// must return ErrNotFound / ErrExists for the corresponding conditions.
type Vault interface {
	ListDocuments() ([]string, error)
	ReadDocument(path string) (string, error)
	WriteDocument(path, text string) error
	CreateDocument(path, text string) error
	CreateFolder(path string) error
	// ParsedHeader returns the cached header map for a document, or nil if
	// the document has no parseable header. The cache may be stale.
	ParsedHeader(path string) map[string]any
}

// Config carries the store's explicit settings. Passed in rather than read
// from ambient state.
type Config struct {
	// FlagField is the header field marking a document as a habit.
	FlagField string
	// DeriveCount drops any stored count override so totals always come
	// from the history itself.
	DeriveCount bool
}

const defaultFlagField = "habit"

// Store translates between durable documents and habit records.
type Store struct {
	vault Vault
	cfg   Config
}

func New(v Vault, cfg Config) *Store {
	if cfg.FlagField == "" {
		cfg.FlagField = defaultFlagField
	}
	return &Store{vault: v, cfg: cfg}
}

// DiscoverHabits scans every document in the vault and returns a record for
// each one whose header flags it as a habit. Unreadable or malformed
// documents are skipped; a bad document never aborts the scan.
func (s *Store) DiscoverHabits() ([]habit.Record, error) {
	paths, err := s.vault.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var out []habit.Record
	for _, p := range paths {
		if !flagged(s.vault.ParsedHeader(p), s.cfg.FlagField) {
			continue
		}
		text, err := s.vault.ReadDocument(p)
		if err != nil {
			continue
		}
		rec, err := parseRecord(p, text, s.cfg)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// flagged reports whether the header marks a habit: the flag field must be
// boolean true or the string "true".
func flagged(header map[string]any, field string) bool {
	if header == nil {
		return false
	}
	switch v := header[field].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// WriteHabit merges rec back into its backing document. The current text is
// re-read and its header re-parsed immediately before the merge so fields
// owned by other tools survive; the body is reattached byte for byte.
//
// The read-modify-write is not atomic: two concurrent writes to the same
// record can lose one update. Callers are expected to serialize writes per
// record (the TUI runs them all on one update loop).
func (s *Store) WriteHabit(rec habit.Record) error {
	text, err := s.vault.ReadDocument(rec.Path)
	if err != nil {
		return fmt.Errorf("write habit %s: %w", rec.Path, err)
	}

	mapping, body := headerNode(text)
	overlayRecord(mapping, rec, s.cfg.FlagField)

	out, err := renderDocument(mapping, body)
	if err != nil {
		return fmt.Errorf("write habit %s: %w", rec.Path, err)
	}
	if err := s.vault.WriteDocument(rec.Path, out); err != nil {
		return fmt.Errorf("write habit %s: %w", rec.Path, err)
	}
	return nil
}

// CreateHabit creates a new habit document at p, making intermediate folders
// as needed. Fails with ErrExists if the target already exists.
func (s *Store) CreateHabit(p string, rec habit.Record) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := s.vault.CreateFolder(dir); err != nil {
			return fmt.Errorf("create habit %s: %w", p, err)
		}
	}

	mapping := newMappingNode()
	overlayRecord(mapping, rec, s.cfg.FlagField)
	out, err := renderDocument(mapping, "\n# "+rec.Title+"\n")
	if err != nil {
		return fmt.Errorf("create habit %s: %w", p, err)
	}
	if err := s.vault.CreateDocument(p, out); err != nil {
		return fmt.Errorf("create habit %s: %w", p, err)
	}
	return nil
}
