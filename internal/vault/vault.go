// Package vault is the document host: a directory tree of text documents
// addressed by slash-separated relative paths. It implements store.Vault
// and adds change notifications plus a cached parsed-header index.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sadopc/streakr/internal/store"
)

// Vault serves documents from a root directory. Markdown files are the
// document universe; everything else is invisible to ListDocuments.
type Vault struct {
	root  string
	index *headerIndex

	watch *watcher // nil until StartWatch

	mu          sync.Mutex
	onModified  []func(path string)
	onDeleted   []func(path string)
	onHeaderChg []func(path string, header map[string]any)
}

// Open prepares a vault rooted at dir, creating it if absent. indexPath
// locates the sqlite header index; pass ":memory:" for a throwaway one.
func Open(dir, indexPath string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault root: %w", err)
	}
	idx, err := openIndex(indexPath)
	if err != nil {
		return nil, err
	}
	return &Vault{root: dir, index: idx}, nil
}

// DefaultIndexPath returns ~/.config/streakr/index.db.
func DefaultIndexPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "streakr", "index.db"), nil
}

func (v *Vault) Close() error {
	if v.watch != nil {
		v.watch.close()
	}
	return v.index.Close()
}

// Root returns the vault's root directory.
func (v *Vault) Root() string { return v.root }

func (v *Vault) abs(p string) string {
	return filepath.Join(v.root, filepath.FromSlash(p))
}

// ListDocuments walks the vault and returns the relative paths of all
// markdown documents. Hidden directories are skipped.
func (v *Vault) ListDocuments() ([]string, error) {
	var out []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}
	return out, nil
}

func (v *Vault) ReadDocument(p string) (string, error) {
	data, err := os.ReadFile(v.abs(p))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("read %s: %w", p, store.ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

// WriteDocument overwrites an existing document. The document must already
// exist; creation goes through CreateDocument.
func (v *Vault) WriteDocument(p, text string) error {
	abs := v.abs(p)
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("write %s: %w", p, store.ErrNotFound)
		}
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := os.WriteFile(abs, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	v.index.invalidate(p)
	return nil
}

// CreateDocument creates a new document; fails if the path is taken.
func (v *Vault) CreateDocument(p, text string) error {
	f, err := os.OpenFile(v.abs(p), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("create %s: %w", p, store.ErrExists)
		}
		return fmt.Errorf("create %s: %w", p, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("create %s: %w", p, err)
	}
	return f.Close()
}

func (v *Vault) CreateFolder(p string) error {
	if err := os.MkdirAll(v.abs(p), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", p, err)
	}
	return nil
}

// ParsedHeader returns the document's header map from the index, refreshing
// the cached entry when the file's mtime or size moved. Returns nil for
// missing documents and documents without a parseable header.
func (v *Vault) ParsedHeader(p string) map[string]any {
	abs := v.abs(p)
	fi, err := os.Stat(abs)
	if err != nil {
		return nil
	}
	mtime, size := fi.ModTime().UnixNano(), fi.Size()

	if raw, ok := v.index.lookup(p, mtime, size); ok {
		if raw == "" {
			return nil
		}
		return store.ParseHeader(raw)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil
	}
	raw, ok := store.ExtractHeader(string(data))
	if !ok {
		raw = ""
	}
	v.index.put(p, mtime, size, raw)
	if raw == "" {
		return nil
	}
	return store.ParseHeader(raw)
}
