package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watcher wires fsnotify events into the vault's change callbacks and keeps
// the header index honest when other tools edit documents.
type watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// OnDocumentModified registers a callback for document writes and creations.
func (v *Vault) OnDocumentModified(cb func(path string)) {
	v.mu.Lock()
	v.onModified = append(v.onModified, cb)
	v.mu.Unlock()
}

// OnDocumentDeleted registers a callback for document removals and renames.
func (v *Vault) OnDocumentDeleted(cb func(path string)) {
	v.mu.Lock()
	v.onDeleted = append(v.onDeleted, cb)
	v.mu.Unlock()
}

// OnHeaderChanged registers a callback fired when a modification changed the
// document's header block. The new parsed header is passed along (nil when
// the header was removed).
func (v *Vault) OnHeaderChanged(cb func(path string, header map[string]any)) {
	v.mu.Lock()
	v.onHeaderChg = append(v.onHeaderChg, cb)
	v.mu.Unlock()
}

// StartWatch begins watching the vault tree for external changes. Calling
// it twice is a no-op.
func (v *Vault) StartWatch() error {
	if v.watch != nil {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watch: %w", err)
	}

	// Watch the root and every existing subdirectory; new directories are
	// added as their create events arrive.
	err = filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != v.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return fmt.Errorf("start watch: %w", err)
	}

	w := &watcher{fsw: fsw, done: make(chan struct{})}
	v.watch = w

	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				v.handleEvent(ev)
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

func (w *watcher) close() {
	w.fsw.Close()
	<-w.done
}

func (v *Vault) handleEvent(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if !strings.HasPrefix(fi.Name(), ".") && v.watch != nil {
				v.watch.fsw.Add(ev.Name)
			}
			return
		}
	}

	rel, err := filepath.Rel(v.root, ev.Name)
	if err != nil || !strings.HasSuffix(rel, ".md") {
		return
	}
	p := filepath.ToSlash(rel)

	switch {
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		v.index.invalidate(p)
		for _, cb := range v.deletedCallbacks() {
			cb(p)
		}

	case ev.Op.Has(fsnotify.Write), ev.Op.Has(fsnotify.Create):
		oldRaw, _ := v.index.cached(p)
		v.index.invalidate(p)
		header := v.ParsedHeader(p) // repopulates the index
		newRaw, _ := v.index.cached(p)

		for _, cb := range v.modifiedCallbacks() {
			cb(p)
		}
		if newRaw != oldRaw {
			for _, cb := range v.headerCallbacks() {
				cb(p, header)
			}
		}
	}
}

func (v *Vault) modifiedCallbacks() []func(string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append(([]func(string))(nil), v.onModified...)
}

func (v *Vault) deletedCallbacks() []func(string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append(([]func(string))(nil), v.onDeleted...)
}

func (v *Vault) headerCallbacks() []func(string, map[string]any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append(([]func(string, map[string]any))(nil), v.onHeaderChg...)
}
