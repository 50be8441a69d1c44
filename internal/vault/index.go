package vault

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const indexVersion = 1

// headerIndex is the vault's cached view of document headers, keyed by path
// and invalidated by mtime+size. The cache may be stale; readers that need
// the truth re-read the document itself.
type headerIndex struct {
	db *sql.DB
}

// openIndex opens (or creates) the sqlite index at dbPath and runs
// migrations. Use ":memory:" for tests.
func openIndex(dbPath string) (*headerIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	idx := &headerIndex{db: db}
	if err := idx.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate index: %w", err)
	}
	return idx, nil
}

func (idx *headerIndex) Close() error {
	return idx.db.Close()
}

func (idx *headerIndex) migrate() error {
	var version int
	if err := idx.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= indexVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS headers (
		path   TEXT PRIMARY KEY,
		mtime  INTEGER NOT NULL,
		size   INTEGER NOT NULL,
		header TEXT NOT NULL
	);`
	if _, err := idx.db.Exec(ddl); err != nil {
		return err
	}
	_, err := idx.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", indexVersion))
	return err
}

// lookup returns the cached raw header block for path if the stored
// mtime+size still match. An empty header means the document has none.
func (idx *headerIndex) lookup(path string, mtime, size int64) (string, bool) {
	var gotMtime, gotSize int64
	var header string
	err := idx.db.QueryRow(
		`SELECT mtime, size, header FROM headers WHERE path = ?`, path,
	).Scan(&gotMtime, &gotSize, &header)
	if err != nil {
		return "", false
	}
	if gotMtime != mtime || gotSize != size {
		return "", false
	}
	return header, true
}

func (idx *headerIndex) put(path string, mtime, size int64, header string) error {
	_, err := idx.db.Exec(
		`INSERT INTO headers (path, mtime, size, header) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mtime=excluded.mtime, size=excluded.size, header=excluded.header`,
		path, mtime, size, header,
	)
	if err != nil {
		return fmt.Errorf("index put %s: %w", path, err)
	}
	return nil
}

// cached returns the stored raw header regardless of freshness. Used by the
// change watcher to compare old and new headers.
func (idx *headerIndex) cached(path string) (string, bool) {
	var header string
	err := idx.db.QueryRow(`SELECT header FROM headers WHERE path = ?`, path).Scan(&header)
	if err != nil {
		return "", false
	}
	return header, true
}

func (idx *headerIndex) invalidate(path string) {
	idx.db.Exec(`DELETE FROM headers WHERE path = ?`, path)
}
