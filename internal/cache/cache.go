// Package cache memoizes whole-program object code by the byte-identical
// hash of its inputs: source text, target triple, and the optimize flag.
// This is deliberately not incremental recompilation — there is no
// dependency graph, no partial invalidation, just a single row lookup keyed
// by a hash of everything that could change the output. Storage is a local
// modernc.org/sqlite database, a pure-Go driver used the conventional
// database/sql way.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a handle to the on-disk object cache.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS objects (
	key   TEXT PRIMARY KEY,
	data  BLOB NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Key computes the cache key for a compilation: the source text, the
// target triple, and the optimize flag are the only things that can change
// the emitted object.
func Key(source, targetTriple string, optimize bool) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(targetTriple))
	h.Write([]byte{0})
	if optimize {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached object bytes for key, or ok=false on a miss.
func (s *Store) Lookup(key string) (data []byte, ok bool, err error) {
	row := s.db.QueryRow(`SELECT data FROM objects WHERE key = ?`, key)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}
	return data, true, nil
}

// Store records data under key, replacing any prior entry.
func (s *Store) Store(key string, data []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO objects (key, data) VALUES (?, ?)`, key, data)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}
