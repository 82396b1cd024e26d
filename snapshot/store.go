// Package snapshot resolves dated disclosure downloads on local disk.
//
// A store is a directory tree populated by an external downloader, one
// subdirectory per source key, then exactly one level per calendar
// component: KEY/YYYY/MM/DD. A day directory holds the files downloaded
// that day; when several exist, the lexicographically-last one is the
// authoritative snapshot (timestamped filenames sort correctly as strings,
// and so do zero-padded calendar components).
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/lookthrough/date"
)

// Store locates snapshots under a root directory. The root is always passed
// in explicitly so tests can point a store at any temporary directory.
type Store struct {
	root string
}

// NewStore returns a store reading from the given root directory.
func NewStore(root string) *Store { return &Store{root: root} }

// Root returns the root directory of the store.
func (s *Store) Root() string { return s.root }

// PathFor returns the day directory for a key and date, whether it exists or not.
func (s *Store) PathFor(key string, on date.Date) string {
	return filepath.Join(s.root, key,
		fmt.Sprintf("%04d", on.Year()),
		fmt.Sprintf("%02d", int(on.Month())),
		fmt.Sprintf("%02d", on.Day()))
}

// ResolveOn returns the authoritative snapshot for a key on a given day.
// A missing or empty day directory means no snapshot, never an error.
func (s *Store) ResolveOn(key string, on date.Date) (string, bool) {
	return lastFile(s.PathFor(key, on))
}

// ResolveLatest returns the most recent snapshot for a key.
//
// It descends exactly three levels (year, month, day) from the key
// directory, at each level following the lexicographically-last child, then
// picks the lexicographically-last file of the day directory. A missing or
// empty directory at any level means no snapshot is available yet.
func (s *Store) ResolveLatest(key string) (string, bool) {
	dir := filepath.Join(s.root, key)
	for range 3 {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) == 0 {
			return "", false
		}
		// os.ReadDir returns entries sorted by filename.
		dir = filepath.Join(dir, entries[len(entries)-1].Name())
	}
	return lastFile(dir)
}

// lastFile returns the lexicographically-last entry of a directory.
func lastFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return "", false
	}
	return filepath.Join(dir, entries[len(entries)-1].Name()), true
}
