package fixture

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ManifestFileName is written alongside the fixture files in every capture
// directory.
const ManifestFileName = "manifest.json"

// Filename derives the content-addressed fixture filename for a URL. The
// digest covers the URL string itself, so identical URLs yield identical
// filenames across processes and runs.
func Filename(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Store persists raw response bodies under one capture directory, exactly one
// file per distinct URL. A Store belongs to a single capture run.
type Store struct {
	dir string

	mu   sync.Mutex
	seen map[string]string // url -> filename
}

// NewStore creates a store rooted at dir. The directory must already exist.
func NewStore(dir string) *Store {
	return &Store{dir: dir, seen: make(map[string]string)}
}

// Dir returns the directory fixtures are written to.
func (s *Store) Dir() string { return s.dir }

// Put writes body under the URL's derived filename and returns that filename.
// A repeat call for a URL already stored in this run is a no-op returning the
// existing filename; callers must not assume a write occurred. Safe for
// concurrent use.
func (s *Store) Put(url string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name, ok := s.seen[url]; ok {
		return name, nil
	}
	name := Filename(url)
	if err := os.WriteFile(filepath.Join(s.dir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("write fixture for %s: %w", url, err)
	}
	s.seen[url] = name
	return name, nil
}

// Len reports how many distinct URLs have been stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
