package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Manifest accumulates the URL to fixture-filename mapping for one capture
// run. It is owned by the run that created it and must not be shared across
// concurrent captures.
type Manifest struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Record stores the mapping for url unless one already exists. It returns
// true when the entry was inserted. Safe for concurrent use.
func (m *Manifest) Record(url, filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[url]; ok {
		return false
	}
	m.entries[url] = filename
	return true
}

// Has reports whether url has been recorded.
func (m *Manifest) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[url]
	return ok
}

// Len reports the number of recorded entries.
func (m *Manifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries returns a copy of the recorded mapping.
func (m *Manifest) Entries() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]string, len(m.entries))
	for url, name := range m.entries {
		cp[url] = name
	}
	return cp
}

// WriteFile serializes the manifest as UTF-8 JSON with keys sorted ascending
// and four-space indentation. Writing an empty manifest is valid; the caller
// decides whether a flush is warranted.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m.Entries(), "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifestFile parses a manifest file back into its URL to filename
// mapping.
func ReadManifestFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return entries, nil
}
