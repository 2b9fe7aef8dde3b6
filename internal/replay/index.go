package replay

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"subrec/internal/fixture"
	"subrec/internal/logging"
)

// Configuration errors raised at index construction.
var (
	// ErrNoManifests means no manifest file exists under any given root.
	ErrNoManifests = errors.New("no manifest files found")
	// ErrEmptyIndex means manifests were found but none yielded a usable entry.
	ErrEmptyIndex = errors.New("no usable fixture entries found")
)

// Index is the merged, read-only URL to fixture-path mapping built from one
// or more manifest trees. It is immutable after construction, so lookups
// are safe from any goroutine without locking.
type Index struct {
	entries map[string]string
}

// LoadIndex discovers every manifest under the given roots and merges their
// entries. Directories are scanned in deterministic lexical order; when two
// manifests define the same URL, the later-scanned manifest wins. A manifest
// that fails to decode is logged and skipped; the rest still load.
func LoadIndex(logger *slog.Logger, roots ...string) (*Index, error) {
	logger = logging.NewComponentLogger(logger, "replay")
	if len(roots) == 0 {
		return nil, ErrNoManifests
	}

	entries := make(map[string]string)
	manifests := 0
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != fixture.ManifestFileName {
				return nil
			}
			manifests++
			loaded, err := fixture.ReadManifestFile(path)
			if err != nil {
				logger.Error("skipping undecodable manifest",
					slog.String("path", path), logging.Error(err))
				return nil
			}
			dir := filepath.Dir(path)
			for url, name := range loaded {
				entries[url] = filepath.Join(dir, name)
			}
			logger.Debug("loaded manifest",
				slog.String("path", path), slog.Int("entries", len(loaded)))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan fixture root %s: %w", root, err)
		}
	}

	if manifests == 0 {
		return nil, fmt.Errorf("%w under %v", ErrNoManifests, roots)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w in %d manifests", ErrEmptyIndex, manifests)
	}

	logger.Info("fixture index loaded",
		slog.Int("manifests", manifests), slog.Int("entries", len(entries)))
	return &Index{entries: entries}, nil
}

// Lookup resolves a URL to the fixture file recorded for it.
func (i *Index) Lookup(url string) (string, bool) {
	path, ok := i.entries[url]
	return path, ok
}

// Len reports the number of indexed URLs.
func (i *Index) Len() int { return len(i.entries) }

// URLs returns every indexed URL in sorted order.
func (i *Index) URLs() []string {
	urls := make([]string, 0, len(i.entries))
	for url := range i.entries {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}
