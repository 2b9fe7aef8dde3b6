package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subrec/internal/fixture"
)

// WriteFixtureSet writes a complete capture directory under dir: one
// content-addressed file per URL plus the manifest mapping them.
func WriteFixtureSet(t testing.TB, dir string, responses map[string][]byte) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	manifest := fixture.NewManifest()
	for url, body := range responses {
		name := fixture.Filename(url)
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			t.Fatalf("write fixture for %s: %v", url, err)
		}
		manifest.Record(url, name)
	}
	if err := manifest.WriteFile(filepath.Join(dir, fixture.ManifestFileName)); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

// DirSnapshot reads every regular file under dir keyed by relative path, for
// byte-for-byte directory comparisons.
func DirSnapshot(t testing.TB, dir string) map[string][]byte {
	t.Helper()

	snapshot := make(map[string][]byte)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snapshot[rel] = data
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", dir, err)
	}
	return snapshot
}
