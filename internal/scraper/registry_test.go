package scraper

import (
	"strings"
	"testing"
)

func testRegistration(id string, match func(string) bool) Registration {
	return Registration{
		ID:         id,
		Match:      match,
		OutputPath: func(rawURL string) (string, error) { return id, nil },
		New:        func(Options) (Scraper, error) { return nil, nil },
	}
}

func TestNewRegistryRejectsDuplicateIDs(t *testing.T) {
	always := func(string) bool { return true }
	_, err := NewRegistry(testRegistration("appletv", always), testRegistration("appletv", always))
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestNewRegistryRejectsIncompleteRegistrations(t *testing.T) {
	cases := []struct {
		name string
		reg  Registration
	}{
		{"missing id", Registration{Match: func(string) bool { return true }, OutputPath: func(string) (string, error) { return "", nil }, New: func(Options) (Scraper, error) { return nil, nil }}},
		{"missing match", Registration{ID: "x", OutputPath: func(string) (string, error) { return "", nil }, New: func(Options) (Scraper, error) { return nil, nil }}},
		{"missing output path", Registration{ID: "x", Match: func(string) bool { return true }, New: func(Options) (Scraper, error) { return nil, nil }}},
		{"missing factory", Registration{ID: "x", Match: func(string) bool { return true }, OutputPath: func(string) (string, error) { return "", nil }}},
	}
	for _, tc := range cases {
		if _, err := NewRegistry(tc.reg); err == nil {
			t.Errorf("%s: expected registration error", tc.name)
		}
	}
}

func TestRegistryForURLFollowsRegistrationOrder(t *testing.T) {
	registry, err := NewRegistry(
		testRegistration("first", func(u string) bool { return strings.Contains(u, "shared") }),
		testRegistration("second", func(u string) bool { return strings.Contains(u, "shared") || strings.Contains(u, "only-second") }),
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	reg, ok := registry.ForURL("https://shared.example.com/title")
	if !ok || reg.ID != "first" {
		t.Fatalf("expected first matching registration, got %q ok=%v", reg.ID, ok)
	}
	reg, ok = registry.ForURL("https://only-second.example.com/title")
	if !ok || reg.ID != "second" {
		t.Fatalf("expected second registration, got %q ok=%v", reg.ID, ok)
	}
	if _, ok := registry.ForURL("https://unmatched.example.com"); ok {
		t.Fatal("unmatched URL resolved a registration")
	}
}

func TestRegistryGetAndIDs(t *testing.T) {
	registry, err := NewRegistry(
		testRegistration("a", func(string) bool { return false }),
		testRegistration("b", func(string) bool { return false }),
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if reg, ok := registry.Get("b"); !ok || reg.ID != "b" {
		t.Fatalf("Get failed: %q ok=%v", reg.ID, ok)
	}
	if _, ok := registry.Get("missing"); ok {
		t.Fatal("Get resolved unregistered id")
	}
	ids := registry.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected IDs: %v", ids)
	}
}
