package scraper

import "fmt"

// Registration describes one provider in the static scraper table: how to
// recognize its URLs, where its captures live on disk, and how to construct
// an instance.
type Registration struct {
	ID string
	// Match reports whether this provider handles the given media URL.
	Match func(rawURL string) bool
	// OutputPath maps a media URL to the capture directory relative to the
	// fixture root (e.g. "appletv/us/umc.cmc.xxxx").
	OutputPath func(rawURL string) (string, error)
	New        Factory
}

// Registry is an explicitly constructed, immutable table of providers.
// Lookup order follows registration order.
type Registry struct {
	entries []Registration
}

// NewRegistry builds a registry from the given registrations.
func NewRegistry(entries ...Registration) (*Registry, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" || e.Match == nil || e.OutputPath == nil || e.New == nil {
			return nil, fmt.Errorf("scraper registration %q is incomplete", e.ID)
		}
		if _, ok := seen[e.ID]; ok {
			return nil, fmt.Errorf("scraper %q registered twice", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return &Registry{entries: append([]Registration(nil), entries...)}, nil
}

// ForURL returns the first registration whose matcher accepts rawURL.
func (r *Registry) ForURL(rawURL string) (Registration, bool) {
	for _, e := range r.entries {
		if e.Match(rawURL) {
			return e, true
		}
	}
	return Registration{}, false
}

// Get returns the registration with the given id.
func (r *Registry) Get(id string) (Registration, bool) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Registration{}, false
}

// IDs lists the registered provider identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		ids = append(ids, e.ID)
	}
	return ids
}
