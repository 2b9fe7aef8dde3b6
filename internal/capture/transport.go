package capture

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"subrec/internal/fixture"
	"subrec/internal/logging"
)

// Recorder feeds intercepted responses into the fixture store and manifest
// of one capture run. The skip-if-seen check and the store insert happen
// under one lock so overlapping in-flight requests cannot record a URL
// twice.
type Recorder struct {
	store    *fixture.Store
	manifest *fixture.Manifest
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewRecorder binds a recorder to the run's store and manifest.
func NewRecorder(store *fixture.Store, manifest *fixture.Manifest, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:    store,
		manifest: manifest,
		logger:   logging.NewComponentLogger(logger, "capture"),
	}
}

// Record persists one response body under its canonical request URL.
func (r *Recorder) Record(url string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manifest.Has(url) {
		r.logger.Debug("url already recorded, skipping", slog.String(logging.FieldURL, url))
		return nil
	}
	name, err := r.store.Put(url, body)
	if err != nil {
		return err
	}
	r.manifest.Record(url, name)
	r.logger.Info("recorded response",
		slog.String(logging.FieldURL, url),
		slog.Int("bytes", len(body)))
	return nil
}

// Transport wraps another RoundTripper and hands every completed response
// body to the recorder before returning it unchanged to the caller. The
// interceptor is supplied at construction so the capture path is visible at
// the call site; no shared client state is mutated.
type Transport struct {
	base     http.RoundTripper
	recorder *Recorder
}

// NewTransport builds the intercepting transport. A nil base falls back to
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, recorder *Recorder) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, recorder: recorder}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read response body for %s: %w", req.URL, readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close response body for %s: %w", req.URL, closeErr)
	}

	if err := t.recorder.Record(resp.Request.URL.String(), body); err != nil {
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}
