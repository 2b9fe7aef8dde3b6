package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ErrFixtureMiss matches any FixtureMissError via errors.Is.
var ErrFixtureMiss = errors.New("fixture missing")

// FixtureMissError reports a replayed request whose URL was never captured.
// It signals an incomplete fixture set and must surface directly; the
// transport never fabricates a response.
type FixtureMissError struct {
	URL string
}

func (e *FixtureMissError) Error() string {
	return fmt.Sprintf("no recorded fixture for %s", e.URL)
}

func (e *FixtureMissError) Is(target error) bool { return target == ErrFixtureMiss }

// Transport is a drop-in substitute for a live network transport, answering
// every request from the aggregated fixture index. It is stateless beyond
// the read-only index and safe for concurrent use.
type Transport struct {
	index *Index
}

// NewTransport builds a replay transport over the given index.
func NewTransport(index *Index) *Transport {
	return &Transport{index: index}
}

// Client wraps the transport in an http.Client for callers that take one.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper. A URL absent from the index fails
// with a FixtureMissError; a hit synthesizes a successful response carrying
// the recorded bytes.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	path, ok := t.index.Lookup(url)
	if !ok {
		return nil, &FixtureMissError{URL: url}
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
