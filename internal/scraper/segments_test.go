package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchSegmentsPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "payload for %s", r.URL.Path)
	}))
	defer srv.Close()

	uris := make([]string, 8)
	for i := range uris {
		uris[i] = fmt.Sprintf("%s/seg/%d.webvtt", srv.URL, i)
	}

	payloads, err := FetchSegments(context.Background(), srv.Client(), "test-agent", uris, 3)
	if err != nil {
		t.Fatalf("FetchSegments failed: %v", err)
	}
	if len(payloads) != len(uris) {
		t.Fatalf("expected %d payloads, got %d", len(uris), len(payloads))
	}
	for i, body := range payloads {
		want := fmt.Sprintf("payload for /seg/%d.webvtt", i)
		if string(body) != want {
			t.Errorf("payload %d: got %q want %q", i, body, want)
		}
	}
}

func TestFetchSegmentsBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	uris := make([]string, 12)
	for i := range uris {
		uris[i] = fmt.Sprintf("%s/seg/%d", srv.URL, i)
	}
	if _, err := FetchSegments(context.Background(), srv.Client(), "", uris, 2); err != nil {
		t.Fatalf("FetchSegments failed: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Fatalf("concurrency bound exceeded: %d simultaneous requests", got)
	}
}

func TestFetchSegmentsSendsUserAgent(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	if _, err := FetchSegments(context.Background(), srv.Client(), "subrec/test", []string{srv.URL + "/seg"}, 1); err != nil {
		t.Fatalf("FetchSegments failed: %v", err)
	}
	if got, _ := agent.Load().(string); got != "subrec/test" {
		t.Fatalf("unexpected user agent: %q", got)
	}
}

func TestFetchSegmentsFailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/seg/1" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	uris := []string{srv.URL + "/seg/0", srv.URL + "/seg/1", srv.URL + "/seg/2"}
	if _, err := FetchSegments(context.Background(), srv.Client(), "", uris, 2); err == nil {
		t.Fatal("expected error for failing segment")
	}
}

func TestFetchSegmentsEmptyInput(t *testing.T) {
	payloads, err := FetchSegments(context.Background(), nil, "", nil, 4)
	if err != nil {
		t.Fatalf("FetchSegments failed: %v", err)
	}
	if payloads != nil {
		t.Fatalf("expected nil payloads, got %v", payloads)
	}
}

func TestFetchSegmentsHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FetchSegments(ctx, srv.Client(), "", []string{srv.URL + "/seg"}, 1); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
