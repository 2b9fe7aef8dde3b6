package capture

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"subrec/internal/fixture"
	"subrec/internal/logging"
)

func newTestRecorder(t *testing.T) (*Recorder, *fixture.Store, *fixture.Manifest, string) {
	t.Helper()
	dir := t.TempDir()
	store := fixture.NewStore(dir)
	manifest := fixture.NewManifest()
	return NewRecorder(store, manifest, logging.NewNop()), store, manifest, dir
}

func TestTransportPreservesBodyForCaller(t *testing.T) {
	const payload = "#EXTM3U\n#EXT-X-VERSION:7\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	recorder, _, manifest, dir := newTestRecorder(t)
	client := &http.Client{Transport: NewTransport(nil, recorder)}

	resp, err := client.Get(srv.URL + "/playlist.m3u8")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != payload {
		t.Fatalf("caller saw modified body: %q", body)
	}
	if resp.ContentLength != int64(len(payload)) {
		t.Fatalf("unexpected content length: %d", resp.ContentLength)
	}

	url := srv.URL + "/playlist.m3u8"
	if !manifest.Has(url) {
		t.Fatal("response was not recorded")
	}
	stored, err := os.ReadFile(filepath.Join(dir, fixture.Filename(url)))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if string(stored) != payload {
		t.Fatalf("stored fixture differs from live body: %q", stored)
	}
}

func TestTransportRecordsErrorStatusBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	recorder, _, manifest, _ := newTestRecorder(t)
	client := &http.Client{Transport: NewTransport(nil, recorder)}

	resp, err := client.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !manifest.Has(srv.URL + "/missing") {
		t.Fatal("error response was not recorded")
	}
}

func TestTransportRecordsFinalURLAfterRedirect(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, srvURL+"/new", http.StatusFound)
			return
		}
		fmt.Fprint(w, "moved payload")
	}))
	defer srv.Close()
	srvURL = srv.URL

	recorder, _, manifest, _ := newTestRecorder(t)
	client := &http.Client{Transport: NewTransport(nil, recorder)}

	resp, err := client.Get(srv.URL + "/old")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if !manifest.Has(srv.URL + "/new") {
		t.Fatal("final redirect target was not recorded")
	}
	if !manifest.Has(srv.URL + "/old") {
		t.Fatal("intermediate redirect response was not recorded")
	}
}

func TestRecorderConcurrentSameURL(t *testing.T) {
	recorder, store, manifest, dir := newTestRecorder(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recorder.Record("https://example.com/seg.webvtt", []byte("payload")); err != nil {
				t.Errorf("Record failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if manifest.Len() != 1 || store.Len() != 1 {
		t.Fatalf("expected a single entry, manifest=%d store=%d", manifest.Len(), store.Len())
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected a single fixture file, got %d", len(files))
	}
}
