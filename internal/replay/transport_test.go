package replay_test

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"subrec/internal/logging"
	"subrec/internal/replay"
	"subrec/internal/testsupport"
)

func newTestTransport(t *testing.T, responses map[string][]byte) *replay.Transport {
	t.Helper()
	root := t.TempDir()
	testsupport.WriteFixtureSet(t, root, responses)
	idx, err := replay.LoadIndex(logging.NewNop(), root)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	return replay.NewTransport(idx)
}

func TestTransportServesRecordedBytes(t *testing.T) {
	const url = "https://example.com/subs/en.m3u8"
	payload := []byte("#EXTM3U\n#EXTINF:6.0,\nseg0.webvtt\n")
	client := newTestTransport(t, map[string][]byte{url: payload}).Client()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("replayed request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if resp.ContentLength != int64(len(payload)) {
		t.Fatalf("unexpected content length: %d", resp.ContentLength)
	}
	if resp.Request == nil || resp.Request.URL.String() != url {
		t.Fatal("response does not reference the originating request")
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != string(payload) {
		t.Fatalf("replayed bytes differ: %q", body)
	}
}

func TestTransportFixtureMiss(t *testing.T) {
	transport := newTestTransport(t, map[string][]byte{
		"https://example.com/known": []byte("known"),
	})

	req, err := http.NewRequest(http.MethodGet, "https://example.com/unknown", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	_, err = transport.RoundTrip(req)
	if err == nil {
		t.Fatal("expected fixture miss")
	}
	if !errors.Is(err, replay.ErrFixtureMiss) {
		t.Fatalf("errors.Is fixture miss failed: %v", err)
	}
	var miss *replay.FixtureMissError
	if !errors.As(err, &miss) {
		t.Fatalf("errors.As fixture miss failed: %v", err)
	}
	if miss.URL != "https://example.com/unknown" {
		t.Fatalf("miss reports wrong URL: %q", miss.URL)
	}
}

func TestTransportConcurrentLookups(t *testing.T) {
	const url = "https://example.com/seg0.webvtt"
	client := newTestTransport(t, map[string][]byte{url: []byte("payload")}).Client()

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(url)
			if err != nil {
				t.Errorf("replayed request failed: %v", err)
				return
			}
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				t.Errorf("read body: %v", err)
				return
			}
			if string(body) != "payload" {
				t.Errorf("unexpected body: %q", body)
			}
		}()
	}
	wg.Wait()
}
