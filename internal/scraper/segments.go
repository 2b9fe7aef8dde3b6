package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// FetchSegments downloads every segment URI through client with bounded
// concurrency, returning payloads in playlist order. Response bodies are
// always read fully so a recording transport observes the complete bytes.
// The first failure cancels the remaining fetches.
func FetchSegments(ctx context.Context, client *http.Client, userAgent string, uris []string, parallel int) ([][]byte, error) {
	if len(uris) == 0 {
		return nil, nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	if parallel <= 0 {
		parallel = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	payloads := make([][]byte, len(uris))
	sem := make(chan struct{}, parallel)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, uri := range uris {
		wg.Add(1)
		go func(i int, uri string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				fail(ctx.Err())
				return
			}
			body, err := fetchOne(ctx, client, userAgent, uri)
			if err != nil {
				fail(err)
				return
			}
			payloads[i] = body
		}(i, uri)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return payloads, nil
}

func fetchOne(ctx context.Context, client *http.Client, userAgent, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build segment request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch segment %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch segment %s: unexpected status %s", uri, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read segment %s: %w", uri, err)
	}
	return body, nil
}
