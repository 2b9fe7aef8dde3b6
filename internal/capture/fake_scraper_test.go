package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"

	"subrec/internal/language"
	"subrec/internal/scraper"
)

// fakeProvider serves a minimal resolution cascade over line-oriented
// playlists: the media endpoint returns the main playlist URL, the main
// playlist lists "lang url" subtitle renditions, and subtitle playlists list
// one segment URL per line.
type fakeProvider struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []string

	dropFrench         bool
	failFrench         bool
	duplicateEnSegment bool
}

func newFakeProvider(t interface{ Cleanup(func()) }) *fakeProvider {
	p := &fakeProvider{}
	p.srv = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) handle(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests = append(p.requests, r.URL.Path)
	p.mu.Unlock()

	base := "http://" + r.Host
	switch {
	case strings.HasPrefix(r.URL.Path, "/media/empty"):
		fmt.Fprint(w, "")
	case strings.HasPrefix(r.URL.Path, "/media/"):
		fmt.Fprintf(w, "%s/master.m3u8", base)
	case r.URL.Path == "/master.m3u8":
		fmt.Fprintf(w, "en %s/subs/en.m3u8\n", base)
		if !p.dropFrench {
			fmt.Fprintf(w, "fr %s/subs/fr.m3u8\n", base)
		}
	case r.URL.Path == "/subs/en.m3u8":
		fmt.Fprintf(w, "%s/seg/en/0.webvtt\n%s/seg/en/1.webvtt\n", base, base)
		if p.duplicateEnSegment {
			fmt.Fprintf(w, "%s/seg/en/0.webvtt\n", base)
		}
	case r.URL.Path == "/subs/fr.m3u8":
		if p.failFrench {
			http.Error(w, "upstream failure", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "%s/seg/fr/0.webvtt\n", base)
	case strings.HasPrefix(r.URL.Path, "/seg/"):
		fmt.Fprintf(w, "WEBVTT payload for %s", r.URL.Path)
	default:
		http.NotFound(w, r)
	}
}

func (p *fakeProvider) mediaURL(title string) string {
	return p.srv.URL + "/media/" + title
}

func (p *fakeProvider) requestedPaths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

// fakeScraper drives the fake provider's cascade through the supplied HTTP
// client so the recording transport sees every request.
type fakeScraper struct {
	client   *http.Client
	ua       string
	parallel int
	onLoad   func(playlistURL string)
}

func (s *fakeScraper) ID() string { return "fake" }

func (s *fakeScraper) GetData(ctx context.Context, rawURL string) (*scraper.MediaResult, error) {
	body, err := s.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	main := strings.TrimSpace(string(body))
	if main == "" {
		return &scraper.MediaResult{}, nil
	}
	return &scraper.MediaResult{Items: []scraper.MediaItem{{
		ID:        path.Base(rawURL),
		Title:     "Test Title",
		Playlists: []string{main},
	}}}, nil
}

func (s *fakeScraper) LoadPlaylist(ctx context.Context, playlistURL string) (*scraper.Playlist, error) {
	body, err := s.get(ctx, playlistURL)
	if err != nil {
		return nil, err
	}
	if s.onLoad != nil {
		s.onLoad(playlistURL)
	}
	p := &scraper.Playlist{URL: playlistURL}
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lang, uri, ok := strings.Cut(line, " "); ok {
			p.Subtitles = append(p.Subtitles, scraper.SubtitleEntry{Language: lang, URI: uri})
		} else {
			p.Segments = append(p.Segments, line)
		}
	}
	return p, nil
}

func (s *fakeScraper) FindMatchingSubtitles(playlist *scraper.Playlist, languages []string) []scraper.SubtitleEntry {
	var matched []scraper.SubtitleEntry
	for _, entry := range playlist.Subtitles {
		if language.Match(entry.Language, languages) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func (s *fakeScraper) DownloadSegments(ctx context.Context, playlist *scraper.Playlist) error {
	_, err := scraper.FetchSegments(ctx, s.client, s.ua, playlist.Segments, s.parallel)
	return err
}

func (s *fakeScraper) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if s.ua != "" {
		req.Header.Set("User-Agent", s.ua)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	return body, nil
}

func fakeRegistration(onLoad func(playlistURL string)) scraper.Registration {
	return scraper.Registration{
		ID:    "fake",
		Match: func(string) bool { return true },
		OutputPath: func(rawURL string) (string, error) {
			u, err := url.Parse(rawURL)
			if err != nil {
				return "", err
			}
			return path.Join("fake", strings.TrimPrefix(u.Path, "/")), nil
		},
		New: func(opts scraper.Options) (scraper.Scraper, error) {
			return &fakeScraper{
				client:   opts.HTTPClient,
				ua:       opts.UserAgent,
				parallel: opts.SegmentConcurrency,
				onLoad:   onLoad,
			}, nil
		},
	}
}
