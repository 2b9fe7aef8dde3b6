// Package appletv implements the Apple TV provider: catalog resolution,
// playlist loading, and subtitle matching for tv.apple.com media pages.
package appletv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"time"

	"subrec/internal/language"
	"subrec/internal/logging"
	"subrec/internal/scraper"
)

// ID is the provider identifier used in registry and fixture paths.
const ID = "appletv"

const (
	defaultBaseURL     = "https://tv.apple.com/api/uts/v3"
	defaultHTTPTimeout = 45 * time.Second
	defaultParallel    = 4
)

var urlPattern = regexp.MustCompile(
	`^https?://tv\.apple\.com/(?P<storefront>[a-z]{2})/(?P<kind>movie|show|episode)/(?:[^/]+/)?(?P<mediaID>umc\.cmc\.[a-z0-9]+)`)

// Config describes Apple TV scraper construction parameters. BaseURL is
// overridable for tests against a local server.
type Config struct {
	Options scraper.Options
	BaseURL string
}

// Scraper resolves Apple TV media pages through the catalog API.
type Scraper struct {
	client    *http.Client
	logger    *slog.Logger
	userAgent string
	parallel  int
	baseURL   string
}

// New creates a Scraper from the registry options.
func New(opts scraper.Options) (*Scraper, error) {
	return NewWithConfig(Config{Options: opts})
}

// NewWithConfig creates a Scraper with explicit configuration.
func NewWithConfig(cfg Config) (*Scraper, error) {
	client := cfg.Options.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	parallel := cfg.Options.SegmentConcurrency
	if parallel <= 0 {
		parallel = defaultParallel
	}
	return &Scraper{
		client:    client,
		logger:    logging.NewComponentLogger(cfg.Options.Logger, ID),
		userAgent: cfg.Options.UserAgent,
		parallel:  parallel,
		baseURL:   baseURL,
	}, nil
}

// Registration returns the static registry entry for this provider.
func Registration() scraper.Registration {
	return scraper.Registration{
		ID:         ID,
		Match:      MatchURL,
		OutputPath: OutputPath,
		New: func(opts scraper.Options) (scraper.Scraper, error) {
			return New(opts)
		},
	}
}

// MatchURL reports whether rawURL is an Apple TV media page.
func MatchURL(rawURL string) bool {
	return urlPattern.MatchString(rawURL)
}

// OutputPath maps a media URL to its capture directory relative to the
// fixture root: appletv/<storefront>/<mediaID>.
func OutputPath(rawURL string) (string, error) {
	storefront, _, mediaID, err := parseURL(rawURL)
	if err != nil {
		return "", err
	}
	return path.Join(ID, storefront, mediaID), nil
}

func parseURL(rawURL string) (storefront, kind, mediaID string, err error) {
	match := urlPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", "", "", fmt.Errorf("url does not match the apple tv pattern: %s", rawURL)
	}
	for i, name := range urlPattern.SubexpNames() {
		switch name {
		case "storefront":
			storefront = match[i]
		case "kind":
			kind = match[i]
		case "mediaID":
			mediaID = match[i]
		}
	}
	return storefront, kind, mediaID, nil
}

// ID returns the provider identifier.
func (s *Scraper) ID() string { return ID }

type catalogResponse struct {
	Data struct {
		Content struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"content"`
		Playables []struct {
			ID     string `json:"id"`
			Assets struct {
				HLSURL string `json:"hlsUrl"`
			} `json:"assets"`
		} `json:"playables"`
	} `json:"data"`
}

// GetData resolves the media page URL through the catalog API.
func (s *Scraper) GetData(ctx context.Context, rawURL string) (*scraper.MediaResult, error) {
	storefront, kind, mediaID, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%ss/%s?caller=web&pfm=web&v=58&sf=%s&locale=en-US",
		s.baseURL, kind, mediaID, storefront)
	body, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog data: %w", err)
	}

	var decoded catalogResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	result := &scraper.MediaResult{}
	for _, playable := range decoded.Data.Playables {
		if playable.Assets.HLSURL == "" {
			continue
		}
		id := playable.ID
		if id == "" {
			id = decoded.Data.Content.ID
		}
		result.Items = append(result.Items, scraper.MediaItem{
			ID:        id,
			Title:     decoded.Data.Content.Title,
			Playlists: []string{playable.Assets.HLSURL},
		})
	}
	s.logger.Debug("resolved media data",
		slog.String(logging.FieldURL, rawURL),
		slog.Int("items", len(result.Items)))
	return result, nil
}

// LoadPlaylist fetches and decodes a playlist URL.
func (s *Scraper) LoadPlaylist(ctx context.Context, playlistURL string) (*scraper.Playlist, error) {
	body, err := s.fetch(ctx, playlistURL)
	if err != nil {
		return nil, err
	}
	return scraper.DecodePlaylist(playlistURL, body)
}

// FindMatchingSubtitles filters the master playlist's subtitle renditions by
// language. An empty filter keeps every rendition.
func (s *Scraper) FindMatchingSubtitles(playlist *scraper.Playlist, languages []string) []scraper.SubtitleEntry {
	if playlist == nil {
		return nil
	}
	matched := make([]scraper.SubtitleEntry, 0, len(playlist.Subtitles))
	for _, entry := range playlist.Subtitles {
		if language.Match(entry.Language, languages) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// DownloadSegments fetches every segment of a subtitle playlist. Payloads
// are discarded; the point of the call is that the requests flow through the
// scraper's transport.
func (s *Scraper) DownloadSegments(ctx context.Context, playlist *scraper.Playlist) error {
	if playlist == nil || len(playlist.Segments) == 0 {
		return nil
	}
	_, err := scraper.FetchSegments(ctx, s.client, s.userAgent, playlist.Segments, s.parallel)
	return err
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}
