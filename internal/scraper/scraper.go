package scraper

import (
	"context"
	"log/slog"
	"net/http"
)

// MediaItem is one playable media entry resolved from a provider page.
type MediaItem struct {
	ID    string
	Title string
	// Playlists holds the item's master playlist URLs in provider order.
	// The first entry is the main playlist.
	Playlists []string
}

// MediaResult is the provider response for a media page URL.
type MediaResult struct {
	Items []MediaItem
}

// SubtitleEntry is one subtitle rendition advertised by a master playlist.
type SubtitleEntry struct {
	Language string // language tag as advertised (e.g. "en", "pt-BR")
	Name     string
	URI      string // absolute subtitle playlist URI
	Forced   bool
}

// Playlist is the opaque view of a loaded playlist: subtitle renditions when
// it is a master playlist, segment URIs when it is a media playlist.
type Playlist struct {
	URL       string
	Subtitles []SubtitleEntry
	Segments  []string // absolute segment URIs
}

// Scraper is the provider capability contract used by capture and replay.
type Scraper interface {
	ID() string
	GetData(ctx context.Context, rawURL string) (*MediaResult, error)
	LoadPlaylist(ctx context.Context, playlistURL string) (*Playlist, error)
	FindMatchingSubtitles(playlist *Playlist, languages []string) []SubtitleEntry
}

// SegmentDownloader is implemented by scrapers that fetch subtitle payload
// segments themselves.
type SegmentDownloader interface {
	DownloadSegments(ctx context.Context, playlist *Playlist) error
}

// Options carries construction parameters for a scraper instance. The HTTP
// client is supplied by the caller so capture and replay can substitute the
// transport at the call site.
type Options struct {
	HTTPClient         *http.Client
	Logger             *slog.Logger
	UserAgent          string
	SegmentConcurrency int
}

// Factory builds a scraper instance bound to the supplied options.
type Factory func(Options) (Scraper, error)
