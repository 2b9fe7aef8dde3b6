// Package pipeline implements the top-level "resolve URL, download all
// matching subtitles" operation. It is the workload the benchmark harness
// measures against a replay transport, but it works identically against the
// live network.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"subrec/internal/logging"
	"subrec/internal/scraper"
)

// Options carries the collaborators Download needs beyond the scraper
// itself. The HTTP client must share the scraper's transport so segment
// fetches hit the same network substitution.
type Options struct {
	Client             *http.Client
	Logger             *slog.Logger
	UserAgent          string
	SegmentConcurrency int
}

// Download resolves rawURL through the scraper cascade and writes each
// matched subtitle's segment payloads, concatenated in playlist order, to
// destDir. Subtitle payloads are treated opaquely.
func Download(ctx context.Context, scr scraper.Scraper, rawURL string, languages []string, destDir string, opts Options) error {
	logger := logging.NewComponentLogger(opts.Logger, "pipeline")

	media, err := scr.GetData(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("resolve media data: %w", err)
	}
	if media == nil || len(media.Items) == 0 {
		return fmt.Errorf("no media data for %s", rawURL)
	}
	item := media.Items[0]
	if len(item.Playlists) == 0 {
		return fmt.Errorf("no playlist url for %s", rawURL)
	}

	main, err := scr.LoadPlaylist(ctx, item.Playlists[0])
	if err != nil {
		return fmt.Errorf("load main playlist: %w", err)
	}

	entries := scr.FindMatchingSubtitles(main, languages)
	if len(entries) == 0 {
		return fmt.Errorf("no matching subtitles for %s", rawURL)
	}

	used := make(map[string]int, len(entries))
	for _, entry := range entries {
		playlist, err := scr.LoadPlaylist(ctx, entry.URI)
		if err != nil {
			return fmt.Errorf("load subtitle playlist %s: %w", entry.URI, err)
		}
		payloads, err := scraper.FetchSegments(ctx, opts.Client, opts.UserAgent, playlist.Segments, opts.SegmentConcurrency)
		if err != nil {
			return fmt.Errorf("download segments for %s: %w", entry.Language, err)
		}
		path := filepath.Join(destDir, subtitleFileName(entry, used))
		if err := writeConcatenated(path, payloads); err != nil {
			return err
		}
		logger.Debug("subtitle written",
			slog.String("language", entry.Language),
			slog.String("path", path),
			slog.Int("segments", len(payloads)))
	}
	return nil
}

// WithTempDir runs fn with a scratch directory that is removed on every
// return path, including cancellation and panics.
func WithTempDir(prefix string, fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(dir)
	return fn(dir)
}

func subtitleFileName(entry scraper.SubtitleEntry, used map[string]int) string {
	base := strings.ToLower(strings.TrimSpace(entry.Language))
	if base == "" {
		base = "und"
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, base)
	if entry.Forced {
		base += ".forced"
	}
	n := used[base]
	used[base] = n + 1
	if n > 0 {
		base += "." + strconv.Itoa(n)
	}
	return base + ".vtt"
}

func writeConcatenated(path string, payloads [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create subtitle file: %w", err)
	}
	defer f.Close()
	for _, payload := range payloads {
		if _, err := f.Write(payload); err != nil {
			return fmt.Errorf("write subtitle file %s: %w", path, err)
		}
	}
	return f.Close()
}
