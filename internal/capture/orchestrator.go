package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subrec/internal/config"
	"subrec/internal/fixture"
	"subrec/internal/logging"
	"subrec/internal/scraper"
)

// Orchestrator runs live captures against a provider and persists the
// results under the fixture root.
type Orchestrator struct {
	root      string
	userAgent string
	timeout   time.Duration
	parallel  int
	logger    *slog.Logger
}

// NewOrchestrator builds an orchestrator from application configuration.
func NewOrchestrator(cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		root:      cfg.Paths.FixtureRoot,
		userAgent: cfg.Capture.UserAgent,
		timeout:   time.Duration(cfg.Capture.RequestTimeout) * time.Second,
		parallel:  cfg.Capture.SegmentConcurrency,
		logger:    logging.NewComponentLogger(logger, "capture"),
	}
}

// Result summarizes one capture run.
type Result struct {
	OutputDir    string
	ManifestPath string
	Entries      int
	Elapsed      time.Duration
}

// Capture walks the provider's full resolution cascade for rawURL while
// recording every response. It returns the flushed result alongside any
// cascade error: fixtures recorded before a failure are never lost. With
// force it wipes a prior complete capture first; without force a complete
// capture is refused untouched.
func (o *Orchestrator) Capture(ctx context.Context, reg scraper.Registration, rawURL string, languages []string, force bool) (*Result, error) {
	start := time.Now()

	rel, err := reg.OutputPath(rawURL)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	dir := filepath.Join(o.root, rel)
	manifestPath := filepath.Join(dir, fixture.ManifestFileName)

	dirExisted := pathExists(dir)
	if dirExisted && pathExists(manifestPath) {
		if !force {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, dir)
		}
		o.logger.Info("removing existing capture", slog.String("dir", dir))
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("remove existing capture: %w", err)
		}
		dirExisted = false
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}

	store := fixture.NewStore(dir)
	manifest := fixture.NewManifest()
	recorder := NewRecorder(store, manifest, o.logger)
	client := &http.Client{
		Transport: NewTransport(nil, recorder),
		Timeout:   o.timeout,
	}

	scr, err := reg.New(scraper.Options{
		HTTPClient:         client,
		Logger:             o.logger,
		UserAgent:          o.userAgent,
		SegmentConcurrency: o.parallel,
	})
	if err != nil {
		o.cleanupEmpty(dir, dirExisted, manifest)
		return nil, fmt.Errorf("construct scraper %s: %w", reg.ID, err)
	}

	runErr := o.walk(ctx, scr, rawURL, languages)

	// Flush whatever was recorded, even when the cascade failed or the
	// context was cancelled partway through.
	if manifest.Len() == 0 {
		o.cleanupEmpty(dir, dirExisted, manifest)
		return nil, runErr
	}
	if err := manifest.WriteFile(manifestPath); err != nil {
		return nil, err
	}

	res := &Result{
		OutputDir:    dir,
		ManifestPath: manifestPath,
		Entries:      manifest.Len(),
		Elapsed:      time.Since(start),
	}
	o.logger.Info("manifest written",
		slog.String("path", manifestPath),
		slog.Int("entries", res.Entries))
	return res, runErr
}

// walk executes the resolution cascade. Steps up to subtitle discovery are
// abort-on-failure; per-entry subtitle processing is best-effort.
func (o *Orchestrator) walk(ctx context.Context, scr scraper.Scraper, rawURL string, languages []string) error {
	o.logger.Info("fetching media data", slog.String(logging.FieldURL, rawURL))
	media, err := scr.GetData(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoMediaData, rawURL, err)
	}
	if media == nil || len(media.Items) == 0 {
		return fmt.Errorf("%w: %s", ErrNoMediaData, rawURL)
	}

	item := media.Items[0]
	if len(item.Playlists) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPlaylist, rawURL)
	}
	mainURL := item.Playlists[0]

	o.logger.Info("loading main playlist", slog.String(logging.FieldURL, mainURL))
	main, err := scr.LoadPlaylist(ctx, mainURL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPlaylistLoad, mainURL, err)
	}
	if main == nil {
		return fmt.Errorf("%w: %s", ErrPlaylistLoad, mainURL)
	}

	o.logger.Info("searching subtitle playlists",
		slog.String("languages", languagesLabel(languages)))
	entries := scr.FindMatchingSubtitles(main, languages)
	if len(entries) == 0 {
		o.logger.Warn("no matching subtitles found",
			slog.String("languages", languagesLabel(languages)))
		return fmt.Errorf("%w: languages %s", ErrNoSubtitles, languagesLabel(languages))
	}

	downloader, _ := scr.(scraper.SegmentDownloader)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.logger.Info("loading subtitle playlist",
			slog.String(logging.FieldURL, entry.URI),
			slog.String("language", entry.Language))
		playlist, err := scr.LoadPlaylist(ctx, entry.URI)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.logger.Error("subtitle playlist load failed",
				slog.String(logging.FieldURL, entry.URI),
				logging.Error(err))
			continue
		}
		if playlist == nil || len(playlist.Segments) == 0 || downloader == nil {
			continue
		}
		o.logger.Info("downloading segments",
			slog.String(logging.FieldURL, entry.URI),
			slog.Int("segments", len(playlist.Segments)))
		if err := downloader.DownloadSegments(ctx, playlist); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.logger.Error("segment download failed",
				slog.String(logging.FieldURL, entry.URI),
				slog.String("language", entry.Language),
				logging.Error(err))
		}
	}
	return nil
}

// cleanupEmpty removes a directory this run created when nothing was
// captured, so an empty capture leaves no partial state behind.
func (o *Orchestrator) cleanupEmpty(dir string, dirExisted bool, manifest *fixture.Manifest) {
	if dirExisted || manifest.Len() > 0 {
		return
	}
	if err := os.Remove(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		o.logger.Debug("could not remove empty capture directory",
			slog.String("dir", dir), logging.Error(err))
	}
}

func languagesLabel(languages []string) string {
	if len(languages) == 0 {
		return "all"
	}
	return strings.Join(languages, ",")
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
