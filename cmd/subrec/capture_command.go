package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"subrec/internal/capture"
	"subrec/internal/config"
	"subrec/internal/history"
	"subrec/internal/language"
	"subrec/internal/logging"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string
	var languagesFlag []string
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture live HTTP fixtures for a media URL",
		Long: "Capture drives the matching scraper through its full resolution cascade " +
			"against the live target and records every HTTP response as a content-addressed " +
			"fixture plus a manifest, for later offline replay.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			reg, ok := registry.ForURL(urlFlag)
			if !ok {
				return fmt.Errorf("no scraper registered for url: %s", urlFlag)
			}

			languages := language.NormalizeList(languagesFlag)
			if len(languages) == 0 {
				languages = cfg.Capture.Languages
			}

			// One capture at a time per fixture root.
			lock := flock.New(filepath.Join(cfg.Paths.FixtureRoot, ".capture.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire capture lock: %w", err)
			}
			if !locked {
				return errors.New("another capture is already running against this fixture root")
			}
			defer func() { _ = lock.Unlock() }()

			orchestrator := capture.NewOrchestrator(cfg, logger)
			started := time.Now()
			res, runErr := orchestrator.Capture(cmd.Context(), reg, urlFlag, languages, forceFlag)
			recordHistory(cmd.Context(), cfg, logger, historyRun(reg.ID, urlFlag, languages, started, res, runErr))

			switch {
			case runErr == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "Captured %d fixtures to %s\n", res.Entries, res.OutputDir)
				return nil
			case capture.IsRecoverable(runErr):
				// Expected outcomes: logged, process exits cleanly.
				logger.Error("capture did not complete", logging.Error(runErr))
				if res != nil && res.Entries > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Partial capture: %d fixtures flushed to %s\n", res.Entries, res.OutputDir)
				}
				return nil
			default:
				return runErr
			}
		},
	}

	cmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Media page URL to capture (required)")
	cmd.Flags().StringSliceVarP(&languagesFlag, "languages", "l", nil, "Language codes to capture subtitles for (default: all)")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Delete existing fixtures for this URL before capturing")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func historyRun(scraperID, url string, languages []string, started time.Time, res *capture.Result, runErr error) *history.Run {
	run := &history.Run{
		ScraperID:  scraperID,
		URL:        url,
		Languages:  languages,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if res != nil {
		run.Entries = res.Entries
	}
	switch {
	case runErr == nil:
		run.Status = history.StatusCaptured
	case errors.Is(runErr, capture.ErrAlreadyExists):
		run.Status = history.StatusRefused
		run.Error = runErr.Error()
	case errors.Is(runErr, capture.ErrCascadeAbort):
		run.Status = history.StatusAborted
		run.Error = runErr.Error()
	default:
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	return run
}

// recordHistory journals the run outcome. History is advisory and must not
// fail the capture.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, run *history.Run) {
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if err := store.RecordRun(ctx, run); err != nil {
		logger.Warn("could not record capture run", logging.Error(err))
	}
}
