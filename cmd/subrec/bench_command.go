package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subrec/internal/bench"
	"subrec/internal/language"
	"subrec/internal/logging"
	"subrec/internal/pipeline"
	"subrec/internal/replay"
	"subrec/internal/scraper"
)

func newBenchCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string
	var fixturesFlag string
	var languagesFlag []string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the subtitle download pipeline against recorded fixtures",
		Long: "Bench replaces the network with a replay transport backed by a fixed " +
			"fixture set and measures the full resolve-and-download operation under " +
			"the configured worker, value, and warm-up counts.",
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

			root := fixturesFlag
			if root == "" {
				root = cfg.Paths.FixtureRoot
			}
			index, err := replay.LoadIndex(logger, root)
			if err != nil {
				return err
			}
			transport := replay.NewTransport(index)
			languages := language.NormalizeList(languagesFlag)

			// Each iteration builds a fresh scraper over the shared replay
			// transport and downloads into its own scratch directory, so no
			// state leaks between measured runs.
			op := func(ctx context.Context) error {
				client := transport.Client()
				scr, err := reg.New(scraper.Options{
					HTTPClient:         client,
					Logger:             logging.NewNop(),
					UserAgent:          cfg.Capture.UserAgent,
					SegmentConcurrency: cfg.Capture.SegmentConcurrency,
				})
				if err != nil {
					return err
				}
				return pipeline.WithTempDir("subrec-bench-", func(dir string) error {
					return pipeline.Download(ctx, scr, urlFlag, languages, dir, pipeline.Options{
						Client:             client,
						Logger:             logging.NewNop(),
						UserAgent:          cfg.Capture.UserAgent,
						SegmentConcurrency: cfg.Capture.SegmentConcurrency,
					})
				})
			}

			opts := bench.Options{
				Workers: cfg.Benchmark.Workers,
				Values:  cfg.Benchmark.Values,
				Warmups: cfg.Benchmark.Warmups,
			}
			started := time.Now()
			result, err := bench.Run(cmd.Context(), opts, op)
			if err != nil {
				return fmt.Errorf("benchmark failed: %w", err)
			}

			rows := [][]string{
				{"samples", strconv.Itoa(len(result.Samples))},
				{"min", result.Min().String()},
				{"median", result.Median().String()},
				{"mean", result.Mean().String()},
				{"max", result.Max().String()},
				{"stddev", result.StdDev().String()},
				{"wall time", time.Since(started).Round(time.Millisecond).String()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"METRIC", "VALUE"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Media page URL to benchmark (required)")
	cmd.Flags().StringVar(&fixturesFlag, "fixtures", "", "Fixture root to replay from (default: configured fixture_root)")
	cmd.Flags().StringSliceVarP(&languagesFlag, "languages", "l", nil, "Language codes to download (default: all)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
