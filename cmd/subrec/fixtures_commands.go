package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"subrec/internal/replay"
)

func newFixturesCommand(ctx *commandContext) *cobra.Command {
	fixturesCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Inspect captured fixture sets",
	}
	fixturesCmd.AddCommand(newFixturesListCommand(ctx))
	fixturesCmd.AddCommand(newFixturesVerifyCommand(ctx))
	return fixturesCmd
}

func newFixturesListCommand(ctx *commandContext) *cobra.Command {
	var rootFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every replayable URL under the fixture root",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, root, err := loadIndexForCommand(ctx, rootFlag)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, index.Len())
			for _, url := range index.URLs() {
				path, _ := index.Lookup(url)
				if rel, err := filepath.Rel(root, path); err == nil {
					path = rel
				}
				rows = append(rows, []string{url, path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"URL", "FIXTURE"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries under %s\n", index.Len(), root)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", "Fixture root to scan (default: configured fixture_root)")
	return cmd
}

func newFixturesVerifyCommand(ctx *commandContext) *cobra.Command {
	var rootFlag string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every indexed fixture file exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, root, err := loadIndexForCommand(ctx, rootFlag)
			if err != nil {
				return err
			}

			missing := 0
			for _, url := range index.URLs() {
				path, _ := index.Lookup(url)
				if _, err := os.Stat(path); err != nil {
					missing++
					fmt.Fprintf(cmd.OutOrStdout(), "missing: %s (%s)\n", path, url)
				}
			}
			if missing > 0 {
				return fmt.Errorf("%s of %s fixtures missing under %s",
					strconv.Itoa(missing), strconv.Itoa(index.Len()), root)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "All %d fixtures present under %s\n", index.Len(), root)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", "Fixture root to scan (default: configured fixture_root)")
	return cmd
}

func loadIndexForCommand(ctx *commandContext, rootFlag string) (*replay.Index, string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, "", err
	}
	root := rootFlag
	if root == "" {
		root = cfg.Paths.FixtureRoot
	}
	index, err := replay.LoadIndex(logger, root)
	if err != nil {
		return nil, "", err
	}
	return index, root, nil
}
