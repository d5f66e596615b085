package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trakt2letterboxd/internal/config"
	"trakt2letterboxd/internal/export"
	"trakt2letterboxd/internal/trakt"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var lists []string
	var outputDir string
	var recent int
	var noReviews bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export Trakt lists to Letterboxd CSV files",
		Long: "Authenticate with Trakt (running the device flow if no credential is cached),\n" +
			"fetch ratings, reviews and the configured lists, and write one CSV per list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd)
			if err != nil {
				return err
			}

			opts := export.Options{
				OutputDir:      svc.cfg.Paths.OutputDir,
				Lists:          svc.cfg.Export.Lists,
				RecentLimit:    svc.cfg.Export.RecentLimit,
				IncludeReviews: svc.cfg.Export.IncludeReviews,
			}
			if cmd.Flags().Changed("list") {
				selected, err := normalizeLists(lists)
				if err != nil {
					return err
				}
				opts.Lists = selected
			}
			if dir := strings.TrimSpace(outputDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				if err := os.MkdirAll(expanded, 0o755); err != nil {
					return fmt.Errorf("create output dir %q: %w", expanded, err)
				}
				opts.OutputDir = expanded
			}
			if cmd.Flags().Changed("recent") {
				if recent < 0 {
					return errors.New("--recent must be >= 0")
				}
				opts.RecentLimit = recent
			}
			if noReviews {
				opts.IncludeReviews = false
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, "Initializing...")

			var results []export.Result
			err = withCredentialLock(svc.cfg, func() error {
				presenter := newConsolePresenter(out)
				sess, err := svc.auth.Authenticate(cmd.Context(), presenter)
				presenter.finish()
				if err != nil {
					return err
				}

				fetcher := trakt.NewFetcher(svc.client, svc.store, svc.logger)
				results, err = export.NewRunner(fetcher, opts, svc.logger).Run(cmd.Context(), sess)
				return err
			})
			if err != nil {
				return err
			}

			for _, result := range results {
				if result.Written {
					fmt.Fprintln(out, renderStatusLine(result.Label, statusOK, fmt.Sprintf("exported to '%s'", result.Path), colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine(result.Label, statusWarn, "no movies found", colorize))
				}
			}
			if summary := renderExportSummary(results); summary != "" {
				fmt.Fprintln(out, summary)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&lists, "list", "l", nil, "Lists to export (history, watchlist); defaults to export.lists")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for CSV files; defaults to paths.output_dir")
	cmd.Flags().IntVar(&recent, "recent", 0, "Also write the N most recent history entries (0 disables); defaults to export.recent_limit")
	cmd.Flags().BoolVar(&noReviews, "no-reviews", false, "Skip fetching Trakt comments")
	return cmd
}

func normalizeLists(values []string) ([]string, error) {
	lists := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		name := strings.ToLower(strings.TrimSpace(value))
		if name == "" {
			continue
		}
		if !config.IsSupportedList(name) {
			return nil, fmt.Errorf("unsupported list %q (want %s or %s)", value, config.ListHistory, config.ListWatchlist)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		lists = append(lists, name)
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("--list requires at least one of %s, %s", config.ListHistory, config.ListWatchlist)
	}
	return lists, nil
}
