package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"PaperArchiver/internal/archive"
	"PaperArchiver/internal/core"
	"PaperArchiver/internal/models"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	var (
		docs         []string
		maxDownloads int
		skipDownload bool
		delaySeconds int
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "archive <venue> <year>",
		Short: "Download a venue's papers for one year and record them in the ledger",
		Example: `  paperarchiver archive NeurIPS 2023
  paperarchiver archive aaai 2024 --max-downloads 50
  paperarchiver archive iclr 2019 --skip-download`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, year, err := venueYear(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			req := core.ArchiveRequest{
				Venue:        name,
				Year:         year,
				Documents:    docs,
				MaxDownloads: cfg.Archive.MaxDownloads,
				SkipDownload: cfg.Archive.SkipDownload,
				Delay:        delayFromSeconds(cfg.Archive.DelaySeconds),
				Workers:      cfg.Archive.Workers,
			}
			flags := cmd.Flags()
			if flags.Changed("max-downloads") {
				req.MaxDownloads = maxDownloads
			}
			if flags.Changed("skip-download") {
				req.SkipDownload = skipDownload
			}
			if flags.Changed("delay") {
				if delaySeconds < 0 {
					return fmt.Errorf("invalid delay: %d", delaySeconds)
				}
				req.Delay = delayFromSeconds(delaySeconds)
			}
			if flags.Changed("workers") {
				req.Workers = workers
			}

			return withApp(ctx, func(app *core.App) error {
				stats, err := app.Archive(cmd.Context(), req)
				if stats != nil {
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(archive.SummaryHeaders, [][]string{stats.Row()}, summaryAligns(), 0))
					if stats.Interrupted {
						fmt.Fprintln(cmd.OutOrStdout(), "* run interrupted; rerun the same command to resume")
					}
				}
				return err
			})
		},
	}

	cmd.Flags().StringSliceVar(&docs, "doc", nil, "Listing document(s) to parse instead of the default layout under sources.html_root")
	cmd.Flags().IntVarP(&maxDownloads, "max-downloads", "n", archive.Unlimited, "Maximum download attempts in this run (-1 for no limit)")
	cmd.Flags().BoolVar(&skipDownload, "skip-download", false, "Only record ledger rows, do not fetch files")
	cmd.Flags().IntVar(&delaySeconds, "delay", 1, "Minimum seconds between two downloads (0 for no delay)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Concurrent downloads")

	return cmd
}

func summaryAligns() []columnAlignment {
	aligns := make([]columnAlignment, len(archive.SummaryHeaders))
	for i := 3; i < len(aligns); i++ {
		aligns[i] = alignRight
	}
	return aligns
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var docs []string
	var limit int

	cmd := &cobra.Command{
		Use:   "list <venue> <year>",
		Short: "Parse a venue listing and print the records without archiving",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, year, err := venueYear(args)
			if err != nil {
				return err
			}
			return withApp(ctx, func(app *core.App) error {
				p, res, err := app.Collect(cmd.Context(), name, year, docs)
				if err != nil {
					return err
				}

				records := res.Records
				if limit > 0 && len(records) > limit {
					records = records[:limit]
				}
				rows := make([][]string, 0, len(records))
				for i, r := range records {
					rows = append(rows, recordRow(i+1, r))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable([]string{"#", "Title", "Authors", "Category", "PDF"}, rows, []columnAlignment{alignRight}, 60))
				fmt.Fprintf(out, "%s %d: %d records\n", p.Name(), year, res.Total)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&docs, "doc", nil, "Listing document(s) to parse instead of the default layout")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Print at most this many records (0 for all)")
	return cmd
}

func recordRow(n int, r *models.Record) []string {
	return []string{strconv.Itoa(n), r.Title, r.Authors, r.Category, r.PDFURL}
}
