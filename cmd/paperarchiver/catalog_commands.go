package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"PaperArchiver/internal/core"
	"PaperArchiver/internal/models"
)

type conditionFlags struct {
	venues   []string
	yearFrom int
	yearTo   int
	category string
	limit    int
}

func (f *conditionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.venues, "venue", nil, "Only these venues")
	cmd.Flags().IntVar(&f.yearFrom, "from", 0, "Earliest year")
	cmd.Flags().IntVar(&f.yearTo, "to", 0, "Latest year")
	cmd.Flags().StringVar(&f.category, "category", "", "Category substring")
	cmd.Flags().IntVarP(&f.limit, "limit", "l", 0, "Maximum results (0 for all)")
}

func (f *conditionFlags) condition() models.SearchCondition {
	return models.SearchCondition{
		Venues:   f.venues,
		YearFrom: f.yearFrom,
		YearTo:   f.yearTo,
		Category: f.category,
		Limit:    f.limit,
	}
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "index [venue] [year]",
		Short: "Load ledgers into the search index",
		Long:  "Load ledger rows into the sqlite search index. Without arguments every ledger under archive.save_dir is indexed.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				name string
				year int
				err  error
			)
			if len(args) > 0 {
				name = args[0]
			}
			if len(args) > 1 {
				if year, err = parseYear(args[1]); err != nil {
					return err
				}
			}
			return withApp(ctx, func(app *core.App) error {
				n, err := app.Index(cmd.Context(), name, year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d entries\n", n)
				return nil
			})
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		cond      conditionFlags
		algorithm string
		exact     bool
	)

	cmd := &cobra.Command{
		Use:   "search [keywords...]",
		Short: "Search indexed papers by title or authors",
		Long:  "Rank indexed papers by relevance (bm25 or tfidf). With --exact the keywords are matched as one substring instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withApp(ctx, func(app *core.App) error {
				var (
					entries []*models.LedgerEntry
					scores  []string
				)
				if exact || query == "" {
					found, err := app.Search(query, cond.condition())
					if err != nil {
						return err
					}
					entries = found
				} else {
					results, err := app.Rank(query, algorithm, cond.condition())
					if err != nil {
						return err
					}
					for _, r := range results {
						entries = append(entries, r.Entry)
						scores = append(scores, strconv.FormatFloat(r.Score, 'f', 2, 64))
					}
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "no matching papers")
					return nil
				}

				headers := []string{"Venue", "Year", "Title", "Authors", "Category", "File"}
				aligns := []columnAlignment{alignLeft, alignRight}
				if scores != nil {
					headers = append(headers, "Score")
					aligns = append(aligns, alignLeft, alignLeft, alignLeft, alignLeft, alignRight)
				}
				rows := make([][]string, 0, len(entries))
				for i, e := range entries {
					row := []string{e.Venue, strconv.Itoa(e.Year), e.Title, e.Authors, e.Category, e.Filename}
					if scores != nil {
						row = append(row, scores[i])
					}
					rows = append(rows, row)
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns, 60))
				fmt.Fprintf(out, "%d papers\n", len(entries))
				return nil
			})
		},
	}
	cond.register(cmd)
	cmd.Flags().StringVar(&algorithm, "algo", "bm25", "Ranking algorithm (bm25 or tfidf)")
	cmd.Flags().BoolVar(&exact, "exact", false, "Match keywords as a substring of title or authors")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		cond   conditionFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [keywords...]",
		Short: "Export indexed papers to CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if output == "" {
				output = "papers." + format
			}
			return withApp(ctx, func(app *core.App) error {
				n, err := app.Export(format, output, strings.Join(args, " "), cond.condition())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d papers to %s\n", n, output)
				return nil
			})
		},
	}
	cond.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format (csv or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default papers.<format>)")
	return cmd
}
