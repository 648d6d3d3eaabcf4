package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"PaperArchiver/internal/archive"
	"PaperArchiver/internal/core"
)

var errAuditFailed = errors.New("archive audit found problems")

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var checkPDF bool

	cmd := &cobra.Command{
		Use:   "verify <venue> <year>",
		Short: "Check that ledger rows and archived files match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, year, err := venueYear(args)
			if err != nil {
				return err
			}
			return withApp(ctx, func(app *core.App) error {
				report, err := app.Verify(name, year, checkPDF)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report, checkPDF)
				if !report.OK() {
					return errAuditFailed
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&checkPDF, "pdf", false, "Open every archived file as a PDF")
	return cmd
}

func printReport(out io.Writer, r *archive.AuditReport, checkPDF bool) {
	verified := "-"
	if checkPDF {
		verified = strconv.Itoa(r.Verified)
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Venue", "Year", "Rows", "Files", "Verified", "Missing", "Untracked", "Partial", "Corrupt"},
		[][]string{{
			r.Venue, strconv.Itoa(r.Year), strconv.Itoa(r.Rows), strconv.Itoa(r.Files), verified,
			strconv.Itoa(len(r.Missing)), strconv.Itoa(len(r.Untracked)), strconv.Itoa(len(r.Partial)), strconv.Itoa(len(r.Corrupt)),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}, 0))

	var rows [][]string
	for _, f := range r.Missing {
		rows = append(rows, []string{"missing", f})
	}
	for _, f := range r.Untracked {
		rows = append(rows, []string{"untracked", f})
	}
	for _, f := range r.Partial {
		rows = append(rows, []string{"partial", f})
	}
	for _, c := range r.Corrupt {
		rows = append(rows, []string{"corrupt", c.Filename + ": " + c.Problem})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable([]string{"Problem", "File"}, rows, nil, 80))
	}
}
