package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"PaperArchiver/internal/core"
)

func newVenuesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List supported venues and the ledgers already archived",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			refs, err := app.Ledgers()
			if err != nil {
				return err
			}

			years := map[string][]int{}
			for _, r := range refs {
				years[r.Venue] = append(years[r.Venue], r.Year)
			}

			var rows [][]string
			for _, name := range core.List() {
				ys := years[name]
				sort.Ints(ys)
				labels := make([]string, 0, len(ys))
				for _, y := range ys {
					labels = append(labels, strconv.Itoa(y))
				}
				rows = append(rows, []string{name, strings.Join(labels, " ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Venue", "Archived years"}, rows, nil, 0))
			return nil
		},
	}
}
