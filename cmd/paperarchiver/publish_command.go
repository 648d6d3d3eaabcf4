package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"PaperArchiver/internal/core"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var (
		target     string
		collection string
	)

	cmd := &cobra.Command{
		Use:   "publish <venue> <year>",
		Short: "Publish a ledger to a Feishu bitable or a Zotero library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, year, err := venueYear(args)
			if err != nil {
				return err
			}
			return withApp(ctx, func(app *core.App) error {
				switch strings.ToLower(target) {
				case "feishu":
					url, err := app.Publish(cmd.Context(), name, year)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), url)
				case "zotero":
					n, err := app.PublishZotero(cmd.Context(), name, year, collection)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %d items to zotero\n", n)
				default:
					return fmt.Errorf("unknown publish target: %s", target)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&target, "to", "feishu", "Publish target (feishu or zotero)")
	cmd.Flags().StringVar(&collection, "collection", "", "Zotero collection key")
	return cmd
}
