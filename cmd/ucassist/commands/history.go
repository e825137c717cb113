package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <courses|exams|grades|books>",
	Short: "List the snapshots kept for an operation, or print the latest one with --latest.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		operation := args[0]
		if !slices.Contains(operations, operation) {
			return fmt.Errorf("unknown operation %q, expected one of %v", operation, operations)
		}

		ctx := cmd.Context()
		g := getGlobals(ctx)
		if g.store == nil {
			return fmt.Errorf("no database configured, pass --db or set database in the config")
		}

		latest, _ := cmd.Flags().GetBool("latest")
		if latest {
			snap, err := g.store.Latest(ctx, operation)
			if err != nil {
				return err
			}
			if tableOut {
				data, err := decodeSnapshot(operation, snap.Data)
				if err != nil {
					return err
				}
				return renderTable(cmd.OutOrStdout(), data)
			}
			return printEnvelope(cmd.OutOrStdout(), snap.Envelope())
		}

		snaps, err := g.store.List(ctx, operation, historyLimit)
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Id", "Code", "Size", "Created"})
		for _, s := range snaps {
			t.AppendRow(table.Row{s.Id, s.Code, len(s.Data), s.CreatedAt.Format(time.DateTime)})
		}
		t.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of snapshots to list.")
	historyCmd.Flags().Bool("latest", false, "Print the latest snapshot instead of listing them.")
	rootCmd.AddCommand(historyCmd)
}
