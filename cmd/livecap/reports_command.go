package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"livecap/internal/ipc"
)

func newReportsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show recent pipeline failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reports(limit)
				if err != nil {
					return fmt.Errorf("fetch reports: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Reports) == 0 {
					fmt.Fprintln(stdout, "No recent failures")
					return nil
				}
				rows := make([][]string, 0, len(resp.Reports))
				for _, r := range resp.Reports {
					rows = append(rows, []string{
						r.Time.Format("2006-01-02 15:04:05"),
						r.SessionID,
						r.Stage,
						r.Message,
					})
				}
				table := renderTable([]column{
					{title: "Time"},
					{title: "Session"},
					{title: "Stage"},
					{title: "Message"},
				}, rows)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of reports to show")
	return cmd
}
