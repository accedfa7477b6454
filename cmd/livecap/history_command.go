package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"livecap/internal/ipc"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived captions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.History(strings.TrimSpace(sessionID), limit)
				if err != nil {
					return fmt.Errorf("fetch history: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Entries) == 0 {
					fmt.Fprintln(stdout, "No archived captions")
					return nil
				}
				rows := make([][]string, 0, len(resp.Entries))
				for _, e := range resp.Entries {
					rows = append(rows, []string{
						e.DisplayedAt.Format("2006-01-02 15:04:05"),
						e.SessionID,
						e.MediumLabel,
						formatCaptionWindow(e.StartTime, e.EndTime),
						e.Text,
					})
				}
				table := renderTable([]column{
					{title: "Displayed"},
					{title: "Session"},
					{title: "Medium"},
					{title: "Window", right: true},
					{title: "Text"},
				}, rows)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Limit history to one session")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of captions to show")
	return cmd
}

func formatCaptionWindow(start, end float64) string {
	return fmt.Sprintf("%s-%s", formatPosition(start), formatPosition(end))
}
