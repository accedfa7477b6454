package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"livecap/internal/ipc"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List live caption sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionList()
				if err != nil {
					return fmt.Errorf("list sessions: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Sessions) == 0 {
					fmt.Fprintln(stdout, "No live sessions")
					return nil
				}
				fmt.Fprintln(stdout, renderSessionTable(resp.Sessions))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show details for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionDescribe(id)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintln(stdout, renderSessionDetail(resp.Session))
				return nil
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session-id>",
		Short: "Tear down a session and release its resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionRemove(id)
				if err != nil {
					return fmt.Errorf("remove session: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if resp.Removed {
					fmt.Fprintf(stdout, "Session %s removed\n", id)
				} else {
					fmt.Fprintf(stdout, "Session %s not found\n", id)
				}
				return nil
			})
		},
	}
}

func renderSessionDetail(s ipc.Session) string {
	rows := [][]string{
		{"ID", s.ID},
		{"Medium", fmt.Sprintf("%s (%s)", s.Label, s.MediumID)},
		{"State", sessionStateDetail(s)},
		{"Playing", yesNo(s.Playing)},
		{"Position", formatPosition(s.Position)},
		{"Rate", strconv.FormatFloat(s.Rate, 'f', 2, 64)},
		{"Audio", yesNo(s.HasAudio)},
		{"Queued captions", strconv.Itoa(s.QueueLength)},
		{"Created", s.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Last activity", s.LastActivity.Format("2006-01-02 15:04:05")},
	}
	if transcript := strings.TrimSpace(s.Transcript); transcript != "" {
		rows = append(rows, []string{"Transcript", transcript})
	}
	return renderTable([]column{{title: "Field"}, {title: "Value"}}, rows)
}

func sessionStateDetail(s ipc.Session) string {
	if strings.TrimSpace(s.Message) == "" {
		return s.State
	}
	return fmt.Sprintf("%s (%s)", s.State, s.Message)
}
