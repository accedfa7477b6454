package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"livecap/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}
				sessions, err := client.SessionList()
				if err != nil {
					return fmt.Errorf("fetch sessions: %w", err)
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				fmt.Fprintln(stdout, renderSectionHeader("Daemon Status", colorize))
				for _, line := range daemonStatusLines(status, colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout)

				fmt.Fprintln(stdout, renderSectionHeader("Live Sessions", colorize))
				if len(sessions.Sessions) == 0 {
					fmt.Fprintln(stdout, "No live sessions")
					return nil
				}
				fmt.Fprintln(stdout, renderSessionTable(sessions.Sessions))
				return nil
			})
		},
	}
}

func daemonStatusLines(status *ipc.StatusResponse, colorize bool) []string {
	runningKind := statusError
	runningText := "Not running"
	if status.Running {
		runningKind = statusOK
		runningText = fmt.Sprintf("Running (pid %d)", status.PID)
	}

	capacity := fmt.Sprintf("%d of %d", status.SessionCount, status.MaxSessions)
	capacityKind := statusOK
	if status.SessionCount >= status.MaxSessions {
		capacityKind = statusWarn
	}

	recognizerKind := statusInfo
	recognizerText := "Idle"
	if status.RecognizerListening {
		recognizerKind = statusOK
		recognizerText = "Listening"
	}

	lines := []string{
		renderStatusLine("Daemon", runningKind, runningText, colorize),
		renderStatusLine("Sessions", capacityKind, capacity, colorize),
		renderStatusLine("Recognizer", recognizerKind, recognizerText, colorize),
		renderStatusLine("Socket", statusInfo, status.SocketPath, colorize),
	}
	if status.ArchivePath != "" {
		lines = append(lines, renderStatusLine("Archive", statusInfo, status.ArchivePath, colorize))
	}
	return lines
}

func renderSessionTable(sessions []ipc.Session) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.Label,
			s.State,
			yesNo(s.Playing),
			formatPosition(s.Position),
			yesNo(s.HasAudio),
			strconv.Itoa(s.QueueLength),
		})
	}
	return renderTable([]column{
		{title: "Session"},
		{title: "Medium"},
		{title: "State"},
		{title: "Playing"},
		{title: "Position", right: true},
		{title: "Audio"},
		{title: "Queued", right: true},
	}, rows)
}

func formatPosition(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
