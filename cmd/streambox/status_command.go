package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"streambox/internal/api"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status api.StatusResponse
			if err := ctx.getJSON(cmd.Context(), "/api/status", &status); err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func renderStatus(out io.Writer, status api.StatusResponse) {
	state := "stopped"
	color := ansiRed
	if status.Running {
		state = "running"
		color = ansiGreen
	}
	if shouldColorize(out) {
		state = color + state + ansiReset
	}

	fmt.Fprintf(out, "Daemon:      %s (pid %d)\n", state, status.PID)
	fmt.Fprintf(out, "Catalog:     %s\n", status.CatalogPath)
	fmt.Fprintf(out, "Subscribers: %d\n", status.Subscribers)
	fmt.Fprintf(out, "Videos:      %d total, %d pending, %d processed, %d flagged\n",
		status.Total, status.Pending, status.Processed, status.Flagged)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
