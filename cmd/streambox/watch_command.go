package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"streambox/internal/events"
)

// newWatchCommand tails the daemon's event stream and prints one line per
// processing verdict. It runs until interrupted.
func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow processing verdicts as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.apiBase()
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, base+"/api/events", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "text/event-stream")

			// No client timeout: the stream stays open until cancelled.
			client := &http.Client{}
			resp, err := client.Do(req)
			if err != nil {
				return wrapDialError(err, base)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return decodeAPIError(resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching for processing verdicts (Ctrl-C to stop)...")

			scanner := bufio.NewScanner(resp.Body)
			for scanner.Scan() {
				line := scanner.Text()
				if !strings.HasPrefix(line, "data: ") {
					continue
				}
				var event events.ProcessingEvent
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
					continue
				}
				fmt.Fprintf(out, "%s  %s  status=%s sensitivity=%s\n",
					time.Now().Format(time.TimeOnly), event.VideoID, event.Status, event.Sensitivity)
			}
			if err := scanner.Err(); err != nil && cmd.Context().Err() == nil {
				return fmt.Errorf("event stream closed: %w", err)
			}
			return nil
		},
	}
}
