package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"streambox/internal/api"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect the video catalog",
	}

	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosShowCommand(ctx))

	return videosCmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/videos"
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				path += "?status=" + url.QueryEscape(trimmed)
			}
			var payload api.VideoListResponse
			if err := ctx.getJSON(cmd.Context(), path, &payload); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(payload.Videos) == 0 {
				fmt.Fprintln(out, "No videos in the catalog.")
				return nil
			}

			rows := make([][]string, 0, len(payload.Videos))
			for _, video := range payload.Videos {
				rows = append(rows, []string{
					video.ID,
					video.Title,
					video.Status,
					video.Sensitivity,
					formatSize(video.Size),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Status", "Sensitivity", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (pending, processed, flagged)")
	return cmd
}

func newVideosShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload api.VideoResponse
			if err := ctx.getJSON(cmd.Context(), "/api/videos/"+url.PathEscape(args[0]), &payload); err != nil {
				return err
			}
			video := payload.Video
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", video.ID)
			fmt.Fprintf(out, "Title:       %s\n", video.Title)
			fmt.Fprintf(out, "Filename:    %s\n", video.Filename)
			fmt.Fprintf(out, "Size:        %s\n", formatSize(video.Size))
			fmt.Fprintf(out, "Status:      %s\n", video.Status)
			fmt.Fprintf(out, "Sensitivity: %s\n", video.Sensitivity)
			if video.Uploader != "" {
				fmt.Fprintf(out, "Uploader:    %s\n", video.Uploader)
			}
			fmt.Fprintf(out, "Created:     %s\n", video.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Updated:     %s\n", video.UpdatedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
