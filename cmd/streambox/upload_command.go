package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"streambox/internal/api"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var title string
	var uploader string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video file for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open upload: %w", err)
			}
			defer file.Close()

			pipeReader, pipeWriter := io.Pipe()
			writer := multipart.NewWriter(pipeWriter)
			go func() {
				err := streamMultipart(writer, file, filepath.Base(args[0]), title, uploader)
				pipeWriter.CloseWithError(err)
			}()

			base, err := ctx.apiBase()
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, base+"/api/videos", pipeReader)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", writer.FormDataContentType())

			resp, err := ctx.httpClient().Do(req)
			if err != nil {
				return wrapDialError(err, base)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				return decodeAPIError(resp)
			}
			var payload api.VideoResponse
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("decode upload response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %q as %s (analysis in progress)\n",
				payload.Video.Title, payload.Video.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Display title (derived from the filename when empty)")
	cmd.Flags().StringVar(&uploader, "uploader", "", "Name recorded as the uploader")
	return cmd
}

func streamMultipart(writer *multipart.Writer, file io.Reader, filename, title, uploader string) error {
	part, err := writer.CreateFormFile("video", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		if err := writer.WriteField("title", trimmed); err != nil {
			return err
		}
	}
	if trimmed := strings.TrimSpace(uploader); trimmed != "" {
		if err := writer.WriteField("uploader", trimmed); err != nil {
			return err
		}
	}
	return writer.Close()
}
