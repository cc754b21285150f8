package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// ContentType is the fixed media type for streamed objects. This service
// does not sniff content.
const ContentType = "video/mp4"

// chunkSize bounds the per-iteration copy so arbitrarily large objects are
// never buffered whole and cancellation is checked regularly.
const chunkSize = 64 * 1024

// Respond writes the planned portion of src to w with the status code and
// headers partial-content semantics require. The caller supplies the object
// size it already knows from metadata; src must read from the object start.
//
// The body is copied in bounded chunks. A cancelled context or a failed
// write (client gone) stops the copy promptly.
func Respond(ctx context.Context, w http.ResponseWriter, src io.ReadSeeker, size int64, plan Plan) error {
	if plan.Whole {
		writeWholeHeaders(w, size)
		return copyBytes(ctx, w, src, size)
	}

	if _, err := src.Seek(plan.Start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", plan.Start, err)
	}

	writeRangeHeaders(w, size, plan)
	return copyBytes(ctx, w, src, plan.Length(size))
}

// RespondHead writes exactly the status and headers Respond would send,
// without touching the object. HEAD requests use it so the object is never
// read just to be discarded.
func RespondHead(w http.ResponseWriter, size int64, plan Plan) {
	if plan.Whole {
		writeWholeHeaders(w, size)
		return
	}
	writeRangeHeaders(w, size, plan)
}

func writeWholeHeaders(w http.ResponseWriter, size int64) {
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
}

func writeRangeHeaders(w http.ResponseWriter, size int64, plan Plan) {
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", plan.Start, plan.End, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(plan.Length(size), 10))
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusPartialContent)
}

// WriteUnsatisfiable writes the 416 response for a range that selects no
// bytes, naming the object length so the client can correct itself.
func WriteUnsatisfiable(w http.ResponseWriter, size int64) {
	w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
	w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
}

func copyBytes(ctx context.Context, dst io.Writer, src io.Reader, length int64) error {
	buf := make([]byte, chunkSize)
	remaining := length
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		read, err := src.Read(buf[:n])
		if read > 0 {
			if _, werr := dst.Write(buf[:read]); werr != nil {
				return werr
			}
			remaining -= int64(read)
		}
		if err != nil {
			if err == io.EOF && remaining == 0 {
				return nil
			}
			return fmt.Errorf("read object: %w", err)
		}
	}
	return nil
}
