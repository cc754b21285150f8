package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedRange indicates the Range header does not follow the
	// single-range bytes= grammar.
	ErrMalformedRange = errors.New("malformed range header")
	// ErrUnsatisfiableRange indicates a syntactically valid range that
	// selects no bytes of the object.
	ErrUnsatisfiableRange = errors.New("unsatisfiable range")
)

// Plan is the resolved decision for one request: serve the whole object,
// or the inclusive byte interval [Start, End].
type Plan struct {
	Whole bool
	Start int64
	End   int64
}

// Length returns the number of body bytes the plan selects.
func (p Plan) Length(size int64) int64 {
	if p.Whole {
		return size
	}
	return p.End - p.Start + 1
}

// ParseRange resolves an optional Range header value against an object of
// the given size.
//
// An empty header means the whole object. A single bytes=start-end spec
// (end optional, clamped to size-1) or suffix spec bytes=-N (the last N
// bytes, clamped to the whole object when N exceeds it) yields a byte
// range. Multiple comma-separated ranges are rejected as malformed rather
// than partially served. A resolved range with start past the end of the
// object is unsatisfiable.
func ParseRange(header string, size int64) (Plan, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Plan{Whole: true}, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
	}
	if strings.Contains(spec, ",") {
		return Plan{}, fmt.Errorf("%w: multiple ranges in %q", ErrMalformedRange, header)
	}

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)

	case startStr == "":
		// Suffix form bytes=-N: the last N bytes.
		n, err := parseByteOffset(endStr)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
		}
		start = size - n
		if start < 0 {
			start = 0
		}
		end = size - 1

	default:
		var err error
		if start, err = parseByteOffset(startStr); err != nil {
			return Plan{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
		}
		if endStr == "" {
			end = size - 1
		} else {
			if end, err = parseByteOffset(endStr); err != nil {
				return Plan{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
			}
			if end > size-1 {
				end = size - 1
			}
		}
	}

	if start >= size || start > end {
		return Plan{}, fmt.Errorf("%w: %q against %d bytes", ErrUnsatisfiableRange, header, size)
	}
	return Plan{Start: start, End: end}, nil
}

// parseByteOffset parses a non-negative decimal integer, rejecting signs
// and other decorations strconv would otherwise allow.
func parseByteOffset(value string) (int64, error) {
	parsed, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, err
	}
	return int64(parsed), nil
}
