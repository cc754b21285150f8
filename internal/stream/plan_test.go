package stream_test

import (
	"errors"
	"testing"

	"streambox/internal/stream"
)

func TestParseRangeWholeObject(t *testing.T) {
	plan, err := stream.ParseRange("", 1000)
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}
	if !plan.Whole {
		t.Fatalf("expected whole-object plan, got %+v", plan)
	}
	if plan.Length(1000) != 1000 {
		t.Fatalf("whole length = %d, want 1000", plan.Length(1000))
	}
}

func TestParseRangeValid(t *testing.T) {
	cases := []struct {
		name       string
		header     string
		size       int64
		start, end int64
	}{
		{"explicit interval", "bytes=200-499", 1000, 200, 499},
		{"open end", "bytes=900-", 1000, 900, 999},
		{"single byte", "bytes=0-0", 1000, 0, 0},
		{"last byte", "bytes=999-999", 1000, 999, 999},
		{"end clamped to object", "bytes=500-2000", 1000, 500, 999},
		{"suffix", "bytes=-100", 1000, 900, 999},
		{"suffix larger than object clamps to whole", "bytes=-5000", 1000, 0, 999},
		{"whitespace tolerated", " bytes=1- 9 ", 1000, 1, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := stream.ParseRange(tc.header, tc.size)
			if err != nil {
				t.Fatalf("ParseRange(%q) failed: %v", tc.header, err)
			}
			if plan.Whole {
				t.Fatalf("ParseRange(%q) returned whole-object plan", tc.header)
			}
			if plan.Start != tc.start || plan.End != tc.end {
				t.Fatalf("ParseRange(%q) = [%d,%d], want [%d,%d]",
					tc.header, plan.Start, plan.End, tc.start, tc.end)
			}
		})
	}
}

func TestParseRangeMalformed(t *testing.T) {
	headers := []string{
		"items=0-100",
		"bytes=abc-def",
		"bytes=--5",
		"bytes=-",
		"bytes=",
		"bytes=+5-10",
		"bytes=5-%",
		"bytes=0-100,200-300",
		"bytes=0-100, 200-",
	}
	for _, header := range headers {
		if _, err := stream.ParseRange(header, 1000); !errors.Is(err, stream.ErrMalformedRange) {
			t.Fatalf("ParseRange(%q): expected ErrMalformedRange, got %v", header, err)
		}
	}
}

func TestParseRangeUnsatisfiable(t *testing.T) {
	cases := []struct {
		header string
		size   int64
	}{
		{"bytes=1000-1200", 1000},
		{"bytes=1000-", 1000},
		{"bytes=500-200", 1000},
		{"bytes=-0", 1000},
		{"bytes=0-", 0},
	}
	for _, tc := range cases {
		if _, err := stream.ParseRange(tc.header, tc.size); !errors.Is(err, stream.ErrUnsatisfiableRange) {
			t.Fatalf("ParseRange(%q, %d): expected ErrUnsatisfiableRange, got %v",
				tc.header, tc.size, err)
		}
	}
}
