package analysis_test

import (
	"testing"

	"streambox/internal/analysis"
	"streambox/internal/catalog"
)

func TestHeuristicClassifier(t *testing.T) {
	classify := analysis.HeuristicClassifier([]string{"bad", "Virus "})

	cases := []struct {
		ref     string
		status  catalog.Status
		verdict catalog.Sensitivity
	}{
		{"1700000000-holiday.mp4", catalog.StatusProcessed, catalog.SensitivitySafe},
		{"1700000000-bad-clip.mp4", catalog.StatusFlagged, catalog.SensitivityUnsafe},
		{"1700000000-BADGER.mp4", catalog.StatusFlagged, catalog.SensitivityUnsafe},
		{"some-virus.mp4", catalog.StatusFlagged, catalog.SensitivityUnsafe},
		{"", catalog.StatusProcessed, catalog.SensitivitySafe},
	}
	for _, tc := range cases {
		got := classify(tc.ref)
		if got.Status != tc.status || got.Sensitivity != tc.verdict {
			t.Fatalf("classify(%q) = %+v, want {%s %s}", tc.ref, got, tc.status, tc.verdict)
		}
	}
}

func TestHeuristicClassifierWithNoTokensPassesEverything(t *testing.T) {
	classify := analysis.HeuristicClassifier(nil)
	got := classify("anything-bad.mp4")
	if got.Status != catalog.StatusProcessed || got.Sensitivity != catalog.SensitivitySafe {
		t.Fatalf("classify = %+v, want processed/safe", got)
	}
}
