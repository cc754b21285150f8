package analysis

import (
	"strings"

	"streambox/internal/catalog"
)

// Verdict is the terminal state a classification pass assigns to a video.
type Verdict struct {
	Status      catalog.Status
	Sensitivity catalog.Sensitivity
}

// Classifier inspects a storage reference and produces a verdict. The
// orchestration in this package never looks inside; a real content-scanning
// backend can be substituted without touching it.
type Classifier func(storageRef string) Verdict

// HeuristicClassifier builds the default placeholder policy: a storage
// reference containing any of the given tokens (case-insensitive) is
// flagged unsafe, everything else passes as safe.
func HeuristicClassifier(suspiciousTokens []string) Classifier {
	tokens := make([]string, 0, len(suspiciousTokens))
	for _, token := range suspiciousTokens {
		trimmed := strings.ToLower(strings.TrimSpace(token))
		if trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return func(storageRef string) Verdict {
		ref := strings.ToLower(storageRef)
		for _, token := range tokens {
			if strings.Contains(ref, token) {
				return Verdict{Status: catalog.StatusFlagged, Sensitivity: catalog.SensitivityUnsafe}
			}
		}
		return Verdict{Status: catalog.StatusProcessed, Sensitivity: catalog.SensitivitySafe}
	}
}
