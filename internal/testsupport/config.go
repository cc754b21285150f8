package testsupport

import (
	"path/filepath"
	"testing"

	"streambox/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The analysis delay is zeroed so background jobs resolve instantly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.UploadDir = filepath.Join(base, "uploads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Analysis.DelaySeconds = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSuspiciousTokens overrides the analysis heuristic tokens.
func WithSuspiciousTokens(tokens ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analysis.SuspiciousTokens = tokens
	}
}

// WithEventBufferSize overrides the per-subscriber event queue depth.
func WithEventBufferSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.EventBufferSize = size
	}
}
