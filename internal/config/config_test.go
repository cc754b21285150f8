package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streambox/internal/config"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7480" {
		t.Fatalf("unexpected default api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Analysis.DelaySeconds != 5 {
		t.Fatalf("unexpected default analysis delay: %d", cfg.Analysis.DelaySeconds)
	}
	if len(cfg.Analysis.SuspiciousTokens) != 1 || cfg.Analysis.SuspiciousTokens[0] != "bad" {
		t.Fatalf("unexpected default suspicious tokens: %v", cfg.Analysis.SuspiciousTokens)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
upload_dir = "` + filepath.Join(dir, "uploads") + `"
api_bind = "127.0.0.1:0"

[analysis]
delay_seconds = 0
suspicious_tokens = ["  BAD  ", "", "Virus"]

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	want := []string{"bad", "virus"}
	if len(cfg.Analysis.SuspiciousTokens) != len(want) {
		t.Fatalf("suspicious tokens = %v, want %v", cfg.Analysis.SuspiciousTokens, want)
	}
	for i, token := range want {
		if cfg.Analysis.SuspiciousTokens[i] != token {
			t.Fatalf("suspicious tokens = %v, want %v", cfg.Analysis.SuspiciousTokens, want)
		}
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		snippet string
		wantErr string
	}{
		{"bad bind", "[paths]\napi_bind = \"nonsense\"\n", "api_bind"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.snippet), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when config already exists")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Server.EventBufferSize != 16 {
		t.Fatalf("sample event buffer size = %d, want 16", cfg.Server.EventBufferSize)
	}
}
