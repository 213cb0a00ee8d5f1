// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config

	if got := cfg.LibraryBaseURL(); got != "http://127.0.0.1:8000" {
		t.Fatalf("LibraryBaseURL default: %q", got)
	}
	if got := cfg.ArchiveBaseURL(); got != "http://127.0.0.1:8001" {
		t.Fatalf("ArchiveBaseURL default: %q", got)
	}
	if got := cfg.RequestTimeout(); got != 120*time.Second {
		t.Fatalf("RequestTimeout default: %s", got)
	}
	if got := cfg.PollInterval(); got != 3*time.Second {
		t.Fatalf("PollInterval default: %s", got)
	}
	if got := cfg.PollAttempts(); got != 40 {
		t.Fatalf("PollAttempts default: %d", got)
	}
	if got := cfg.ResultCount(); got != 5 {
		t.Fatalf("ResultCount default: %d", got)
	}
	if got := cfg.LogFilePath(); got != "bookshelf.log" {
		t.Fatalf("LogFilePath default: %q", got)
	}
}

func TestConfigOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		LibraryURL:          "http://books.internal:9000/",
		TimeoutSeconds:      7,
		PollIntervalSeconds: 1,
		PollMaxAttempts:     3,
		ResultCountHint:     9,
	}

	if got := cfg.LibraryBaseURL(); got != "http://books.internal:9000" {
		t.Fatalf("LibraryBaseURL should strip trailing slash: %q", got)
	}
	if got := cfg.RequestTimeout(); got != 7*time.Second {
		t.Fatalf("RequestTimeout override: %s", got)
	}
	if got := cfg.PollInterval(); got != time.Second {
		t.Fatalf("PollInterval override: %s", got)
	}
	if got := cfg.PollAttempts(); got != 3 {
		t.Fatalf("PollAttempts override: %d", got)
	}
	if got := cfg.ResultCount(); got != 9 {
		t.Fatalf("ResultCount override: %d", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	payload := `{"libraryUrl":"http://lib:8000","archiveUrl":"http://arc:8001","timeout":30,"debug":true}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LibraryURL != "http://lib:8000" || cfg.ArchiveURL != "http://arc:8001" {
		t.Fatalf("unexpected URLs: %+v", cfg)
	}
	if cfg.TimeoutSeconds != 30 || !cfg.Debug {
		t.Fatalf("unexpected fields: %+v", cfg)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("ConfigPath not recorded: %q", cfg.ConfigPath)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestShowConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{LibraryURL: "http://lib:8000", Debug: true}
	var buf bytes.Buffer
	ShowConfig(&buf, "config/config.json", &cfg, Config{})

	out := buf.String()
	for _, fragment := range []string{
		"Config file: config/config.json",
		"Library URL:     http://lib:8000",
		"Debug:           true",
		"Poll Attempts:   40",
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("ShowConfig output missing %q:\n%s", fragment, out)
		}
	}
}
