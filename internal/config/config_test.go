package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quartzmill/crashgate/internal/event"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crashgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if cfg.Threshold != DefaultThreshold {
		t.Errorf("threshold = %q, want %q", cfg.Threshold, DefaultThreshold)
	}
	if cfg.Logging.Format != DefaultLogFormat {
		t.Errorf("logging format = %q, want %q", cfg.Logging.Format, DefaultLogFormat)
	}
	if cfg.DSN != "" {
		t.Errorf("dsn = %q, want empty (disabled)", cfg.DSN)
	}
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
version: 1
dsn: https://key@sentry.example.com/1
threshold: warning
strict: true
environment: prod
release: v1.2.3
tags:
  env: prod
  host_id: abc
logging:
  enabled: true
  format: text
journal:
  enabled: true
  path: events.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DSN != "https://key@sentry.example.com/1" {
		t.Errorf("dsn = %q", cfg.DSN)
	}
	if cfg.Threshold != "warning" {
		t.Errorf("threshold = %q, want %q", cfg.Threshold, "warning")
	}
	if !cfg.Strict {
		t.Error("strict = false, want true")
	}
	if cfg.Tags["host_id"] != "abc" {
		t.Errorf("tags[host_id] = %q, want %q", cfg.Tags["host_id"], "abc")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("logging format = %q, want %q", cfg.Logging.Format, "text")
	}

	sev, err := cfg.ThresholdSeverity()
	if err != nil {
		t.Fatalf("ThresholdSeverity returned error: %v", err)
	}
	if sev != event.SeverityWarning {
		t.Errorf("threshold severity = %v, want %v", sev, event.SeverityWarning)
	}
}

func TestLoad_JournalPathRelativeToConfig(t *testing.T) {
	path := writeConfig(t, `
journal:
  enabled: true
  path: events.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := filepath.Join(filepath.Dir(path), "events.db")
	if cfg.Journal.Path != want {
		t.Errorf("journal path = %q, want %q", cfg.Journal.Path, want)
	}
}

func TestLoad_JournalDefaultPath(t *testing.T) {
	path := writeConfig(t, `
journal:
  enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if filepath.Base(cfg.Journal.Path) != DefaultJournalPath {
		t.Errorf("journal path = %q, want basename %q", cfg.Journal.Path, DefaultJournalPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			name:    "unknown threshold",
			content: "threshold: loud\n",
			wantIn:  "threshold",
		},
		{
			name:    "bad log format",
			content: "logging:\n  format: xml\n",
			wantIn:  "logging.format",
		},
		{
			name:    "empty tag key",
			content: "tags:\n  \"\": v\n",
			wantIn:  "tags",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantIn:  "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q does not mention %q", err, tt.wantIn)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
}

func TestLoad_WarnAlias(t *testing.T) {
	path := writeConfig(t, "threshold: warn\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	sev, err := cfg.ThresholdSeverity()
	if err != nil {
		t.Fatalf("ThresholdSeverity returned error: %v", err)
	}
	if sev != event.SeverityWarning {
		t.Errorf("threshold severity = %v, want %v", sev, event.SeverityWarning)
	}
}
