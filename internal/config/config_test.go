package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"storepath": "/tmp/exports"}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.StorePath != "/tmp/exports" {
		t.Fatalf("unexpected store path %q", c.StorePath)
	}
	if c.DatabasePath != filepath.Join(dir, "bookmarks.db") {
		t.Fatalf("unexpected database path %q", c.DatabasePath)
	}
	if c.ExportFormat != "json" || c.AdClassName != DefaultAdClassName || c.PlayerSelector != DefaultPlayerSelector {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.CheckInterval != 15 {
		t.Fatalf("expected default interval 15, got %d", c.CheckInterval)
	}
}

func TestReadRejectsUnknownExportFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"export_format": "pdf"}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := Read(path)
	if err == nil || !strings.Contains(err.Error(), "pdf") {
		t.Fatalf("expected export format error, got %v", err)
	}
}

func TestSaveThenReadThroughProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := NewConfig()
	cfg.Receiver = "me@example.com"
	cfg.BookmarkPath = "/tmp/links.txt"
	cfg.DaemonEnabled = true
	cfg.CheckInterval = 5
	if err := Save(*cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	provider := NewConfigProvider(&c)
	if provider.GetReceiver() != "me@example.com" || !provider.IsDaemonEnabled() || provider.GetCheckInterval() != 5 {
		t.Fatalf("unexpected provider values: %+v", c)
	}
	if !provider.IsHeadless() {
		t.Fatal("expected headless default to survive save")
	}
}

func TestValidateDaemonNeedsPath(t *testing.T) {
	c := NewConfig()
	c.DaemonEnabled = true
	if err := Validate(c); err == nil {
		t.Fatal("expected error for daemon without bookmark path")
	}
}
