package docdelve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigureDefaults(t *testing.T) {
	config, err := Configure("")
	if err != nil {
		t.Fatalf("Configure(\"\"): %v", err)
	}
	if config.DataDir != "./data" {
		t.Errorf("DataDir = %q, want %q", config.DataDir, "./data")
	}
	if config.Limits.DefaultResultCount != 20 {
		t.Errorf("DefaultResultCount = %d, want 20", config.Limits.DefaultResultCount)
	}
	if config.Limits.SearchCacheSize != 256 {
		t.Errorf("SearchCacheSize = %d, want 256", config.Limits.SearchCacheSize)
	}
}

func TestConfigureFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	toml := "data-dir = \"/var/lib/docdelve\"\n\n[limits]\ndefault-result-count = 5\n"
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	config, err := Configure(path)
	if err != nil {
		t.Fatalf("Configure(%q): %v", path, err)
	}
	if config.DataDir != "/var/lib/docdelve" {
		t.Errorf("DataDir = %q, want %q", config.DataDir, "/var/lib/docdelve")
	}
	if config.Limits.DefaultResultCount != 5 {
		t.Errorf("DefaultResultCount = %d, want 5", config.Limits.DefaultResultCount)
	}
	// Fields left unset in the file should still carry their defaults.
	if config.Limits.SearchCacheSize != 256 {
		t.Errorf("SearchCacheSize = %d, want 256", config.Limits.SearchCacheSize)
	}
}

func TestConfigureRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("not-a-real-field = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Configure(path); err == nil {
		t.Errorf("expected Configure to reject an unknown field")
	}
}
