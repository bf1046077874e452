package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Point XDG_CONFIG_HOME at an empty directory so no file is found.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Indent != 0 {
		t.Errorf("Indent = %d, want 0", cfg.Indent)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should default to enabled")
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", cfg.Cache.TTL)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Serve.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "ecmason", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
indent = 4
color = false

[cache]
enabled = false

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Indent != 4 {
		t.Errorf("Indent = %d, want 4", cfg.Indent)
	}
	if cfg.Color {
		t.Error("Color should be false")
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled")
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Serve.Addr)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "ecmason", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("indent = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("malformed config should fail")
	}
}

func TestIndentString(t *testing.T) {
	cfg := Config{Indent: 3}

	tests := []struct {
		name       string
		flagSpaces int
		flagStr    string
		want       string
	}{
		{"flag string wins", 2, "\t", "\t"},
		{"flag spaces win", 2, "", "  "},
		{"config fallback", 0, "", "   "},
		{"clamped to ten", 99, "", "          "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.indentString(tt.flagSpaces, tt.flagStr); got != tt.want {
				t.Errorf("indentString = %q, want %q", got, tt.want)
			}
		})
	}
}
