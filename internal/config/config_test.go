package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := DefaultConfig()

	if cfg.Schema != CurrentConfigSchema {
		t.Errorf("Schema = %d, want %d", cfg.Schema, CurrentConfigSchema)
	}

	expected := filepath.Join("/tmp/xdg-data", "skeleton", "templates")
	if cfg.SourceDir != expected {
		t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, expected)
	}

	if !cfg.DetectConflicts {
		t.Error("DetectConflicts should default to true")
	}
}

func TestDefaultConfigWithoutXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	home, _ := os.UserHomeDir()

	expected := filepath.Join(home, ".local", "share", "skeleton", "templates")
	if got := DefaultConfig().SourceDir; got != expected {
		t.Errorf("SourceDir = %q, want %q", got, expected)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Schema != CurrentConfigSchema {
		t.Errorf("Schema = %d, want %d", cfg.Schema, CurrentConfigSchema)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load() should fail for a missing explicit config")
	}
}

func TestLoadFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "skeleton")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := `{"schema": 1, "variant": "js", "manager": "pnpm", "presets": ["tailwind"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Variant != VariantJS {
		t.Errorf("Variant = %q, want js", cfg.Variant)
	}
	if cfg.Manager != "pnpm" {
		t.Errorf("Manager = %q, want pnpm", cfg.Manager)
	}
	if len(cfg.Presets) != 1 || cfg.Presets[0] != "tailwind" {
		t.Errorf("Presets = %v, want [tailwind]", cfg.Presets)
	}
	if !cfg.DetectConflicts {
		t.Error("DetectConflicts missing from file should keep default true")
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat = %q, want default logfmt", cfg.LogFormat)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"source_dir": "~/templates", "detect_conflicts": false}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.SourceDir != filepath.Join(home, "templates") {
		t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, filepath.Join(home, "templates"))
	}
	if cfg.DetectConflicts {
		t.Error("DetectConflicts should be false")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail on invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"ts variant", Config{Variant: "ts"}, false},
		{"bad variant", Config{Variant: "coffee"}, true},
		{"json format", Config{LogFormat: "json"}, false},
		{"bad format", Config{LogFormat: "xml"}, true},
		{"bad level", Config{LogLevel: "trace"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	if got := ExpandHome("~"); got != home {
		t.Errorf("ExpandHome(~) = %q, want %q", got, home)
	}
	if got := ExpandHome("/abs/~x"); got != "/abs/~x" {
		t.Errorf("ExpandHome should leave other paths alone, got %q", got)
	}
}
