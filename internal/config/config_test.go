package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
passwords:
  - "1151"
  - hunter2
watchFolders:
  - /srv/downloads
defaults:
  parallel: 6
  dest: /srv/extracted
  deleteArchive: true
  recursiveSearch: true
  smartMode: true
  outputFormat: json
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(cfg.Passwords) != 2 || cfg.Passwords[0] != "1151" {
		t.Errorf("unexpected passwords: %v", cfg.Passwords)
	}
	if len(cfg.WatchFolders) != 1 || cfg.WatchFolders[0] != "/srv/downloads" {
		t.Errorf("unexpected watch folders: %v", cfg.WatchFolders)
	}
	if cfg.Defaults.Parallel != 6 {
		t.Errorf("expected parallel 6, got %d", cfg.Defaults.Parallel)
	}
	if cfg.Defaults.Dest != "/srv/extracted" {
		t.Errorf("unexpected dest: %q", cfg.Defaults.Dest)
	}
	if !cfg.Defaults.DeleteArchive || !cfg.Defaults.RecursiveSearch || !cfg.Defaults.SmartMode {
		t.Error("boolean settings not loaded")
	}
	if cfg.Defaults.OutputFormat != "json" {
		t.Errorf("unexpected output format: %q", cfg.Defaults.OutputFormat)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Defaults.Parallel != defaultParallel {
		t.Errorf("expected default parallel %d, got %d", defaultParallel, cfg.Defaults.Parallel)
	}
	if cfg.Defaults.OutputFormat != "table" {
		t.Errorf("expected default output format table, got %q", cfg.Defaults.OutputFormat)
	}
}

func TestParallelNormalization(t *testing.T) {
	tests := []struct {
		name     string
		parallel string
		want     int
	}{
		{name: "in range kept", parallel: "3", want: 3},
		{name: "upper bound kept", parallel: "8", want: 8},
		{name: "zero normalized", parallel: "0", want: defaultParallel},
		{name: "negative normalized", parallel: "-2", want: defaultParallel},
		{name: "too large normalized", parallel: "64", want: defaultParallel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "defaults:\n  parallel: "+tt.parallel+"\n")

			cfg, err := NewManager(path).Load()
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if cfg.Defaults.Parallel != tt.want {
				t.Errorf("expected parallel %d, got %d", tt.want, cfg.Defaults.Parallel)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "valid config",
			content: "defaults:\n  outputFormat: yaml\n",
			wantErr: false,
		},
		{
			name:    "bad output format",
			content: "defaults:\n  outputFormat: xml\n",
			wantErr: true,
		},
		{
			name:    "empty watch folder",
			content: "watchFolders:\n  - \"\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(writeConfig(t, tt.content))
			if _, err := m.Load(); err != nil {
				t.Fatalf("load failed: %v", err)
			}

			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.yaml")

	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	m.viper.Set("passwords", []string{"abc"})
	m.viper.Set("defaults.parallel", 2)

	if err := m.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(cfg.Passwords) != 1 || cfg.Passwords[0] != "abc" {
		t.Errorf("unexpected passwords after round trip: %v", cfg.Passwords)
	}
	if cfg.Defaults.Parallel != 2 {
		t.Errorf("expected parallel 2 after round trip, got %d", cfg.Defaults.Parallel)
	}
}
