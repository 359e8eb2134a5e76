package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goflowspace/linksnap/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr == "" || cfg.Server.CanvasID == "" {
		t.Errorf("server defaults missing: %+v", cfg.Server)
	}
	if cfg.Database.Path == "" || cfg.Settings.Path == "" {
		t.Errorf("path defaults missing: %+v %+v", cfg.Database, cfg.Settings)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := write(t, "server:\n  addr: \":9999\"\n")
		cfg, _, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Server.Addr != ":9999" {
			t.Errorf("addr = %s", cfg.Server.Addr)
		}
		if cfg.Database.Path != "./linksnap.db" {
			t.Errorf("database path default lost: %s", cfg.Database.Path)
		}
		if cfg.Version != 1 {
			t.Errorf("version = %d, want 1", cfg.Version)
		}
	})

	t.Run("snap section loads", func(t *testing.T) {
		path := write(t, `
snap:
  connect_distance: 200
  throttle_factor: 5
  default_widths:
    narrative: 240
`)
		cfg, _, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		engine := cfg.Snap.Engine()
		if engine.ConnectDistance != 200 || engine.ThrottleFactor != 5 {
			t.Errorf("engine config = %+v", engine)
		}
		if engine.DefaultWidths[domain.NodeTypeNarrative] != 240 {
			t.Errorf("widths = %v", engine.DefaultWidths)
		}
		// Untouched fields stay zero for the engine to fill in.
		if engine.PinOffset != 0 {
			t.Errorf("pin offset = %v, want 0", engine.PinOffset)
		}
	})

	t.Run("bad log format rejected", func(t *testing.T) {
		path := write(t, "log:\n  format: xml\n")
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("xml log format accepted")
		}
	})

	t.Run("negative throttle rejected", func(t *testing.T) {
		path := write(t, "snap:\n  throttle_factor: -1\n")
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("negative throttle accepted")
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("missing file loaded")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":7000"
	cfg.Snap.ConnectDistance = 120

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Server.Addr != ":7000" {
		t.Errorf("addr = %s, want :7000", loaded.Server.Addr)
	}
	if loaded.Snap.ConnectDistance != 120 {
		t.Errorf("connect distance = %v, want 120", loaded.Snap.ConnectDistance)
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit env path that doesn't exist falls back to the working
	// directory file.
	os.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	defer os.Unsetenv(EnvConfigPath)

	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}
}
