package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Load()

	if !cfg.WidgetEnabled() {
		t.Error("widget not enabled by default")
	}

	if got := cfg.Theme(); got != DefaultTheme {
		t.Errorf("Theme = %q, want %q", got, DefaultTheme)
	}

	if got := cfg.GitPollInterval(); got != DefaultGitPollInterval {
		t.Errorf("GitPollInterval = %d, want %d", got, DefaultGitPollInterval)
	}

	if got := cfg.StaleAfter(); got != DefaultStaleAfter {
		t.Errorf("StaleAfter = %d, want %d", got, DefaultStaleAfter)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PERCH_WIDGET_THEME", "custom")

	if got := Load().Theme(); got != "custom" {
		t.Errorf("Theme = %q, want env override %q", got, "custom")
	}
}

func TestSetPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Load()
	if err := cfg.Set("widget.enabled", false); err != nil {
		t.Fatalf("Set: %v", err)
	}

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if Load().WidgetEnabled() {
		t.Error("persisted value not read back")
	}
}

func TestReadError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("no config file", func(t *testing.T) {
		if err := Load().ReadError(); err != nil {
			t.Errorf("ReadError = %v for missing file, want nil", err)
		}
	})

	t.Run("malformed config file", func(t *testing.T) {
		dir := filepath.Join(home, ".config", "perch")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("widget: [broken\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg := Load()

		if cfg.ReadError() == nil {
			t.Error("ReadError = nil for malformed file")
		}

		// Defaults still apply.
		if got := cfg.Theme(); got != DefaultTheme {
			t.Errorf("Theme = %q after read error, want default %q", got, DefaultTheme)
		}
	})
}

func TestConfigFileRead(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "perch")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}

	content := "widget:\n  stale_after: 45\ngit:\n  poll_interval: 3\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load()

	if got := cfg.StaleAfter(); got != 45 {
		t.Errorf("StaleAfter = %d, want 45", got)
	}

	if got := cfg.GitPollInterval(); got != 3 {
		t.Errorf("GitPollInterval = %d, want 3", got)
	}
}
