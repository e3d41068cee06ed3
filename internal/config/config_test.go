package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sparksai/dashlayout/internal/config/colors"
)

func TestDefaultKeyMappings(t *testing.T) {
	defaults := DefaultKeyMappings()

	if defaults.Quit != "q" {
		t.Errorf("Default Quit key = %s, want q", defaults.Quit)
	}
	if defaults.Grab != "space" {
		t.Errorf("Default Grab key = %s, want space", defaults.Grab)
	}
	if defaults.AddRow != "a" {
		t.Errorf("Default AddRow key = %s, want a", defaults.AddRow)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDatabase, "")
	t.Setenv(EnvSocket, "")
	t.Setenv(EnvThemeFile, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.ReportsPerRow != DefaultReportsPerRow {
		t.Errorf("ReportsPerRow = %d, want %d", cfg.ReportsPerRow, DefaultReportsPerRow)
	}
	if cfg.KeyMappings.Quit != "q" {
		t.Errorf("Quit key = %s, want q", cfg.KeyMappings.Quit)
	}
	if filepath.Base(cfg.DatabasePath) != "dashboards.db" {
		t.Errorf("Unexpected default database path %s", cfg.DatabasePath)
	}
	if cfg.ColorScheme.Accent != colors.Default().Accent {
		t.Errorf("Expected default accent, got %s", cfg.ColorScheme.Accent)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv(EnvDatabase, "")
	t.Setenv(EnvSocket, "")
	t.Setenv(EnvThemeFile, "")

	configDir := filepath.Join(tempDir, "dashlayout")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	content := `reports_per_row: 4
http_addr: ":9000"
key_mappings:
  quit: "x"
theme:
  preset: monochrome
  accent: "#123456"
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ReportsPerRow != 4 || cfg.HTTPAddr != ":9000" {
		t.Errorf("File values not applied: %+v", cfg)
	}
	if cfg.KeyMappings.Quit != "x" {
		t.Errorf("Quit key = %s, want x", cfg.KeyMappings.Quit)
	}
	if cfg.KeyMappings.AddRow != "a" {
		t.Errorf("Missing key should default, got %s", cfg.KeyMappings.AddRow)
	}
	if cfg.ColorScheme.Accent != "#123456" {
		t.Errorf("Accent = %s, want #123456", cfg.ColorScheme.Accent)
	}
	if cfg.ColorScheme.Background != colors.Monochrome().Background {
		t.Errorf("Missing color should come from the monochrome preset, got %s", cfg.ColorScheme.Background)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("reports_per_row: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDatabase, "/tmp/custom.db")
	t.Setenv(EnvSocket, "/tmp/custom.sock")

	themeFile := filepath.Join(t.TempDir(), "theme.yaml")
	theme := "theme:\n  accent: \"#FF0000\"\n  drop_target: \"#00FF00\"\n"
	if err := os.WriteFile(themeFile, []byte(theme), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvThemeFile, themeFile)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.DatabasePath != "/tmp/custom.db" || cfg.SocketPath != "/tmp/custom.sock" {
		t.Errorf("Env paths not applied: %s, %s", cfg.DatabasePath, cfg.SocketPath)
	}
	if cfg.ColorScheme.Accent != "#FF0000" || cfg.ColorScheme.DropTarget != "#00FF00" {
		t.Errorf("Theme file not merged: %+v", cfg.ColorScheme)
	}
	if cfg.ColorScheme.CardBorder == "" {
		t.Error("Expected unset colors to keep defaults")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Setenv(EnvDatabase, "")
	t.Setenv(EnvSocket, "")
	t.Setenv(EnvThemeFile, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.ReportsPerRow = 5
	cfg.KeyMappings.Grab = "enter"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.ReportsPerRow != 5 || loaded.KeyMappings.Grab != "enter" {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}

func TestColorScheme_PresetFallback(t *testing.T) {
	t.Parallel()
	for _, name := range colors.Presets() {
		scheme := colors.ColorScheme{Preset: name}
		scheme.ApplyDefaults()
		if scheme.Accent == "" || scheme.StatusBarText == "" {
			t.Errorf("Preset %s left colors empty: %+v", name, scheme)
		}
	}

	unknown := colors.ColorScheme{Preset: "nope"}
	unknown.ApplyDefaults()
	if unknown.Accent != colors.Default().Accent {
		t.Errorf("Unknown preset should fall back to default, got %s", unknown.Accent)
	}
}
