package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Note: Tests that modify HOME/USERPROFILE environment variables cannot run in
// parallel because os.Setenv affects the entire process.

// setTestHome overrides the home directory for tests on all platforms.
// On Unix, os.UserHomeDir() reads HOME; on Windows it reads USERPROFILE.
func setTestHome(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("HOME", dir)

	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", dir)
	}
}

func writeConfig(t *testing.T, home, name, content string) string {
	t.Helper()
	dir := filepath.Join(home, appConfigDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSaveAppConfig(t *testing.T) {
	tmpDir := t.TempDir()
	setTestHome(t, tmpDir)

	cfg := &AppConfig{OrganizationID: "org-42", Locale: "fr"}
	if err := SaveAppConfig(cfg); err != nil {
		t.Fatalf("SaveAppConfig() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, appConfigDir, appConfigFile)
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config perms = %v, want 0600", info.Mode().Perm())
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // test file path is controlled
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "organization_id: org-42") {
		t.Errorf("Config file should contain organization_id, got: %s", content)
	}
	if !strings.Contains(content, "# smaccounts app configuration") {
		t.Error("Config file should have header comment")
	}
	if strings.Contains(content, "metrics_file") {
		t.Errorf("empty metrics_file should be omitted, got: %s", content)
	}
}

func TestLoadAppConfig_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	setTestHome(t, tmpDir)
	writeConfig(t, tmpDir, appConfigFile, "organization_id: org-1\ndatabase: ~/data/sa.db\nmetrics_file: ~/metrics.prom\n")

	cfg, err := LoadAppConfig()
	if err != nil {
		t.Fatalf("LoadAppConfig() error = %v", err)
	}

	if cfg.OrganizationID != "org-1" {
		t.Errorf("OrganizationID = %q, want %q", cfg.OrganizationID, "org-1")
	}
	if want := filepath.Join(tmpDir, "data", "sa.db"); cfg.Database != want {
		t.Errorf("Database = %q, want %q", cfg.Database, want)
	}
	if want := filepath.Join(tmpDir, "metrics.prom"); cfg.MetricsFile != want {
		t.Errorf("MetricsFile = %q, want %q", cfg.MetricsFile, want)
	}
	if cfg.Locale != DefaultLocale {
		t.Errorf("Locale = %q, want %q", cfg.Locale, DefaultLocale)
	}
}

func TestLoadAppConfig_TOMLFallback(t *testing.T) {
	tmpDir := t.TempDir()
	setTestHome(t, tmpDir)
	writeConfig(t, tmpDir, appConfigTOMLFile, "organization_id = \"org-toml\"\nlocale = \"fr-CA\"\n")

	cfg, err := LoadAppConfig()
	if err != nil {
		t.Fatalf("LoadAppConfig() error = %v", err)
	}

	if cfg.OrganizationID != "org-toml" {
		t.Errorf("OrganizationID = %q, want %q", cfg.OrganizationID, "org-toml")
	}
	if cfg.Locale != "fr-CA" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "fr-CA")
	}
	if want := filepath.Join(tmpDir, appConfigDir, defaultDatabase); cfg.Database != want {
		t.Errorf("Database = %q, want %q", cfg.Database, want)
	}
}

func TestLoadAppConfig_Missing(t *testing.T) {
	setTestHome(t, t.TempDir())

	_, err := LoadAppConfig()
	if !errors.Is(err, ErrNoConfig) {
		t.Errorf("LoadAppConfig() error = %v, want ErrNoConfig", err)
	}
	if err != nil && !strings.Contains(err.Error(), "smaccounts init") {
		t.Errorf("error should suggest 'smaccounts init', got: %v", err)
	}
}

func TestLoadAppConfig_NoOrganization(t *testing.T) {
	tmpDir := t.TempDir()
	setTestHome(t, tmpDir)
	writeConfig(t, tmpDir, appConfigFile, "locale: en\n")

	_, err := LoadAppConfig()
	if !errors.Is(err, ErrNoOrganization) {
		t.Errorf("LoadAppConfig() error = %v, want ErrNoOrganization", err)
	}
}

func TestLoadAppConfigFrom_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfigFrom(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadAppConfigFrom() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadAppConfigFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("organization_id: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfigFrom(path); err == nil {
		t.Error("LoadAppConfigFrom() should fail on invalid YAML")
	}
}

func TestSaveThenLoad(t *testing.T) {
	tmpDir := t.TempDir()
	setTestHome(t, tmpDir)

	if err := SaveAppConfig(&AppConfig{OrganizationID: "org-rt"}); err != nil {
		t.Fatalf("SaveAppConfig() error = %v", err)
	}

	cfg, err := LoadAppConfig()
	if err != nil {
		t.Fatalf("LoadAppConfig() error = %v", err)
	}
	if cfg.OrganizationID != "org-rt" {
		t.Errorf("OrganizationID = %q, want %q", cfg.OrganizationID, "org-rt")
	}
}

func TestExpandPath(t *testing.T) {
	tmpDir := t.TempDir()
	setTestHome(t, tmpDir)
	t.Setenv("SMACCOUNTS_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", tmpDir},
		{"~/a.db", filepath.Join(tmpDir, "a.db")},
		{"$SMACCOUNTS_TEST_DIR/a.db", "/srv/data/a.db"},
		{"/abs/a.db", "/abs/a.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
