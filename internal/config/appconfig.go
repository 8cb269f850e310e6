// Package config provides configuration management for smaccounts.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AppConfig is the configuration stored in ~/.config/smaccounts/
type AppConfig struct {
	// OrganizationID scopes every listing and creation
	OrganizationID string `yaml:"organization_id" toml:"organization_id"`
	// Database is the path to the SQLite database; ~ is expanded
	Database string `yaml:"database,omitempty" toml:"database,omitempty"`
	// Locale selects the message catalog, e.g. "en" or "fr-CA"
	Locale string `yaml:"locale,omitempty" toml:"locale,omitempty"`
	// MetricsFile, when set, receives a Prometheus textfile on exit
	MetricsFile string `yaml:"metrics_file,omitempty" toml:"metrics_file,omitempty"`
}

const (
	appConfigDir      = ".config/smaccounts"
	appConfigFile     = "config.yaml"
	appConfigTOMLFile = "config.toml"
	defaultDatabase   = "accounts.db"

	// DefaultLocale is used when no locale is configured.
	DefaultLocale = "en"
)

// LoadAppConfig loads the app configuration from ~/.config/smaccounts/,
// preferring config.yaml over config.toml.
func LoadAppConfig() (*AppConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	dir := filepath.Join(home, appConfigDir)
	yamlPath := filepath.Join(dir, appConfigFile)
	tomlPath := filepath.Join(dir, appConfigTOMLFile)

	if _, err := os.Stat(yamlPath); os.IsNotExist(err) {
		if _, err := os.Stat(tomlPath); err == nil {
			return LoadAppConfigFrom(tomlPath)
		}
	}

	return LoadAppConfigFrom(yamlPath)
}

// LoadAppConfigFrom loads the app configuration from path. The format is
// picked from the file extension.
func LoadAppConfigFrom(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user, intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: app config not found at %s - run 'smaccounts init' or create it manually", ErrNoConfig, path)
		}

		return nil, fmt.Errorf("reading app config: %w", err)
	}

	var cfg AppConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing app config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields and expands ~ in paths.
func (c *AppConfig) ApplyDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabasePath()
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	c.Database = ExpandPath(c.Database)
	c.MetricsFile = ExpandPath(c.MetricsFile)
}

// Validate checks the fields a command needs.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.OrganizationID) == "" {
		return ErrNoOrganization
	}
	return nil
}

// SaveAppConfig saves the app configuration to ~/.config/smaccounts/config.yaml
func SaveAppConfig(cfg *AppConfig) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home directory: %w", err)
	}

	configDir := filepath.Join(home, appConfigDir)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, appConfigFile)

	data, err := marshalYAML(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	content := fmt.Sprintf("# smaccounts app configuration\n# Service accounts are listed and created in organization_id\n\n%s", string(data))

	// Use 0600 permissions to restrict access to owner only
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// AppConfigPath returns the path where the app config is stored.
// Returns an empty string if the home directory cannot be determined.
func AppConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, appConfigDir, appConfigFile)
}

// DefaultDatabasePath returns ~/.config/smaccounts/accounts.db, or a relative
// accounts.db if the home directory cannot be determined.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDatabase
	}

	return filepath.Join(home, appConfigDir, defaultDatabase)
}

// ExpandPath expands ~ and environment variables in a path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
