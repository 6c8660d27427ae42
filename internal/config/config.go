package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration.
type Config struct {
	// CategoriesFile is a YAML range table mapping item ids to categories.
	CategoriesFile string  `yaml:"categories_file"`
	Backup         Backup  `yaml:"backup"`
	Logging        Logging `yaml:"logging"`
}

// Backup controls the compressed copy written before a save is overwritten.
type Backup struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	// Level is one of fastest, default, better, best.
	Level string `yaml:"level"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Backup: Backup{
			Enabled: true,
			Dir:     "backups",
			Level:   "default",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.Backup.EncoderLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// EncoderLevel maps Level to a zstd encoder level.
func (b Backup) EncoderLevel() (zstd.EncoderLevel, error) {
	if b.Level == "" {
		return zstd.SpeedDefault, nil
	}
	ok, lvl := zstd.EncoderLevelFromString(b.Level)
	if !ok {
		return 0, fmt.Errorf("unknown backup level %q", b.Level)
	}
	return lvl, nil
}

// DefaultConfigPath is ~/.config/savekit/config.yaml, or a file in the
// working directory when there is no home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./savekit.yaml"
	}
	return filepath.Join(home, ".config", "savekit", "config.yaml")
}

func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
