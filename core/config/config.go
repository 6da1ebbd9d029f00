package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	// File enables a rotated log file next to stdout when non-empty. A bare
	// name is placed under LogDir().
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Debug      bool   `yaml:"debug"`
}

type Config struct {
	ListenAddr    string    `yaml:"listen_addr"`
	NodeAddress   string    `yaml:"node_address"`
	StrictAmounts bool      `yaml:"strict_amounts"`
	Metrics       bool      `yaml:"metrics"`
	Log           LogConfig `yaml:"log"`
}

func Default() *Config {
	return &Config{
		ListenAddr: "0.0.0.0:5000",
		Metrics:    true,
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxAgeDays: 7,
		},
	}
}

// Load reads a YAML config on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}

// NewNodeAddress returns a fresh account identifier: a uuid4 without dashes.
func NewNodeAddress() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("listen_addr cannot be empty")
	}
	if c.NodeAddress == "0" {
		return errors.New(`node_address "0" is reserved for mining rewards`)
	}
	if c.Log.File != "" && (c.Log.MaxSizeMB <= 0 || c.Log.MaxAgeDays <= 0) {
		return errors.New("log.max_size_mb and log.max_age_days must be positive")
	}
	return nil
}

// LogFilePath resolves Log.File against LogDir.
func (c *Config) LogFilePath() string {
	if c.Log.File == "" || filepath.IsAbs(c.Log.File) || strings.ContainsRune(c.Log.File, filepath.Separator) {
		return c.Log.File
	}
	return filepath.Join(LogDir(), c.Log.File)
}
