// Package config loads and persists the msetd service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the msetd service configuration.
type Config struct {
	Degree  int     `yaml:"degree"`
	Port    int     `yaml:"port"`
	Bind    string  `yaml:"bind"`
	Logging Logging `yaml:"logging"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration: minimum degree 3, port
// 8080, bind address 127.0.0.1, info-level logging. The serve command does
// not apply Bind; the server listens on the port on all interfaces.
func DefaultConfig() *Config {
	return &Config{
		Degree: 3,
		Port:   8080,
		Bind:   "127.0.0.1",
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the
// current platform: ~/.config/msetd/config.yaml, falling back to a
// relative path if the home directory cannot be resolved.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./msetd.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "msetd")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists reports whether a configuration file exists at configPath.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
