package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig       LogConfig       `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	StoreConfig     StoreConfig     `json:"store_config,omitempty" yaml:"store_config,omitempty"`
	WatcherConfig   WatcherConfig   `json:"watcher_config,omitempty" yaml:"watcher_config,omitempty"`
	DiffConfig      DiffConfig      `json:"diff_config,omitempty" yaml:"diff_config,omitempty"`
	RetentionConfig RetentionConfig `json:"retention_config,omitempty" yaml:"retention_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:       NewDefaultLogConfig(),
		StoreConfig:     NewDefaultStoreConfig(),
		WatcherConfig:   NewDefaultWatcherConfig(),
		DiffConfig:      NewDefaultDiffConfig(),
		RetentionConfig: NewDefaultRetentionConfig(),
	}
}

// maxConfigFileSize guards against accidentally loading a huge file.
const maxConfigFileSize = 10 * 1024 * 1024

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats; YAML is used when the extension is .yaml or .yml.
// When no config file is found the defaults are returned.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("config file %s is not readable: %w", filePath, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds maximum size of %d bytes", filePath, maxConfigFileSize)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
