// Package config loads ripple.json, the configuration file for the ripple
// CLI and inspector.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ripple.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 9090

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "ripple"
)

// Config represents the complete ripple.json configuration.
type Config struct {
	// Name is the project name, used in logs and metric labels.
	Name string `json:"name,omitempty"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Archive contains S3 snapshot archive configuration.
	// Archiving is disabled when Bucket is empty.
	Archive ArchiveConfig `json:"archive,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// InspectorConfig configures the inspector HTTP server.
type InspectorConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// MetricsConfig configures Prometheus exposition.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
}

// ArchiveConfig configures the S3 snapshot archive.
type ArchiveConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Inspector: InspectorConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load reads configuration from the given path. Missing fields fall back
// to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.configPath = path
	return cfg, nil
}

// LoadFromCwd searches for ripple.json starting at the working directory
// and walking up. Returns defaults when no file is found.
func LoadFromCwd() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Path returns the file the config was loaded from, or empty when running
// on defaults.
func (c *Config) Path() string { return c.configPath }

// Addr returns the inspector listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Inspector.Host, c.Inspector.Port)
}

// ArchiveEnabled reports whether snapshot archiving is configured.
func (c *Config) ArchiveEnabled() bool { return c.Archive.Bucket != "" }

func (c *Config) applyDefaults() {
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}
