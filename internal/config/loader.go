package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters shared by the feed daemon and the exporter.
// Zero values mean "unspecified" and are replaced by flag defaults in main.
type Config struct {
	Addr         string  `json:"addr" yaml:"addr" toml:"addr"`
	Endpoint     string  `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	APIKey       string  `json:"api_key" yaml:"api_key" toml:"api_key"`
	MaxEvents    int     `json:"max_events" yaml:"max_events" toml:"max_events"`
	TelemetryLog string  `json:"telemetry_log" yaml:"telemetry_log" toml:"telemetry_log"`
	MetricsPort  int     `json:"metrics_port" yaml:"metrics_port" toml:"metrics_port"`
	PollSeconds  float64 `json:"poll_seconds" yaml:"poll_seconds" toml:"poll_seconds"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
