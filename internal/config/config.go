// Package config loads the irclimate YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zberg/go-irclimate/pkg/irclimate"
)

// Config holds the bridge connection and the configured climate devices.
type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	LogLevel string         `yaml:"log_level"`
	Devices  []DeviceConfig `yaml:"devices"`
}

type BridgeConfig struct {
	Port     string `yaml:"port"` // e.g. /dev/ttyUSB0
	BaudRate int    `yaml:"baud_rate"`
}

type DeviceConfig struct {
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol"` // one of irclimate.Protocols()
}

// Default returns a config with no devices.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Port:     "/dev/ttyUSB0",
			BaudRate: 115200,
		},
		LogLevel: "info",
	}
}

// Load reads config from a YAML file and applies environment overrides.
// A missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads IRCLIMATE_PORT, IRCLIMATE_BAUD and
// IRCLIMATE_LOG_LEVEL.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("IRCLIMATE_PORT"); v != "" {
		c.Bridge.Port = v
	}
	if v := os.Getenv("IRCLIMATE_BAUD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IRCLIMATE_BAUD: %w", err)
		}
		c.Bridge.BaudRate = n
	}
	if v := os.Getenv("IRCLIMATE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the bridge settings and every device entry.
func (c *Config) Validate() error {
	if c.Bridge.BaudRate <= 0 {
		return fmt.Errorf("bridge baud_rate must be positive, got %d", c.Bridge.BaudRate)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if d.Name == "" {
			return fmt.Errorf("devices[%d]: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("devices[%d]: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = true

		if _, err := irclimate.Lookup(d.Protocol); err != nil {
			return fmt.Errorf("devices[%d] %s: %w", i, d.Name, err)
		}
	}
	return nil
}

// Device returns the device entry with the given name.
func (c *Config) Device(name string) (DeviceConfig, bool) {
	for _, d := range c.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return DeviceConfig{}, false
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
