// Package config provides configuration management for the tray.
// It handles loading and validating application settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/nordvpn-tray/common"
)

// Config represents the application configuration.
// It is read from a YAML file in the user's config directory and is never
// written back implicitly.
type Config struct {
	// Binary is the daemon's command-line program.
	Binary string `yaml:"binary"`
	// PollInterval is the pause between two status refreshes.
	PollInterval time.Duration `yaml:"poll_interval"`
	// DefaultCountry is shown when the daemon reports no country.
	DefaultCountry string `yaml:"default_country"`
	// DNSServers are sent when the DNS setting is switched on.
	DNSServers []string `yaml:"dns_servers"`
	// ShowNotifications enables desktop notifications on connectivity changes.
	ShowNotifications bool `yaml:"show_notifications"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// LogToFile enables the rotating log file.
	LogToFile bool `yaml:"log_to_file"`
	// Syslog mirrors errors to the local system log.
	Syslog bool `yaml:"syslog"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Binary:            common.DaemonBinary,
		PollInterval:      common.PollInterval,
		DefaultCountry:    common.DefaultCountry,
		DNSServers:        append([]string(nil), common.DefaultDNSServers...),
		ShowNotifications: true,
		LogLevel:          "info",
		LogToFile:         false,
		Syslog:            true,
	}
}

// Load loads the configuration from path, or from the default location when
// path is empty. A missing file yields DefaultConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error opening configuration: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads a YAML document on top of DefaultConfig.
// Unknown fields are rejected; invalid values fall back to defaults.
func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: error parsing configuration: %v", common.ErrConfigLoad, err)
	}

	config.validate()
	return config, nil
}

// validate replaces unusable values with their defaults.
func (c *Config) validate() {
	defaults := DefaultConfig()

	c.Binary = strings.TrimSpace(c.Binary)
	if c.Binary == "" {
		c.Binary = defaults.Binary
	}
	if c.PollInterval < time.Second {
		c.PollInterval = defaults.PollInterval
	}
	c.DefaultCountry = strings.TrimSpace(c.DefaultCountry)
	if c.DefaultCountry == "" {
		c.DefaultCountry = defaults.DefaultCountry
	}

	servers := make([]string, 0, len(c.DNSServers))
	for _, s := range c.DNSServers {
		if net.ParseIP(strings.TrimSpace(s)) != nil {
			servers = append(servers, strings.TrimSpace(s))
		}
	}
	if len(servers) == 0 {
		servers = defaults.DNSServers
	}
	c.DNSServers = servers

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = defaults.LogLevel
	}
}

// Encode writes the configuration as YAML.
func (c *Config) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}
	return encoder.Close()
}

// DefaultPath returns ~/.config/nordvpn-tray/config.yaml.
func DefaultPath() (string, error) {
	dir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.ConfigFileName), nil
}
