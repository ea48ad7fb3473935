package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/atmouse-/gensokyoradio/pkg/radio"
)

// FileConfig mirrors Config but uses strings for durations to make the file
// format friendly. Pointer fields distinguish "unset" from zero.
type FileConfig struct {
	ServiceURL       string           `toml:"service_url" yaml:"service_url"`
	CacheDir         string           `toml:"cache_dir" yaml:"cache_dir"`
	Workers          *int             `toml:"workers" yaml:"workers"`
	TickInterval     string           `toml:"tick_interval" yaml:"tick_interval"`
	HandshakeTimeout string           `toml:"handshake_timeout" yaml:"handshake_timeout"`
	FetchTimeout     string           `toml:"fetch_timeout" yaml:"fetch_timeout"`
	FetchRetries     *int             `toml:"fetch_retries" yaml:"fetch_retries"`
	QueueWarnDepth   *int             `toml:"queue_warn_depth" yaml:"queue_warn_depth"`
	Notifier         string           `toml:"notifier" yaml:"notifier"`
	LogLevel         string           `toml:"log_level" yaml:"log_level"`
	Notify           NotifyFileConfig `toml:"notify" yaml:"notify"`
}

// NotifyFileConfig is the [notify] table. It is re-read while running.
type NotifyFileConfig struct {
	AppName string `toml:"app_name" yaml:"app_name"`
	Urgency string `toml:"urgency" yaml:"urgency"`
	Muted   *bool  `toml:"muted" yaml:"muted"`
}

// Apply overlays the values set in the table onto s.
func (n NotifyFileConfig) Apply(s radio.NotifySettings) radio.NotifySettings {
	if n.AppName != "" {
		s.AppName = n.AppName
	}
	if n.Urgency != "" {
		s.Urgency = n.Urgency
	}
	if n.Muted != nil {
		s.Muted = *n.Muted
	}
	return s
}

// LoadFileConfig reads and parses a config file. Files ending in .yaml or
// .yml are parsed as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.gensokyoradio/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".gensokyoradio", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("cache-dir", fc.CacheDir, &cfg.CacheDir)
	s.setString("notifier", fc.Notifier, &cfg.Notifier)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("app-name", fc.Notify.AppName, &cfg.AppName)
	s.setString("urgency", fc.Notify.Urgency, &cfg.Urgency)

	if err := s.setDuration("tick", fc.TickInterval, &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("handshake-timeout", fc.HandshakeTimeout, &cfg.HandshakeTimeout); err != nil {
		return err
	}
	if err := s.setDuration("fetch-timeout", fc.FetchTimeout, &cfg.FetchTimeout); err != nil {
		return err
	}

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("fetch-retries", fc.FetchRetries, &cfg.FetchRetries)
	s.setInt("queue-warn-depth", fc.QueueWarnDepth, &cfg.QueueWarnDepth)

	s.setBool("muted", fc.Notify.Muted, &cfg.Muted)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
