package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/atmouse-/gensokyoradio/pkg/radio"
)

// Notifier backends selectable with --notifier.
const (
	NotifierAuto = "auto"
	NotifierDBus = "dbus"
	NotifierLog  = "log"
)

// Config holds CLI configuration for gensokyoradio.
type Config struct {
	ServiceURL string
	CacheDir   string

	Workers          int
	TickInterval     time.Duration
	HandshakeTimeout time.Duration
	FetchTimeout     time.Duration
	FetchRetries     int
	QueueWarnDepth   int

	Notifier string
	LogLevel string

	AppName string
	Urgency string
	Muted   bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:       radio.DefaultServiceURL,
		Workers:          radio.DefaultWorkers,
		TickInterval:     radio.DefaultTickInterval,
		HandshakeTimeout: radio.DefaultHandshakeTimeout,
		FetchTimeout:     radio.DefaultFetchTimeout,
		FetchRetries:     radio.DefaultFetchRetries,
		QueueWarnDepth:   radio.DefaultQueueWarnDepth,
		Notifier:         NotifierAuto,
		LogLevel:         "info",
		AppName:          "gensokyoradio",
		Urgency:          "normal",
	}
}

// Validate checks the CLI-only settings. Runtime settings are checked by
// radio.Config.Validate.
func (c *Config) Validate() error {
	switch c.Notifier {
	case NotifierAuto, NotifierDBus, NotifierLog:
	default:
		return fmt.Errorf("notifier must be one of auto, dbus, log; got %q", c.Notifier)
	}
	if c.ServiceURL == "" {
		return fmt.Errorf("service-url is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}

// RadioConfig converts the CLI configuration into the runtime configuration.
func (c *Config) RadioConfig() radio.Config {
	return radio.Config{
		ServiceURL:       c.ServiceURL,
		CacheDir:         c.CacheDir,
		Workers:          c.Workers,
		TickInterval:     c.TickInterval,
		HandshakeTimeout: c.HandshakeTimeout,
		FetchTimeout:     c.FetchTimeout,
		FetchRetries:     c.FetchRetries,
		QueueWarnDepth:   c.QueueWarnDepth,
		Notify:           c.NotifySettings(),
	}
}

// NotifySettings returns the [notify] part of the configuration.
func (c *Config) NotifySettings() radio.NotifySettings {
	return radio.NotifySettings{
		AppName: c.AppName,
		Urgency: c.Urgency,
		Muted:   c.Muted,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
// Zero is a meaningful value for retries and warn depth, so file values
// are pointers.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return fmt.Errorf("parse %s: must not be negative", flag)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
