package cliconfig

import (
	"testing"
	"time"

	"github.com/atmouse-/gensokyoradio/pkg/radio"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceURL != radio.DefaultServiceURL {
		t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, radio.DefaultServiceURL)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %v, want 4", cfg.Workers)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("TickInterval = %v, want 1s", cfg.TickInterval)
	}
	if cfg.Notifier != NotifierAuto {
		t.Errorf("Notifier = %v, want auto", cfg.Notifier)
	}
	if cfg.CacheDir != "" {
		t.Errorf("CacheDir = %v, want empty (resolved at runtime)", cfg.CacheDir)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"log notifier", func(c *Config) { c.Notifier = NotifierLog }, false},
		{"unknown notifier", func(c *Config) { c.Notifier = "growl" }, true},
		{"empty service url", func(c *Config) { c.ServiceURL = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_RadioConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheDir = "/tmp/art"
	cfg.FetchRetries = 0
	cfg.AppName = "gr"
	cfg.Muted = true

	rc := cfg.RadioConfig()
	if rc.CacheDir != "/tmp/art" || rc.FetchRetries != 0 || rc.Workers != cfg.Workers {
		t.Errorf("RadioConfig() = %+v", rc)
	}
	if rc.Notify.AppName != "gr" || rc.Notify.Urgency != "normal" || !rc.Notify.Muted {
		t.Errorf("RadioConfig().Notify = %+v", rc.Notify)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("RadioConfig().Validate() = %v", err)
	}
}
