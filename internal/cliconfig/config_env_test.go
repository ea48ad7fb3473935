package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"GENSOKYO_SERVICE_URL":       "wss://env.example/wss",
				"GENSOKYO_CACHE_DIR":         "/env/cache",
				"GENSOKYO_WORKERS":           "2",
				"GENSOKYO_TICK_INTERVAL":     "3s",
				"GENSOKYO_HANDSHAKE_TIMEOUT": "4s",
				"GENSOKYO_FETCH_TIMEOUT":     "1m",
				"GENSOKYO_FETCH_RETRIES":     "0",
				"GENSOKYO_QUEUE_WARN_DEPTH":  "5",
				"GENSOKYO_NOTIFIER":          "dbus",
				"GENSOKYO_LOG_LEVEL":         "warn",
				"GENSOKYO_APP_NAME":          "env-app",
				"GENSOKYO_URGENCY":           "critical",
				"GENSOKYO_MUTED":             "1",
			},
			changed: map[string]bool{},
			initial: Config{FetchRetries: 2},
			expected: Config{
				ServiceURL:       "wss://env.example/wss",
				CacheDir:         "/env/cache",
				Workers:          2,
				TickInterval:     3 * time.Second,
				HandshakeTimeout: 4 * time.Second,
				FetchTimeout:     time.Minute,
				FetchRetries:     0,
				QueueWarnDepth:   5,
				Notifier:         "dbus",
				LogLevel:         "warn",
				AppName:          "env-app",
				Urgency:          "critical",
				Muted:            true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"GENSOKYO_SERVICE_URL": "wss://env.example/wss",
				"GENSOKYO_LOG_LEVEL":   "debug",
			},
			changed: map[string]bool{"service-url": true},
			initial: Config{ServiceURL: "wss://flag.example/wss"},
			expected: Config{
				ServiceURL: "wss://flag.example/wss",
				LogLevel:   "debug",
			},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"GENSOKYO_MUTED": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{Muted: true},
			expected: Config{Muted: false},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"GENSOKYO_TICK_INTERVAL": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"GENSOKYO_WORKERS": "many",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for negative int",
			envVars: map[string]string{
				"GENSOKYO_FETCH_RETRIES": "-1",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v\nwant     %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	fileConf := FileConfig{
		ServiceURL: "wss://file.example/wss",
		CacheDir:   "/file/cache",
		LogLevel:   "error",
		Notify:     NotifyFileConfig{Urgency: "low"},
	}

	t.Setenv("GENSOKYO_SERVICE_URL", "wss://env.example/wss")
	t.Setenv("GENSOKYO_CACHE_DIR", "/env/cache")

	changed := map[string]bool{"service-url": true}
	cfg := DefaultConfig()
	cfg.ServiceURL = "wss://cli.example/wss"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.ServiceURL != "wss://cli.example/wss" {
		t.Errorf("ServiceURL = %v, want CLI value", cfg.ServiceURL)
	}
	if cfg.CacheDir != "/env/cache" {
		t.Errorf("CacheDir = %v, want env value", cfg.CacheDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %v, want file value", cfg.LogLevel)
	}
	if cfg.Urgency != "low" {
		t.Errorf("Urgency = %v, want file value", cfg.Urgency)
	}
	if cfg.Workers != DefaultConfig().Workers {
		t.Errorf("Workers = %v, want default", cfg.Workers)
	}
}
