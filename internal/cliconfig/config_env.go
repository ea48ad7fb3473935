package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (GENSOKYO_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", os.Getenv("GENSOKYO_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("cache-dir", os.Getenv("GENSOKYO_CACHE_DIR"), &cfg.CacheDir)
	s.setString("notifier", os.Getenv("GENSOKYO_NOTIFIER"), &cfg.Notifier)
	s.setString("log-level", os.Getenv("GENSOKYO_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("app-name", os.Getenv("GENSOKYO_APP_NAME"), &cfg.AppName)
	s.setString("urgency", os.Getenv("GENSOKYO_URGENCY"), &cfg.Urgency)

	if err := s.setDuration("tick", os.Getenv("GENSOKYO_TICK_INTERVAL"), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("handshake-timeout", os.Getenv("GENSOKYO_HANDSHAKE_TIMEOUT"), &cfg.HandshakeTimeout); err != nil {
		return err
	}
	if err := s.setDuration("fetch-timeout", os.Getenv("GENSOKYO_FETCH_TIMEOUT"), &cfg.FetchTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("workers", os.Getenv("GENSOKYO_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("fetch-retries", os.Getenv("GENSOKYO_FETCH_RETRIES"), &cfg.FetchRetries); err != nil {
		return err
	}
	if err := s.setIntFromString("queue-warn-depth", os.Getenv("GENSOKYO_QUEUE_WARN_DEPTH"), &cfg.QueueWarnDepth); err != nil {
		return err
	}

	s.setBoolFromString("muted", os.Getenv("GENSOKYO_MUTED"), &cfg.Muted)

	return nil
}
