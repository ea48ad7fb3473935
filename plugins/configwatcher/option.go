package configwatcher

import "github.com/atmouse-/gensokyoradio/pkg/radio"

// WithConfigWatcher returns a radio Option that reloads the [notify] table
// of the config file whenever it changes.
//
// Usage:
//
//	r, err := radio.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:          "/home/me/.gensokyoradio/config.toml",
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) radio.Option {
	return radio.WithPlugin(New(cfg))
}

// WithDefaultConfigWatcher watches the default config path.
func WithDefaultConfigWatcher() radio.Option {
	return WithConfigWatcher(DefaultConfig())
}
