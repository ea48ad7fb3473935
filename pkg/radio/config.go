package radio

import (
	"fmt"
	"net/url"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/adapters/notify"
	"github.com/atmouse-/gensokyoradio/internal/cache"
	"github.com/atmouse-/gensokyoradio/internal/domain"
)

// Default configuration values.
const (
	DefaultServiceURL       = "wss://gensokyoradio.net/wss"
	DefaultWorkers          = 4
	DefaultTickInterval     = time.Second
	DefaultHandshakeTimeout = 15 * time.Second
	DefaultFetchTimeout     = 30 * time.Second
	DefaultFetchRetries     = 2
	DefaultQueueWarnDepth   = 64
)

// Config holds the runtime configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// ServiceURL is the websocket endpoint of the notification feed.
	ServiceURL string

	// CacheDir is where album art is stored. Defaults to the user cache
	// directory joined with "gensokyoradio".
	CacheDir string

	// Workers is the number of notification workers.
	Workers int

	// TickInterval is the period of the connection loop's timer.
	TickInterval time.Duration

	// HandshakeTimeout bounds the websocket opening handshake.
	HandshakeTimeout time.Duration

	// FetchTimeout bounds one album-art HTTP request.
	FetchTimeout time.Duration

	// FetchRetries is how many times a failed fetch is retried.
	// Zero disables retries.
	FetchRetries int

	// QueueWarnDepth logs a warning when this many songs are waiting for
	// a worker. Zero disables the warning.
	QueueWarnDepth int

	// Notify holds presentation settings. They can be replaced while
	// running with Radio.UpdateNotifySettings.
	Notify NotifySettings
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	cfg := Config{
		FetchRetries:   DefaultFetchRetries,
		QueueWarnDepth: DefaultQueueWarnDepth,
		Notify:         domain.DefaultNotifySettings(),
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	if c.CacheDir == "" {
		if root, err := cache.DefaultRoot(); err == nil {
			c.CacheDir = root
		}
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}

	def := domain.DefaultNotifySettings()
	if c.Notify.AppName == "" {
		c.Notify.AppName = def.AppName
	}
	if c.Notify.Urgency == "" {
		c.Notify.Urgency = def.Urgency
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		return invalid("service URL is required")
	}
	u, err := url.Parse(c.ServiceURL)
	if err != nil {
		return invalid("service URL: %v", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return invalid("service URL scheme must be ws or wss, got %q", u.Scheme)
	}
	if c.CacheDir == "" {
		return invalid("cache directory is required")
	}
	if c.Workers <= 0 {
		return invalid("workers must be positive, got %d", c.Workers)
	}
	if c.TickInterval <= 0 {
		return invalid("tick interval must be positive")
	}
	if c.HandshakeTimeout <= 0 {
		return invalid("handshake timeout must be positive")
	}
	if c.FetchTimeout <= 0 {
		return invalid("fetch timeout must be positive")
	}
	if c.FetchRetries < 0 {
		return invalid("fetch retries must not be negative")
	}
	if c.QueueWarnDepth < 0 {
		return invalid("queue warn depth must not be negative")
	}
	if _, err := notify.ParseUrgency(c.Notify.Urgency); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
