package radio

import (
	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
	"github.com/atmouse-/gensokyoradio/pkg/log"
)

// Re-exported types so embedders do not need internal packages.
type (
	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger

	// LogField is a structured log field from pkg/log.
	LogField = log.Field

	// HTTPClient fetches album art. *http.Client satisfies it.
	HTTPClient = ports.HTTPClient

	// Dialer opens the feed connection.
	Dialer = ports.Dialer

	// Conn is an open feed connection.
	Conn = ports.Conn

	// Frame is one inbound websocket message.
	Frame = ports.Frame

	// Notifier presents a notification to the user.
	Notifier = ports.Notifier

	// SongInfo describes the song that started playing.
	SongInfo = domain.SongInfo

	// NotificationRequest is what a Notifier is asked to show.
	NotificationRequest = domain.NotificationRequest

	// NotifySettings are the presentation options.
	NotifySettings = domain.NotifySettings
)

// Errors returned by the public API.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrBinaryFrame     = domain.ErrBinaryFrame
)

// Option configures optional behavior of Radio.
type Option func(*options)

type options struct {
	httpClient   ports.HTTPClient
	logger       ports.Logger
	dialer       ports.Dialer
	notifier     ports.Notifier
	eventHandler EventHandler
	plugins      []Plugin
}

// WithHTTPClient sets the HTTP client used to fetch album art.
// If not provided, a client with Config.FetchTimeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger. If not provided, nothing is logged.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDialer replaces the websocket dialer, mainly for tests.
func WithDialer(dialer Dialer) Option {
	return func(o *options) {
		o.dialer = dialer
	}
}

// WithNotifier sets how notifications are shown.
// If not provided, notifications are written to the logger.
func WithNotifier(notifier Notifier) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

// WithEventHandler sets a handler for runtime events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when Radio starts.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
