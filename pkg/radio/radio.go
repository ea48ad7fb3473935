package radio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	httpAdapter "github.com/atmouse-/gensokyoradio/internal/adapters/http"
	logAdapter "github.com/atmouse-/gensokyoradio/internal/adapters/log"
	"github.com/atmouse-/gensokyoradio/internal/adapters/notify"
	"github.com/atmouse-/gensokyoradio/internal/adapters/ws"
	"github.com/atmouse-/gensokyoradio/internal/app"
	"github.com/atmouse-/gensokyoradio/internal/cache"
	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
	"github.com/atmouse-/gensokyoradio/internal/protocol"
)

// Radio is a notification-feed client that can be embedded in other
// applications. Use New() to create an instance, then Start() to connect.
type Radio struct {
	config    Config
	lifecycle *app.Lifecycle
	settings  *app.SettingsStore
	cache     *cache.Cache
	dialer    ports.Dialer
	notifier  ports.Notifier
	logger    ports.Logger
	emitter   *eventEmitterWrapper
	plugins   []Plugin

	mu         sync.Mutex
	cancel     context.CancelFunc
	dispatcher *app.Dispatcher
	session    *protocol.Session
}

// Stats is a snapshot of runtime counters.
type Stats struct {
	CacheHits   uint64
	CacheMisses uint64
	Fetches     uint64
	Delivered   uint64
	Dropped     uint64
	Muted       uint64
	Queued      int
}

// New creates a Radio with the given configuration.
// The instance is created in StateStopped; call Start() to connect.
func New(cfg Config, opts ...Option) (*Radio, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	fetchCfg := httpAdapter.DefaultFetcherConfig()
	fetchCfg.Retries = cfg.FetchRetries
	fetcher := httpAdapter.NewFetcher(httpClient, fetchCfg, logger)

	assets, err := cache.New(cfg.CacheDir, fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	dialer := o.dialer
	if dialer == nil {
		dialer = ws.NewDialer(cfg.HandshakeTimeout)
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	return &Radio{
		config:    cfg,
		lifecycle: app.NewLifecycle(logger, emitter),
		settings:  app.NewSettingsStore(cfg.Notify),
		cache:     assets,
		dialer:    dialer,
		notifier:  notifier,
		logger:    logger,
		emitter:   emitter,
		plugins:   o.plugins,
	}, nil
}

// Start connects to the feed in the background and returns immediately.
// Returns ErrAlreadyRunning if the instance is not stopped, or the error
// of the first plugin that fails to initialize.
func (r *Radio) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := r.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		ServiceURL: r.config.ServiceURL,
		CacheDir:   r.cache.Root(),
		Logger:     r.logger,
		Settings:   r,
	}
	for i, p := range r.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			r.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			r.shutdownPlugins(r.plugins[:i])
			_ = r.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		r.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	dispatcher := app.NewDispatcher(r.config.Workers, r.cache, r.notifier, r.settings, r.logger, r.emitter)
	session := protocol.NewSession()
	r.dispatcher = dispatcher
	r.session = session

	r.lifecycle.Go(func() {
		r.run(runCtx, dispatcher, session)
	})
	return nil
}

// run dials the feed and drives the connection until it ends.
func (r *Radio) run(ctx context.Context, dispatcher *app.Dispatcher, session *protocol.Session) {
	r.logger.Info("connecting", ports.String("url", r.config.ServiceURL))
	conn, err := r.dialer.Dial(ctx, r.config.ServiceURL)
	if err != nil {
		r.finish(fmt.Errorf("dial %s: %w", r.config.ServiceURL, err))
		return
	}
	if err := r.lifecycle.TransitionTo(app.StateRunning, "connected"); err != nil {
		// Stop() won the race.
		_ = conn.Close()
		return
	}

	dispatcher.Start(ctx)
	client := app.NewClient(conn, session, dispatcher, r.logger, app.ClientConfig{
		TickInterval: r.config.TickInterval,
		OnTick:       r.backlogWatch(dispatcher),
	})
	err = client.Run(ctx)
	dispatcher.Stop()

	r.logger.Info("connection ended",
		ports.Duration("uptime", session.Uptime()),
		ports.Int64("identity", session.Identity()))
	r.finish(err)
}

// finish moves the lifecycle out of Starting or Running after the
// connection ended on its own. When Stop() is in progress it owns the
// transition and finish does nothing.
func (r *Radio) finish(err error) {
	r.mu.Lock()
	state := r.lifecycle.State()
	if state != app.StateStarting && state != app.StateRunning {
		r.mu.Unlock()
		return
	}
	r.cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("feed connection failed", ports.Err(err))
		_ = r.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		r.mu.Unlock()
		r.shutdownPlugins(r.plugins)
		return
	}

	reason := "connection closed by server"
	if err != nil {
		reason = "context cancelled"
	}
	_ = r.lifecycle.TransitionTo(app.StateStopping, reason)
	r.mu.Unlock()
	r.shutdownPlugins(r.plugins)
	_ = r.lifecycle.TransitionTo(app.StateStopped, reason)
}

// backlogWatch returns a tick hook that warns once each time the queue
// grows past QueueWarnDepth. It runs on the connection loop goroutine.
func (r *Radio) backlogWatch(dispatcher *app.Dispatcher) func(time.Time) {
	depth := r.config.QueueWarnDepth
	if depth <= 0 {
		return nil
	}
	warned := false
	return func(time.Time) {
		n := dispatcher.Len()
		switch {
		case n >= depth && !warned:
			warned = true
			r.logger.Warn("notification backlog growing",
				ports.Int("queued", n),
				ports.Int("threshold", depth))
		case n < depth:
			warned = false
		}
	}
}

// Stop closes the connection and waits for the workers to exit.
// Waits up to 30 seconds before giving up.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (r *Radio) Stop() error {
	r.mu.Lock()
	if !r.lifecycle.CanStop() {
		r.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := r.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	err := r.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	r.shutdownPlugins(r.plugins)

	if err != nil {
		_ = r.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = r.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// shutdownPlugins shuts plugins down in reverse order.
func (r *Radio) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			r.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			r.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (r *Radio) Status() State {
	return convertState(r.lifecycle.State())
}

// Identity returns the session identity assigned by the server, 0 before
// the first welcome message or before Start().
func (r *Radio) Identity() int64 {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()
	if session == nil {
		return 0
	}
	return session.Identity()
}

// CacheDir returns the album-art cache directory.
func (r *Radio) CacheDir() string {
	return r.cache.Root()
}

// Stats returns cache and notification counters for the current run.
func (r *Radio) Stats() Stats {
	cs := r.cache.Stats()
	st := Stats{
		CacheHits:   cs.Hits,
		CacheMisses: cs.Misses,
		Fetches:     cs.Fetches,
	}

	r.mu.Lock()
	d := r.dispatcher
	r.mu.Unlock()
	if d != nil {
		ds := d.Stats()
		st.Delivered = ds.Delivered
		st.Dropped = ds.Dropped
		st.Muted = ds.Muted
		st.Queued = d.Len()
	}
	return st
}

// NotifySettings returns the live notification settings.
func (r *Radio) NotifySettings() NotifySettings {
	return r.settings.NotifySettings()
}

// UpdateNotifySettings replaces the notification settings. The next
// notification uses the new values.
func (r *Radio) UpdateNotifySettings(s NotifySettings) {
	r.settings.UpdateNotifySettings(s)
	r.logger.Info("notify settings updated",
		ports.String("app_name", s.AppName),
		ports.String("urgency", s.Urgency),
		ports.Bool("muted", s.Muted))
}
