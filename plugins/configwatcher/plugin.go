// Package configwatcher reloads notification settings when the config file
// changes. Only the [notify] table is applied at runtime; the other keys
// need a restart.
package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atmouse-/gensokyoradio/internal/adapters/notify"
	"github.com/atmouse-/gensokyoradio/internal/cliconfig"
	"github.com/atmouse-/gensokyoradio/pkg/log"
	"github.com/atmouse-/gensokyoradio/pkg/radio"
)

// Plugin watches the config file and swaps notify settings on change.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration

	logger   radio.Logger
	settings radio.SettingsController
	baseline radio.NotifySettings
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer

	// reloaded is signalled after each reload attempt. Tests only.
	reloaded func()
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the config file to watch.
	Path string

	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config watching the default config path.
func DefaultConfig() Config {
	return Config{
		Path:          cliconfig.DefaultConfigPath(),
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize records the current settings as the baseline and starts
// watching. A file that drops a key reverts that setting to the baseline.
func (p *Plugin) Initialize(ctx context.Context, cfg radio.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	p.settings = cfg.Settings
	p.mu.Unlock()

	if p.path == "" || p.settings == nil {
		p.logger.Warn("config watcher disabled: no config path or settings")
		return nil
	}
	p.baseline = p.settings.NotifySettings()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory so editors that replace the file are seen.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		p.logger.Warn("config watcher disabled: cannot watch directory",
			log.String("dir", dir),
			log.Err(err))
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher started", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
		p.debounce = nil
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

// reload re-reads the file and applies its [notify] table. A file that
// fails to parse leaves the current settings in place.
func (p *Plugin) reload() {
	if p.reloaded != nil {
		defer p.reloaded()
	}

	fc, err := cliconfig.LoadFileConfig(p.path)
	if err != nil {
		p.logger.Warn("config reload failed, keeping current settings",
			log.String("path", p.path),
			log.Err(err))
		return
	}

	next := fc.Notify.Apply(p.baseline)
	if _, err := notify.ParseUrgency(next.Urgency); err != nil {
		p.logger.Warn("config reload rejected", log.Err(err))
		return
	}
	if next == p.settings.NotifySettings() {
		p.logger.Debug("config reloaded, notify settings unchanged")
		return
	}
	p.settings.UpdateNotifySettings(next)
}

// Ensure Plugin implements radio.Plugin.
var _ radio.Plugin = (*Plugin)(nil)
