package radio

import "context"

// Plugin extends a Radio instance with optional behavior.
// Plugins are initialized in registration order when Start() is called and
// shut down in reverse order when the instance stops.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called during Start(). ctx is cancelled when the
	// instance stops. A non-nil error aborts Start() and the instance
	// moves to StateCrashed.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown releases the plugin's resources. Errors are logged and do
	// not stop other plugins from shutting down.
	Shutdown(ctx context.Context) error
}

// SettingsController reads and replaces the live notification settings.
type SettingsController interface {
	NotifySettings() NotifySettings
	UpdateNotifySettings(s NotifySettings)
}

// PluginConfig is passed to Plugin.Initialize.
type PluginConfig struct {
	ServiceURL string
	CacheDir   string
	Logger     Logger

	// Settings is the instance's notification settings store.
	Settings SettingsController
}

// BasePlugin implements Plugin with no-op Initialize and Shutdown.
type BasePlugin struct {
	name string
}

// NewBasePlugin returns a BasePlugin reporting name.
func NewBasePlugin(name string) BasePlugin {
	return BasePlugin{name: name}
}

// Name returns the plugin name.
func (p BasePlugin) Name() string { return p.name }

// Initialize does nothing.
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(context.Context) error { return nil }
