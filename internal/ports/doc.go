// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the client core and the outside world.
// They say what the core needs from external systems without saying how those
// needs are met.
//
// # Port Interfaces
//
//   - [Conn] and [Dialer]: the duplex text-frame transport
//   - [Fetcher]: downloads a remote asset for the cache
//   - [Notifier]: shows a desktop notification
//   - [SettingsSource]: live notification settings read by the dispatcher
//   - [Logger]: structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) and the asset cache (internal/cache)
// depend only on these interfaces. Infrastructure adapters
// (internal/adapters) implement them with gorilla/websocket, net/http, D-Bus
// and zerolog.
package ports
