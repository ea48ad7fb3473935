// Package radio provides an embeddable client for the gensokyoradio
// now-playing feed.
//
// A Radio keeps one websocket connection to the feed, answers its
// keep-alive pings, and turns every "song changed" message into a desktop
// notification showing the album art. Album art is fetched once and kept in
// a local cache directory.
//
// # Basic Usage
//
//	r, err := radio.New(radio.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := r.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := r.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Notifications
//
// By default notifications are only logged. Pass a [Notifier] with
// [WithNotifier] to show them; the CLI uses the freedesktop D-Bus service.
// Presentation settings can be swapped while running with
// [Radio.UpdateNotifySettings].
//
// # Event Handling
//
// Implement [EventHandler] (embed [BaseEventHandler] for no-op defaults)
// and pass it via [WithEventHandler] to observe state changes and songs.
//
// # Lifecycle States
//
// A Radio is in one of [StateStopped], [StateStarting], [StateRunning],
// [StateStopping] or [StateCrashed]. The connection is not re-dialed: when
// the feed fails the instance moves to StateCrashed and Start() may be
// called again. When the server closes the feed the instance stops.
//
// # Plugins
//
//	r, err := radio.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{Path: path}),
//	)
package radio
