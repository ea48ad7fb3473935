// Package gensokyoradio shows desktop "now playing" notifications for the
// Gensokyo Radio stream.
//
// Example usage:
//
//	cfg := gensokyoradio.DefaultConfig()
//	cfg.Notify.Urgency = "low"
//	if err := gensokyoradio.Run(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// For finer control (Start/Stop, events, plugins) use pkg/radio directly.
package gensokyoradio

import (
	"context"
	"errors"
	"time"

	"github.com/atmouse-/gensokyoradio/pkg/radio"
)

// Config holds the runtime configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = radio.Config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return radio.DefaultConfig()
}

// DefaultServiceURL is the default feed endpoint.
const DefaultServiceURL = radio.DefaultServiceURL

// statusPoll is how often Run checks whether the feed ended.
const statusPoll = 100 * time.Millisecond

// Run connects to the feed and blocks until ctx is cancelled or the
// connection ends. It returns nil when ctx is cancelled or the server closes
// the feed, and an error when the connection fails.
func Run(ctx context.Context, cfg Config, opts ...radio.Option) error {
	r, err := radio.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := r.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(statusPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := r.Stop(); err != nil && !errors.Is(err, radio.ErrNotRunning) {
				return err
			}
			return nil
		case <-ticker.C:
			switch r.Status() {
			case radio.StateStopped:
				return nil
			case radio.StateCrashed:
				return errCrashed
			}
		}
	}
}

var errCrashed = errors.New("gensokyoradio: feed connection failed")
