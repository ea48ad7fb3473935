package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/atmouse-/gensokyoradio/internal/adapters/log"
	"github.com/atmouse-/gensokyoradio/internal/adapters/notify"
	"github.com/atmouse-/gensokyoradio/internal/cliconfig"
	"github.com/atmouse-/gensokyoradio/pkg/radio"
	"github.com/atmouse-/gensokyoradio/plugins/configwatcher"
)

const helpDescription = `
Desktop "now playing" notifications for Gensokyo Radio.

Keeps a connection to the station's live feed and shows a notification with
the album art every time the song changes. Album art is downloaded once and
kept in the user cache directory.

Configure via file ($HOME/.gensokyoradio/config.toml), GENSOKYO_* environment
variables, or flags. The [notify] table of the config file is reloaded while
running.
`

var exampleUsage = strings.TrimSpace(`
  gensokyoradio
  gensokyoradio --notifier log --log-level debug
  gensokyoradio --config $HOME/.gensokyoradio/config.yaml --urgency low
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log, _ := logAdapter.NewConsoleLogger("info")

	root := &cobra.Command{
		Use:     "gensokyoradio",
		Short:   "Desktop now-playing notifications for Gensokyo Radio",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// GENSOKYO_* override the file but not flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			zl, err := logAdapter.NewConsoleLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			log = zl
			log.Info().Interface("config", cfg).Msg("configuration")

			return run(cfg, cfgFile, log)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.gensokyoradio/config.toml)")
	root.Flags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "websocket URL of the now-playing feed")
	root.Flags().StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "album art cache directory (default: user cache dir)")

	root.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "notification workers")
	root.Flags().DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "connection loop timer period")
	root.Flags().DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", cfg.HandshakeTimeout, "websocket handshake timeout")
	root.Flags().DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "album art HTTP timeout")
	root.Flags().IntVar(&cfg.FetchRetries, "fetch-retries", cfg.FetchRetries, "album art fetch retries (0 disables)")
	root.Flags().IntVar(&cfg.QueueWarnDepth, "queue-warn-depth", cfg.QueueWarnDepth, "warn when this many songs wait for a worker (0 disables)")

	root.Flags().StringVar(&cfg.Notifier, "notifier", cfg.Notifier, "notification backend: auto, dbus or log")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().StringVar(&cfg.AppName, "app-name", cfg.AppName, "application name shown in notifications")
	root.Flags().StringVar(&cfg.Urgency, "urgency", cfg.Urgency, "notification urgency: low, normal or critical")
	root.Flags().BoolVar(&cfg.Muted, "muted", cfg.Muted, "keep caching album art but show no notifications")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("gensokyoradio")
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config, cfgFile string, log zerolog.Logger) error {
	logger := logAdapter.NewZerologAdapterWithLogger(log)

	notifier, closeNotifier, err := newNotifier(cfg.Notifier, logger, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	opts := []radio.Option{
		radio.WithLogger(logger),
		radio.WithNotifier(notifier),
	}
	if cfgFile != "" {
		opts = append(opts, configwatcher.WithConfigWatcher(configwatcher.Config{Path: cfgFile}))
	}

	r, err := radio.New(cfg.RadioConfig(), opts...)
	if err != nil {
		return fmt.Errorf("create radio: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("start radio: %w", err)
	}

	// The feed is not re-dialed, so the process ends with the connection.
	doneCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := r.Status()
				if status == radio.StateStopped || status == radio.StateCrashed {
					close(doneCh)
					return
				}
			}
		}
	}()

	select {
	case <-sigCh:
		log.Info().Msg("received signal, stopping...")
	case <-doneCh:
	}

	if err := r.Stop(); err != nil && !errors.Is(err, radio.ErrNotRunning) {
		return fmt.Errorf("stop radio: %w", err)
	}

	st := r.Stats()
	log.Info().
		Uint64("delivered", st.Delivered).
		Uint64("dropped", st.Dropped).
		Uint64("fetches", st.Fetches).
		Uint64("cache_hits", st.CacheHits).
		Msg("stopped")

	if r.Status() == radio.StateCrashed {
		return errors.New("feed connection failed")
	}
	return nil
}

// newNotifier picks the presentation backend. "auto" falls back to the log
// notifier when no session bus is reachable.
func newNotifier(kind string, logger radio.Logger, log zerolog.Logger) (radio.Notifier, func(), error) {
	noop := func() {}
	if kind == cliconfig.NotifierLog {
		return notify.NewLogNotifier(logger), noop, nil
	}

	n, err := notify.NewDBusNotifier()
	if err != nil {
		if kind == cliconfig.NotifierDBus {
			return nil, noop, err
		}
		log.Warn().Err(err).Msg("desktop notifications unavailable, logging instead")
		return notify.NewLogNotifier(logger), noop, nil
	}
	return n, func() { _ = n.Close() }, nil
}
