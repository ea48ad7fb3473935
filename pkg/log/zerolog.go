package log

import (
	"github.com/rs/zerolog"

	logAdapter "github.com/atmouse-/gensokyoradio/internal/adapters/log"
)

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return logAdapter.NewZerologAdapterWithLogger(logger)
}

// NewConsoleLogger returns a logger writing human-readable lines to stderr.
// level is a zerolog level name; empty means info.
func NewConsoleLogger(level string) (Logger, error) {
	zl, err := logAdapter.NewConsoleLogger(level)
	if err != nil {
		return nil, err
	}
	return logAdapter.NewZerologAdapterWithLogger(zl), nil
}
