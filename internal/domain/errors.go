package domain

import "errors"

// Domain errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("radio: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("radio: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("radio: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("radio: invalid configuration")

	// ErrInvalidLocator is returned when an album-art URL cannot be mapped
	// into the cache root.
	ErrInvalidLocator = errors.New("radio: invalid asset locator")

	// ErrBinaryFrame is returned when the peer sends a binary frame.
	// The feed is text only, so the connection loop stops.
	ErrBinaryFrame = errors.New("radio: unexpected binary frame")

	// ErrFetchStatus is returned when the asset server answers with a non-2xx status.
	ErrFetchStatus = errors.New("radio: unexpected fetch status")
)
