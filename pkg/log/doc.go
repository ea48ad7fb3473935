// Package log is the public logging surface of gensokyoradio.
//
// Embedders that want the runtime's log output pass a [Logger] to
// radio.WithLogger. The zerolog-backed logger used by the CLI is available
// here as well:
//
//	logger, err := log.NewConsoleLogger("debug")
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologLogger(zerolog.New(os.Stderr))
//
// Any type with Debug, Info, Warn and Error methods taking ...[Field]
// satisfies [Logger].
package log
