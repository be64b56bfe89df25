// Package logging provides a minimal logging interface and adapters for the
// agent hub.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the hub, registry and agents use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.LevelInfo, "json", os.Stdout)
//	h := hub.New(func(o *hub.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal so callers can plug
// any structured logger.
package logging
