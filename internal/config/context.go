package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// currentConfig holds the config loaded by the root command so that
// subcommands in other packages can reach it.
var (
	currentConfig   *Config
	currentConfigMu sync.RWMutex
)

// SetCurrent stores the active configuration.
func SetCurrent(cfg *Config) {
	currentConfigMu.Lock()
	defer currentConfigMu.Unlock()
	currentConfig = cfg
}

// GetCurrent returns the active configuration, or nil if none was loaded.
func GetCurrent() *Config {
	currentConfigMu.RLock()
	defer currentConfigMu.RUnlock()
	return currentConfig
}

// loggerKey is used to store the logger in a context.
type loggerKey struct{}

// ContextWithLogger returns a context carrying the given logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the context, falling back to a
// discard logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewLogger creates the CLI logger. Verbose enables debug-level text
// output on stderr; otherwise logs are discarded so command output stays
// clean.
func NewLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
