// Package commands implements the mvgen subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mvgen/internal/config"
	"github.com/leapstack-labs/mvgen/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext with an engine. Returns the
// context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: eng,
	}, cleanup, nil
}

// getConfig returns the current configuration with an env-var fallback
// for commands invoked outside the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrent(); cfg != nil {
		return cfg
	}

	return &config.Config{
		ModelsDir:   getEnvOrDefault("MVGEN_MODELS_DIR", config.DefaultModelsDir),
		StatePath:   getEnvOrDefault("MVGEN_STATE_PATH", config.DefaultStateFile),
		Environment: getEnvOrDefault("MVGEN_ENVIRONMENT", config.DefaultEnv),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// createEngine creates an engine from the current configuration.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	return engine.New(engine.Config{
		ModelsDir:   cfg.ModelsDir,
		StatePath:   cfg.StatePath,
		Environment: cfg.Environment,
		Target:      cfg.Target,
		Logger:      logger,
	})
}
