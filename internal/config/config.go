// Package config provides configuration management for the mvgen CLI.
// Configuration is loaded with koanf from defaults, an optional
// mvgen.yaml file, MVGEN_-prefixed environment variables, and CLI flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

// Default configuration values.
const (
	DefaultModelsDir = "models"
	DefaultStateFile = ".mvgen/state.db"
	DefaultEnv       = "dev"
)

// maxUpwardSearchLevels limits how far up the directory tree to search
// for config files.
const maxUpwardSearchLevels = 10

// Config holds all CLI configuration options.
type Config struct {
	ModelsDir   string             `koanf:"models_dir"`
	StatePath   string             `koanf:"state_path"`
	Environment string             `koanf:"environment"`
	Verbose     bool               `koanf:"verbose"`
	Target      *core.TargetConfig `koanf:"target"`

	// ProjectRoot is the resolved project directory (not set from config
	// keys).
	ProjectRoot string `koanf:"-"`
}

// configFileUsed tracks the config file loaded by the last LoadConfig call.
var configFileUsed string

// configExistsIn checks if an mvgen config file exists in the directory.
func configExistsIn(dir string) string {
	for _, name := range []string{"mvgen.yaml", "mvgen.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRoot searches upward from startDir for an mvgen config file.
// Returns startDir if none is found within maxUpwardSearchLevels.
func findProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return startDir
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"models_dir":  DefaultModelsDir,
		"state_path":  DefaultStateFile,
		"environment": DefaultEnv,
		"verbose":     false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file (explicit path, or discovered from CWD upward)
	projectRoot := ""
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			projectRoot = findProjectRoot(cwd)
			cfgFile = configExistsIn(projectRoot)
		}
	} else if abs, err := filepath.Abs(cfgFile); err == nil {
		projectRoot = filepath.Dir(abs)
	}
	configFileUsed = cfgFile
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}
	if projectRoot == "" {
		projectRoot, _ = os.Getwd()
		if projectRoot == "" {
			projectRoot = "."
		}
	}

	// 3. Environment variables (MVGEN_ prefix)
	// Transform: MVGEN_MODELS_DIR -> models_dir, MVGEN_TARGET__TOKEN -> target.token
	if err := k.Load(env.Provider("MVGEN_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "MVGEN_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")

			// The CLI uses --state for brevity, config uses state_path
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths against the project root
	cfg.ProjectRoot = projectRoot
	cfg.ModelsDir = resolvePathRelativeTo(cfg.ModelsDir, projectRoot)
	cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)

	// Default to a local in-memory target when none is configured
	if cfg.Target == nil {
		cfg.Target = &core.TargetConfig{Type: "duckdb", Path: ":memory:"}
	}
	if cfg.Target.Type == "" {
		cfg.Target.Type = "duckdb"
	}

	expandTargetEnvVars(cfg.Target)

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not
// absolute. Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envVarPattern matches ${VAR} references in config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values,
// leaving unresolved references in place.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target
// fields so tokens never need to live in the config file.
func expandTargetEnvVars(t *core.TargetConfig) {
	t.Host = expandEnvVars(t.Host)
	t.HTTPPath = expandEnvVars(t.HTTPPath)
	t.Token = expandEnvVars(t.Token)
	t.Catalog = expandEnvVars(t.Catalog)
	t.Schema = expandEnvVars(t.Schema)
}
