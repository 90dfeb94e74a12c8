package main

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pagemark/mdtoc/internal/config"
)

// envPrefix starts every variable read by the CLI.
const envPrefix = "MDTOC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDTOC_CONFIG: config file name or path
	Style      string        // MDTOC_STYLE: CSS style name or path
	Timeout    time.Duration // MDTOC_TIMEOUT: page load timeout
	Workers    int           // MDTOC_WORKERS: parallel workers
	OutputDir  string        // MDTOC_OUTPUT_DIR: default output directory
	PageSize   string        // MDTOC_PAGE_SIZE: letter, a4, ...
	Lang       string        // MDTOC_LANG: html lang attribute
	AssetPath  string        // MDTOC_ASSET_PATH: custom asset directory
	ChromePath string        // MDTOC_CHROME_PATH: browser binary
}

// knownEnvVars lists valid MDTOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDTOC_CONFIG":      true,
	"MDTOC_STYLE":       true,
	"MDTOC_TIMEOUT":     true,
	"MDTOC_WORKERS":     true,
	"MDTOC_OUTPUT_DIR":  true,
	"MDTOC_PAGE_SIZE":   true,
	"MDTOC_LANG":        true,
	"MDTOC_ASSET_PATH":  true,
	"MDTOC_CHROME_PATH": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDTOC_CONFIG"),
		Style:      getenv("MDTOC_STYLE"),
		OutputDir:  getenv("MDTOC_OUTPUT_DIR"),
		PageSize:   getenv("MDTOC_PAGE_SIZE"),
		Lang:       getenv("MDTOC_LANG"),
		AssetPath:  getenv("MDTOC_ASSET_PATH"),
		ChromePath: getenv("MDTOC_CHROME_PATH"),
	}

	if timeout := getenv("MDTOC_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MDTOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for unrecognized MDTOC_* variables.
// Helps catch typos like MDTOC_WORKER instead of MDTOC_WORKERS.
func warnUnknownEnvVars(environ []string, logger *slog.Logger) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment values over the config file.
// Order: defaults < config file < environment < front matter < flags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.CSS.Style = env.Style
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Lang != "" {
		cfg.Document.Lang = env.Lang
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.ChromePath != "" {
		cfg.Browser.Path = env.ChromePath
	}
}
