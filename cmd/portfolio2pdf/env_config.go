package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-portfolio2pdf/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "PORTFOLIO2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // PORTFOLIO2PDF_CONFIG: config file name or path
	OutputDir  string        // PORTFOLIO2PDF_OUTPUT_DIR: PDF directory
	Timeout    time.Duration // PORTFOLIO2PDF_TIMEOUT: render timeout
	Engine     string        // PORTFOLIO2PDF_ENGINE: rod, chromedp
}

// knownEnvVars lists valid PORTFOLIO2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PORTFOLIO2PDF_CONFIG":     true,
	"PORTFOLIO2PDF_OUTPUT_DIR": true,
	"PORTFOLIO2PDF_TIMEOUT":    true,
	"PORTFOLIO2PDF_ENGINE":     true,
	"PORTFOLIO2PDF_CONTAINER":  true, // doctor override
}

// loadEnvConfig reads configuration from environment variables.
// An invalid or non-positive timeout is ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("PORTFOLIO2PDF_CONFIG"),
		OutputDir:  getenv("PORTFOLIO2PDF_OUTPUT_DIR"),
		Engine:     getenv("PORTFOLIO2PDF_ENGINE"),
	}

	if timeout := getenv("PORTFOLIO2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized PORTFOLIO2PDF_*
// variable in environ.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with the environment values
// that are set. CLI flags are applied afterwards, giving
// flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Engine != "" {
		cfg.Browser.Engine = env.Engine
	}
}
