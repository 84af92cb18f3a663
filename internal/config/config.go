package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-portfolio2pdf/internal/fileutil"
	"github.com/alnah/go-portfolio2pdf/internal/yamlutil"
	"github.com/spf13/afero"
)

// AppDir is the directory under os.UserConfigDir searched for named configs.
const AppDir = "go-portfolio2pdf"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength   = 4096
	MaxPrefixLength = 200
	MaxTitleLength  = 200
)

// Config mirrors the CLI flags; empty values leave the built-in defaults.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Timeout     string            `yaml:"timeout"` // Go duration, e.g. "90s"
	Wkhtmltopdf WkhtmltopdfConfig `yaml:"wkhtmltopdf"`
	Browser     BrowserConfig     `yaml:"browser"`
}

// InputConfig defines the HTML source.
type InputConfig struct {
	HTML string `yaml:"html"` // default: index.html
}

// OutputConfig defines where PDFs are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // empty = next to the HTML
	Prefix string `yaml:"prefix"` // file name without extension
}

// WkhtmltopdfConfig defines wkhtmltopdf backend options.
type WkhtmltopdfConfig struct {
	Path        string `yaml:"path"`
	PageSize    string `yaml:"pageSize"`    // "A4", "Letter", "Legal"
	Orientation string `yaml:"orientation"` // "Portrait", "Landscape"
}

// BrowserConfig defines headless browser backend options.
type BrowserConfig struct {
	Engine      string `yaml:"engine"` // "rod" or "chromedp"
	Bin         string `yaml:"bin"`
	NoSandbox   bool   `yaml:"noSandbox"`
	KeepHTML    bool   `yaml:"keepHTML"`
	Optimize    *bool  `yaml:"optimize"` // nil = true
	HeaderTitle string `yaml:"headerTitle"`
}

// DefaultConfig returns an empty configuration: every field defers to the
// converter defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidValue, c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: timeout %q must not be negative", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

// OptimizeEnabled reports browser.optimize, defaulting to true.
func (c *Config) OptimizeEnabled() bool {
	return c.Browser.Optimize == nil || *c.Browser.Optimize
}

// Validate checks field lengths and enumerated values. Called by LoadConfig.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.html", c.Input.HTML, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"output.prefix", c.Output.Prefix, MaxPrefixLength},
		{"wkhtmltopdf.path", c.Wkhtmltopdf.Path, MaxPathLength},
		{"browser.bin", c.Browser.Bin, MaxPathLength},
		{"browser.headerTitle", c.Browser.HeaderTitle, MaxTitleLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		return fmt.Errorf("%w: output.prefix %q must not contain a path separator", ErrInvalidValue, c.Output.Prefix)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if err := validateOneOf("wkhtmltopdf.pageSize", c.Wkhtmltopdf.PageSize, "a4", "letter", "legal"); err != nil {
		return err
	}
	if err := validateOneOf("wkhtmltopdf.orientation", c.Wkhtmltopdf.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	return validateOneOf("browser.engine", c.Browser.Engine, "rod", "chromedp")
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateOneOf accepts an empty value or one of allowed, case-insensitively.
func validateOneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from the OS filesystem.
func LoadConfig(nameOrPath string) (*Config, error) {
	return LoadConfigFS(afero.NewOsFs(), nameOrPath)
}

// LoadConfigFS loads configuration from a file path or config name.
// A value containing a path separator is read as-is; a bare name is searched
// as name.yaml and name.yml in the current directory, then in
// os.UserConfigDir()/go-portfolio2pdf. A missing file is an error.
func LoadConfigFS(fs afero.Fs, nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(fs, nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := fs.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yamlutil.DecodeStrict(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// SearchPaths returns the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(fs afero.Fs, name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(fs, p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
