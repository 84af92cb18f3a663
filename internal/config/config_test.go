package config

// Notes:
// - Named lookups in os.UserConfigDir are tested by pointing XDG_CONFIG_HOME
//   (and HOME, for macOS) at a temp dir. Those tests use t.Setenv and cannot
//   run in parallel.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// TestDefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.HTML != "" || cfg.Output.Dir != "" || cfg.Output.Prefix != "" {
		t.Errorf("DefaultConfig() = %+v, want empty input/output", cfg)
	}
	if !cfg.OptimizeEnabled() {
		t.Error("OptimizeEnabled() = false, want true by default")
	}
	if d, err := cfg.TimeoutDuration(); err != nil || d != 0 {
		t.Errorf("TimeoutDuration() = %v, %v; want 0, nil", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"empty", Config{}, nil},
		{"full valid", Config{
			Input:       InputConfig{HTML: "site/index.html"},
			Output:      OutputConfig{Dir: "dist", Prefix: "Portfolio"},
			Timeout:     "2m",
			Wkhtmltopdf: WkhtmltopdfConfig{PageSize: "a4", Orientation: "Landscape"},
			Browser:     BrowserConfig{Engine: "Chromedp", HeaderTitle: "My Portfolio"},
		}, nil},
		{"prefix with separator", Config{Output: OutputConfig{Prefix: "a/b"}}, ErrInvalidValue},
		{"prefix too long", Config{Output: OutputConfig{Prefix: strings.Repeat("p", MaxPrefixLength+1)}}, ErrFieldTooLong},
		{"title too long", Config{Browser: BrowserConfig{HeaderTitle: strings.Repeat("t", MaxTitleLength+1)}}, ErrFieldTooLong},
		{"bad timeout", Config{Timeout: "soon"}, ErrInvalidValue},
		{"negative timeout", Config{Timeout: "-5s"}, ErrInvalidValue},
		{"bad page size", Config{Wkhtmltopdf: WkhtmltopdfConfig{PageSize: "A3"}}, ErrInvalidValue},
		{"bad orientation", Config{Wkhtmltopdf: WkhtmltopdfConfig{Orientation: "diagonal"}}, ErrInvalidValue},
		{"bad engine", Config{Browser: BrowserConfig{Engine: "firefox"}}, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_OptimizeEnabled(t *testing.T) {
	t.Parallel()

	off, on := false, true
	tests := []struct {
		name string
		val  *bool
		want bool
	}{
		{"unset", nil, true},
		{"false", &off, false},
		{"true", &on, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config{Browser: BrowserConfig{Optimize: tt.val}}
			if got := cfg.OptimizeEnabled(); got != tt.want {
				t.Errorf("OptimizeEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfigFS - Explicit paths
// ---------------------------------------------------------------------------

func TestLoadConfigFS(t *testing.T) {
	t.Parallel()

	t.Run("parses every section", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/cfg/portfolio.yaml", `
input:
  html: site/index.html
output:
  dir: dist
  prefix: Jane_Doe_Portfolio
timeout: 90s
wkhtmltopdf:
  path: /opt/wkhtmltopdf
  pageSize: Letter
browser:
  engine: chromedp
  noSandbox: true
  keepHTML: true
  optimize: false
  headerTitle: Jane Doe
`)

		cfg, err := LoadConfigFS(fs, "/cfg/portfolio.yaml")
		if err != nil {
			t.Fatalf("LoadConfigFS() error = %v", err)
		}
		if cfg.Input.HTML != "site/index.html" {
			t.Errorf("Input.HTML = %q", cfg.Input.HTML)
		}
		if cfg.Output.Dir != "dist" || cfg.Output.Prefix != "Jane_Doe_Portfolio" {
			t.Errorf("Output = %+v", cfg.Output)
		}
		if d, _ := cfg.TimeoutDuration(); d != 90*time.Second {
			t.Errorf("TimeoutDuration() = %v, want 90s", d)
		}
		if cfg.Wkhtmltopdf.Path != "/opt/wkhtmltopdf" || cfg.Wkhtmltopdf.PageSize != "Letter" {
			t.Errorf("Wkhtmltopdf = %+v", cfg.Wkhtmltopdf)
		}
		if cfg.Browser.Engine != "chromedp" || !cfg.Browser.NoSandbox || !cfg.Browser.KeepHTML {
			t.Errorf("Browser = %+v", cfg.Browser)
		}
		if cfg.OptimizeEnabled() {
			t.Error("OptimizeEnabled() = true, want false")
		}
		if cfg.Browser.HeaderTitle != "Jane Doe" {
			t.Errorf("HeaderTitle = %q", cfg.Browser.HeaderTitle)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFS(afero.NewMemMapFs(), "/cfg/missing.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/cfg/bad.yaml", "output:\n  folder: dist\n")

		_, err := LoadConfigFS(fs, "/cfg/bad.yaml")
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file rejected", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/cfg/empty.yaml", "")

		_, err := LoadConfigFS(fs, "/cfg/empty.yaml")
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation runs after parsing", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/cfg/engine.yaml", "browser:\n  engine: webkit\n")

		_, err := LoadConfigFS(fs, "/cfg/engine.yaml")
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFS(afero.NewMemMapFs(), "")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfigFS - Named lookup
// ---------------------------------------------------------------------------

func TestLoadConfigFS_NameInCurrentDir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "portfolio.yml", "output:\n  prefix: FromYml\n")

	cfg, err := LoadConfigFS(fs, "portfolio")
	if err != nil {
		t.Fatalf("LoadConfigFS() error = %v", err)
	}
	if cfg.Output.Prefix != "FromYml" {
		t.Errorf("Prefix = %q, want FromYml", cfg.Output.Prefix)
	}
}

func TestLoadConfigFS_YamlBeforeYml(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "portfolio.yaml", "output:\n  prefix: FromYaml\n")
	writeFile(t, fs, "portfolio.yml", "output:\n  prefix: FromYml\n")

	cfg, err := LoadConfigFS(fs, "portfolio")
	if err != nil {
		t.Fatalf("LoadConfigFS() error = %v", err)
	}
	if cfg.Output.Prefix != "FromYaml" {
		t.Errorf("Prefix = %q, want FromYaml", cfg.Output.Prefix)
	}
}

func TestLoadConfigFS_NameInUserConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("UserConfigDir uses %AppData% on Windows")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	dir, err := os.UserConfigDir()
	if err != nil {
		t.Fatal(err)
	}

	fs := afero.NewMemMapFs()
	writeFile(t, fs, filepath.Join(dir, AppDir, "work.yaml"), "browser:\n  engine: rod\n")

	cfg, err := LoadConfigFS(fs, "work")
	if err != nil {
		t.Fatalf("LoadConfigFS() error = %v", err)
	}
	if cfg.Browser.Engine != "rod" {
		t.Errorf("Engine = %q, want rod", cfg.Browser.Engine)
	}
}

func TestLoadConfigFS_NameNotFoundListsPaths(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFS(afero.NewMemMapFs(), "nowhere")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	for _, want := range []string{"nowhere.yaml", "nowhere.yml"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not list %s", err, want)
		}
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("portfolio")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "portfolio.yaml" || paths[1] != "portfolio.yml" {
		t.Errorf("SearchPaths()[:2] = %v, want local .yaml then .yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, AppDir) {
			t.Errorf("user path %q does not contain %s", p, AppDir)
		}
	}
}
