package portfolio2pdf

import (
	"io"
	"time"

	"github.com/spf13/afero"
)

// Default values for converter settings.
const (
	defaultTimeout = 60 * time.Second
	filePerm       = 0o644 // rw-r--r--: PDFs and HTML copies are meant to be readable
)

// settings holds configuration shared by both converters. Each converter
// reads the fields relevant to its backend.
type settings struct {
	fs        afero.Fs
	now       func() time.Time
	progress  io.Writer
	timeout   time.Duration
	outputDir string
	prefix    string

	// wkhtmltopdf backend
	wkhtmlPath     string
	wkhtmlOptions  WkhtmlOptions
	wkhtmlRenderer WkhtmlRenderer

	// browser backend
	engine           Engine
	browserBin       string
	noSandbox        bool
	autoDownload     bool
	headerTitle      string
	optimize         bool
	keepIntermediate bool
	optimizedProfile *PrintOptions
	originalProfile  *PrintOptions
	browserRenderer  BrowserRenderer
}

func defaultSettings() settings {
	return settings{
		fs:            afero.NewOsFs(),
		now:           time.Now,
		progress:      io.Discard,
		timeout:       defaultTimeout,
		prefix:        DefaultOutputPrefix,
		wkhtmlOptions: DefaultWkhtmlOptions(),
		engine:        EngineRod,
		autoDownload:  true,
		headerTitle:   DefaultHeaderTitle,
		optimize:      true,
	}
}

// Option configures a converter.
type Option func(*settings)

// WithFS sets the filesystem used to check inputs, write the optimized HTML
// copy and write the PDF. Renderers still read the HTML from the OS path.
func WithFS(fs afero.Fs) Option {
	return func(s *settings) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithClock sets the clock used for timestamped output names.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithProgress sets the writer receiving human-readable progress lines.
func WithProgress(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.progress = w
		}
	}
}

// WithTimeout bounds a single render attempt. Zero or negative disables the
// timeout; the caller's context still applies.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithOutputDir sets the directory receiving the PDF. Empty means the
// directory of the input HTML.
func WithOutputDir(dir string) Option {
	return func(s *settings) {
		s.outputDir = dir
	}
}

// WithOutputPrefix sets the base name of the generated PDF.
func WithOutputPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithWkhtmlPath sets the wkhtmltopdf executable. Empty uses
// WKHTMLTOPDF_PATH, the working directory, then PATH.
func WithWkhtmlPath(path string) Option {
	return func(s *settings) {
		s.wkhtmlPath = path
	}
}

// WithWkhtmlOptions replaces the wkhtmltopdf render configuration.
func WithWkhtmlOptions(opts WkhtmlOptions) Option {
	return func(s *settings) {
		s.wkhtmlOptions = opts
	}
}

// WithWkhtmlRenderer replaces the wkhtmltopdf backend.
func WithWkhtmlRenderer(r WkhtmlRenderer) Option {
	return func(s *settings) {
		s.wkhtmlRenderer = r
	}
}

// WithEngine selects the headless browser driver.
func WithEngine(e Engine) Option {
	return func(s *settings) {
		s.engine = e
	}
}

// WithBrowserBin sets the Chrome/Chromium executable.
func WithBrowserBin(path string) Option {
	return func(s *settings) {
		s.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, required when running as root
// in containers.
func WithNoSandbox(noSandbox bool) Option {
	return func(s *settings) {
		s.noSandbox = noSandbox
	}
}

// WithAutoDownload controls whether a managed Chromium is downloaded when no
// browser is installed. Enabled by default.
func WithAutoDownload(enabled bool) Option {
	return func(s *settings) {
		s.autoDownload = enabled
	}
}

// WithHeaderTitle sets the text of the printed page header.
func WithHeaderTitle(title string) Option {
	return func(s *settings) {
		s.headerTitle = title
	}
}

// WithOptimize controls whether the browser converter first renders a
// PDF-optimized copy of the HTML. Enabled by default.
func WithOptimize(enabled bool) Option {
	return func(s *settings) {
		s.optimize = enabled
	}
}

// WithKeepIntermediate keeps the PDF-optimized HTML copy after a
// successful conversion.
func WithKeepIntermediate(keep bool) Option {
	return func(s *settings) {
		s.keepIntermediate = keep
	}
}

// WithPrintProfiles replaces the optimized and original browser profiles.
// A nil profile keeps the default.
func WithPrintProfiles(optimized, original *PrintOptions) Option {
	return func(s *settings) {
		s.optimizedProfile = optimized
		s.originalProfile = original
	}
}

// WithBrowserRenderer replaces the headless browser backend.
func WithBrowserRenderer(r BrowserRenderer) Option {
	return func(s *settings) {
		s.browserRenderer = r
	}
}
