package portfolio2pdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-portfolio2pdf/internal/fileutil"
)

// BrowserConverter converts the portfolio in a headless browser and writes a
// timestamped PDF. It first renders a PDF-optimized copy of the HTML and
// falls back to the original once if that fails.
//
// A BrowserConverter owns a browser process; call Close when done. It is
// not safe for concurrent use.
type BrowserConverter struct {
	cfg       settings
	renderer  BrowserRenderer
	optimized PrintOptions
	original  PrintOptions
}

// NewBrowserConverter creates a converter using the configured browser
// engine (rod by default). The browser is started on the first conversion.
func NewBrowserConverter(opts ...Option) (*BrowserConverter, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validatePrefix(cfg.prefix); err != nil {
		return nil, err
	}
	engine, err := ParseEngine(string(cfg.engine))
	if err != nil {
		return nil, err
	}
	cfg.engine = engine

	c := &BrowserConverter{
		cfg:       cfg,
		optimized: OptimizedPrintOptions(cfg.headerTitle),
		original:  OriginalPrintOptions(cfg.headerTitle),
	}
	if cfg.optimizedProfile != nil {
		c.optimized = *cfg.optimizedProfile
	}
	if cfg.originalProfile != nil {
		c.original = *cfg.originalProfile
	}
	if err := c.optimized.Validate(); err != nil {
		return nil, fmt.Errorf("optimized profile: %w", err)
	}
	if err := c.original.Validate(); err != nil {
		return nil, fmt.Errorf("original profile: %w", err)
	}

	c.renderer = cfg.browserRenderer
	if c.renderer == nil {
		bc := resolveBrowserConfig(cfg.browserBin, cfg.noSandbox, cfg.autoDownload, cfg.timeout)
		switch engine {
		case EngineChromedp:
			c.renderer = newChromedpRenderer(bc)
		default:
			c.renderer = newRodRenderer(bc)
		}
	}

	return c, nil
}

// Convert renders htmlPath to "<prefix>_<YYYYMMDD_HHMMSS>.pdf".
//
// With optimization enabled (the default) the PDF-optimized copy is
// rendered first and deleted on success. If that attempt fails, the
// original HTML is rendered exactly once; the copy is kept for inspection.
// A missing input returns ErrInputNotFound without starting the browser.
func (c *BrowserConverter) Convert(ctx context.Context, htmlPath string) (*Report, error) {
	start := time.Now()
	w := c.cfg.progress

	if err := checkInput(c.cfg.fs, htmlPath); err != nil {
		progressf(w, "HTML file not found: %s", htmlPath)
		return nil, err
	}

	if !c.cfg.optimize {
		progressf(w, "Creating PDF with original HTML...")
		return c.originalOnly(ctx, htmlPath, start)
	}

	progressf(w, "Creating PDF-optimized HTML version...")
	optimizedPath, err := WriteOptimizedCopy(c.cfg.fs, htmlPath)
	if err != nil {
		progressf(w, "Skipping optimized HTML: %v", err)
		progressf(w, "Creating PDF with original HTML...")
		return c.originalOnly(ctx, htmlPath, start)
	}
	progressf(w, "PDF-optimized HTML created: %s", optimizedPath)

	progressf(w, "Attempting PDF creation with optimized HTML...")
	report, primaryErr := c.attempt(ctx, htmlPath, optimizedPath, &c.optimized, VariantOptimized)
	if primaryErr == nil {
		if !c.cfg.keepIntermediate && fileutil.RemoveQuietly(c.cfg.fs, optimizedPath) {
			progressf(w, "Temporary files cleaned up")
		}
		report.Duration = time.Since(start)
		return report, nil
	}

	progressf(w, "PDF creation failed with optimized HTML: %v", primaryErr)
	if ctx.Err() != nil {
		return nil, primaryErr
	}

	progressf(w, "Trying with original HTML...")
	report, fallbackErr := c.attempt(ctx, htmlPath, htmlPath, &c.original, VariantOriginal)
	if fallbackErr != nil {
		return nil, errors.Join(primaryErr, fallbackErr)
	}
	report.Duration = time.Since(start)
	return report, nil
}

// Close releases the browser.
func (c *BrowserConverter) Close() error {
	return c.renderer.Close()
}

// attempt renders renderPath with opts and writes a timestamped PDF next to
// sourcePath (or into the configured output directory).
func (c *BrowserConverter) attempt(ctx context.Context, sourcePath, renderPath string, opts *PrintOptions, variant Variant) (*Report, error) {
	w := c.cfg.progress
	outputPath := filepath.Join(
		outputDirFor(c.cfg.outputDir, sourcePath),
		TimestampedOutputName(c.cfg.prefix, c.cfg.now()),
	)

	progressf(w, "Source: %s", renderPath)
	progressf(w, "Output: %s", outputPath)

	abs, err := filepath.Abs(renderPath)
	if err != nil {
		return nil, fmt.Errorf("resolving input path: %w", err)
	}

	renderCtx, cancel := withTimeout(ctx, c.cfg.timeout)
	defer cancel()

	pdf, err := c.renderer.RenderFromFile(renderCtx, abs, opts)
	if err != nil {
		return nil, fmt.Errorf("converting %s (%s): %w", renderPath, variant, err)
	}

	size, err := writeOutput(c.cfg, outputPath, pdf)
	if err != nil {
		return nil, err
	}

	return &Report{
		InputPath:  renderPath,
		OutputPath: outputPath,
		Size:       size,
		Variant:    variant,
	}, nil
}

func (c *BrowserConverter) originalOnly(ctx context.Context, htmlPath string, start time.Time) (*Report, error) {
	report, err := c.attempt(ctx, htmlPath, htmlPath, &c.original, VariantOriginal)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// ConvertWithWkhtml converts htmlPath using a temporary WkhtmlConverter.
func ConvertWithWkhtml(ctx context.Context, htmlPath string, opts ...Option) (*Report, error) {
	conv, err := NewWkhtmlConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.Convert(ctx, htmlPath)
}

// ConvertWithBrowser converts htmlPath using a temporary BrowserConverter.
// The browser is closed on every return path.
func ConvertWithBrowser(ctx context.Context, htmlPath string, opts ...Option) (*Report, error) {
	conv, err := NewBrowserConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.Convert(ctx, htmlPath)
}
