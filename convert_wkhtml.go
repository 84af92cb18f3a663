package portfolio2pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-portfolio2pdf/internal/fileutil"
	"github.com/spf13/afero"
)

// WkhtmlConverter converts the portfolio with wkhtmltopdf and writes a
// statically named PDF. Create with NewWkhtmlConverter.
type WkhtmlConverter struct {
	cfg      settings
	renderer WkhtmlRenderer
}

// NewWkhtmlConverter creates a converter using the wkhtmltopdf backend.
// Options are validated here; the wkhtmltopdf executable is looked up on
// each conversion.
func NewWkhtmlConverter(opts ...Option) (*WkhtmlConverter, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.wkhtmlOptions.Validate(); err != nil {
		return nil, err
	}
	if err := validatePrefix(cfg.prefix); err != nil {
		return nil, err
	}

	renderer := cfg.wkhtmlRenderer
	if renderer == nil {
		renderer = newWkhtmlRenderer(cfg.wkhtmlPath)
	}

	return &WkhtmlConverter{cfg: cfg, renderer: renderer}, nil
}

// Convert renders htmlPath to "<prefix>.pdf" in the output directory.
// A missing input returns ErrInputNotFound without invoking wkhtmltopdf.
func (c *WkhtmlConverter) Convert(ctx context.Context, htmlPath string) (*Report, error) {
	start := time.Now()
	w := c.cfg.progress

	outputPath := filepath.Join(outputDirFor(c.cfg.outputDir, htmlPath), StaticOutputName(c.cfg.prefix))

	progressf(w, "Converting portfolio to PDF...")
	progressf(w, "HTML file: %s", htmlPath)
	progressf(w, "Output PDF: %s", outputPath)

	if err := checkInput(c.cfg.fs, htmlPath); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("resolving input path: %w", err)
	}

	renderCtx, cancel := withTimeout(ctx, c.cfg.timeout)
	defer cancel()

	opts := c.cfg.wkhtmlOptions
	pdf, err := c.renderer.RenderFromFile(renderCtx, abs, &opts)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", htmlPath, err)
	}

	size, err := writeOutput(c.cfg, outputPath, pdf)
	if err != nil {
		return nil, err
	}

	return &Report{
		InputPath:  htmlPath,
		OutputPath: outputPath,
		Size:       size,
		Variant:    VariantWkhtml,
		Duration:   time.Since(start),
	}, nil
}

// Close is a no-op: every conversion runs its own wkhtmltopdf process.
func (c *WkhtmlConverter) Close() error {
	return nil
}

// checkInput reports a missing or non-regular input file as ErrInputNotFound.
func checkInput(fs afero.Fs, htmlPath string) error {
	if err := fileutil.CheckFile(fs, htmlPath); err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, htmlPath)
	}
	return nil
}

// outputDirFor returns dir, or the input's directory when dir is empty.
func outputDirFor(dir, htmlPath string) string {
	if dir != "" {
		return dir
	}
	return filepath.Dir(htmlPath)
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// writeOutput writes pdf atomically, then confirms the file exists and
// returns its size.
func writeOutput(cfg settings, outputPath string, pdf []byte) (int64, error) {
	if len(pdf) == 0 {
		return 0, fmt.Errorf("%w: renderer returned no data", ErrPDFGeneration)
	}
	if !looksLikePDF(pdf) {
		progressf(cfg.progress, "Warning: output does not start with a PDF header")
	}

	if err := fileutil.WriteFileAtomic(cfg.fs, outputPath, pdf, filePerm); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	size, err := fileutil.FileSize(cfg.fs, outputPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOutputMissing, outputPath)
	}
	return size, nil
}
