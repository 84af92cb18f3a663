package main

import (
	"context"
	"errors"
	"os"

	portfolio2pdf "github.com/alnah/go-portfolio2pdf"
	"github.com/alnah/go-portfolio2pdf/internal/config"
)

// Exit codes for the portfolio2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion (or failure without --strict)
	ExitGeneral  = 1 // General/unexpected error, interrupted run
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // HTML not found, output not writable
	ExitRenderer = 4 // wkhtmltopdf or browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitGeneral
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, portfolio2pdf.ErrInvalidPageSize) ||
		errors.Is(err, portfolio2pdf.ErrInvalidOrientation) ||
		errors.Is(err, portfolio2pdf.ErrInvalidMargin) ||
		errors.Is(err, portfolio2pdf.ErrInvalidScale) ||
		errors.Is(err, portfolio2pdf.ErrInvalidQuality) ||
		errors.Is(err, portfolio2pdf.ErrInvalidLoadHandling) ||
		errors.Is(err, portfolio2pdf.ErrInvalidEngine) ||
		errors.Is(err, portfolio2pdf.ErrInvalidOutputPrefix) ||
		errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, portfolio2pdf.ErrInputNotFound) ||
		errors.Is(err, portfolio2pdf.ErrPreprocess) ||
		errors.Is(err, portfolio2pdf.ErrWriteOutput) ||
		errors.Is(err, portfolio2pdf.ErrOutputMissing) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Renderer errors (exit 4)
	if errors.Is(err, portfolio2pdf.ErrRendererNotFound) ||
		errors.Is(err, portfolio2pdf.ErrWkhtmlRender) ||
		errors.Is(err, portfolio2pdf.ErrBrowserConnect) ||
		errors.Is(err, portfolio2pdf.ErrPageCreate) ||
		errors.Is(err, portfolio2pdf.ErrPageLoad) ||
		errors.Is(err, portfolio2pdf.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitRenderer
	}

	return ExitGeneral
}
