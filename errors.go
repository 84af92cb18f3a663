package portfolio2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrInputNotFound    = errors.New("HTML file not found")
	ErrRendererNotFound = errors.New("wkhtmltopdf executable not found")
	ErrWkhtmlRender     = errors.New("wkhtmltopdf rendering failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrWriteOutput      = errors.New("failed to write PDF file")
	ErrOutputMissing    = errors.New("PDF file missing after conversion")
	ErrPreprocess       = errors.New("failed to create PDF-optimized HTML")

	// Render configuration validation errors.
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrInvalidOrientation  = errors.New("invalid orientation")
	ErrInvalidMargin       = errors.New("invalid margin")
	ErrInvalidScale        = errors.New("invalid scale")
	ErrInvalidQuality      = errors.New("invalid image quality")
	ErrInvalidLoadHandling = errors.New("invalid load error handling")
	ErrInvalidEngine       = errors.New("invalid browser engine")
	ErrInvalidOutputPrefix = errors.New("invalid output prefix")
)
