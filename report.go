package portfolio2pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// Converter is implemented by both backends: it turns the HTML file at
// htmlPath into a PDF and reports where it was written.
type Converter interface {
	Convert(ctx context.Context, htmlPath string) (*Report, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ Converter = (*WkhtmlConverter)(nil)
	_ Converter = (*BrowserConverter)(nil)
)

// Report describes a PDF that was written and verified on disk.
type Report struct {
	InputPath  string        // HTML actually rendered
	OutputPath string        // PDF written
	Size       int64         // bytes
	Variant    Variant       // backend and input used
	Duration   time.Duration // total time including fallback
}

// SizeKB returns the PDF size in kibibytes.
func (r *Report) SizeKB() float64 {
	return float64(r.Size) / 1024
}

// String formats the size the way status lines print it, e.g. "12.3 KB".
func (r *Report) String() string {
	return fmt.Sprintf("%s (%.1f KB)", r.OutputPath, r.SizeKB())
}

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// looksLikePDF reports whether data starts with the PDF header.
func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// progressf writes one progress line.
func progressf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
