package portfolio2pdf

import (
	"fmt"
	"strings"
	"time"
)

// DefaultOutputPrefix is the base name of generated PDF files.
const DefaultOutputPrefix = "Vipin_Kumar_Portfolio"

// OptimizedHTMLName is the file name of the PDF-optimized HTML copy,
// written next to the source document.
const OptimizedHTMLName = "portfolio_pdf_version.html"

// timestampLayout renders as YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// StaticOutputName returns "<prefix>.pdf".
func StaticOutputName(prefix string) string {
	return prefix + ".pdf"
}

// TimestampedOutputName returns "<prefix>_<YYYYMMDD_HHMMSS>.pdf" for now,
// in now's location.
func TimestampedOutputName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", prefix, now.Format(timestampLayout))
}

// validatePrefix rejects prefixes that would escape the output directory.
func validatePrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOutputPrefix)
	}
	if strings.ContainsAny(prefix, "/\\\x00") || prefix == "." || prefix == ".." {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidOutputPrefix, prefix)
	}
	return nil
}
