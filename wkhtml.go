package portfolio2pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WkhtmlRenderer renders a local HTML file to PDF bytes with wkhtmltopdf.
type WkhtmlRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *WkhtmlOptions) ([]byte, error)
}

// Compile-time interface check.
var _ WkhtmlRenderer = (*wkhtmlRenderer)(nil)

// wkhtmlPathMu guards go-wkhtmltopdf's package-level binary path.
var wkhtmlPathMu sync.Mutex

// wkhtmlRenderer implements WkhtmlRenderer using go-wkhtmltopdf.
// Each call spawns one wkhtmltopdf process and blocks until it exits.
type wkhtmlRenderer struct {
	binPath string // empty lets go-wkhtmltopdf search for the binary
}

func newWkhtmlRenderer(binPath string) *wkhtmlRenderer {
	return &wkhtmlRenderer{binPath: binPath}
}

// RenderFromFile converts filePath and returns the PDF bytes. A missing
// executable is reported as ErrRendererNotFound.
func (r *wkhtmlRenderer) RenderFromFile(ctx context.Context, filePath string, opts *WkhtmlOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfg, err := r.newGenerator()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererNotFound, err)
	}

	var stderr bytes.Buffer
	pdfg.SetStderr(&stderr)

	page := wkhtmltopdf.NewPage(filePath)
	applyWkhtmlOptions(pdfg, page, opts)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrWkhtmlRender, err)
	}

	return pdfg.Bytes(), nil
}

// newGenerator creates a PDFGenerator, pinning the binary path first when one
// was configured.
func (r *wkhtmlRenderer) newGenerator() (*wkhtmltopdf.PDFGenerator, error) {
	if r.binPath == "" {
		return wkhtmltopdf.NewPDFGenerator()
	}

	wkhtmlPathMu.Lock()
	defer wkhtmlPathMu.Unlock()

	prev := wkhtmltopdf.GetPath()
	wkhtmltopdf.SetPath(r.binPath)
	defer wkhtmltopdf.SetPath(prev)

	return wkhtmltopdf.NewPDFGenerator()
}

// applyWkhtmlOptions maps opts onto the global and page options of a
// generator. A nil opts applies DefaultWkhtmlOptions.
func applyWkhtmlOptions(pdfg *wkhtmltopdf.PDFGenerator, page *wkhtmltopdf.Page, opts *WkhtmlOptions) {
	o := DefaultWkhtmlOptions()
	if opts != nil {
		o = *opts
	}

	// Global options
	pdfg.PageSize.Set(o.PageSize)
	pdfg.Orientation.Set(o.Orientation)
	pdfg.MarginTop.Set(wholeMM(o.Margin.Top))
	pdfg.MarginRight.Set(wholeMM(o.Margin.Right))
	pdfg.MarginBottom.Set(wholeMM(o.Margin.Bottom))
	pdfg.MarginLeft.Set(wholeMM(o.Margin.Left))
	pdfg.Dpi.Set(o.Dpi)
	pdfg.ImageQuality.Set(o.ImageQuality)
	pdfg.NoOutline.Set(o.NoOutline)

	// Page options
	if o.Encoding != "" {
		page.Encoding.Set(o.Encoding)
	}
	page.EnableLocalFileAccess.Set(o.EnableLocalFileAccess)
	page.PrintMediaType.Set(o.PrintMediaType)
	page.DisableSmartShrinking.Set(o.DisableSmartShrinking)
	page.DisableJavascript.Set(o.DisableJavascript)
	if o.MinimumFontSize > 0 {
		page.MinimumFontSize.Set(o.MinimumFontSize)
	}
	page.Zoom.Set(o.Zoom)
	if o.LoadErrorHandling != "" {
		page.LoadErrorHandling.Set(o.LoadErrorHandling)
	}
	if o.LoadMediaErrorHandling != "" {
		page.LoadMediaErrorHandling.Set(o.LoadMediaErrorHandling)
	}
}

// wholeMM rounds a millimeter value for wkhtmltopdf, whose margin flags take
// integers in its default unit (mm).
func wholeMM(mm float64) uint {
	if mm <= 0 {
		return 0
	}
	return uint(math.Round(mm))
}
