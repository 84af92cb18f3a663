package portfolio2pdf

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"
)

// Page size constants understood by wkhtmltopdf.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"
	PageSizeLegal  = "Legal"
)

// Orientation constants understood by wkhtmltopdf.
const (
	OrientationPortrait  = "Portrait"
	OrientationLandscape = "Landscape"
)

// Load error handling modes understood by wkhtmltopdf.
const (
	LoadHandlingAbort  = "abort"
	LoadHandlingIgnore = "ignore"
	LoadHandlingSkip   = "skip"
)

// A4 paper dimensions in millimeters.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// Print scale bounds accepted by Chrome's Page.printToPDF.
const (
	MinScale = 0.1
	MaxScale = 2.0
)

const mmPerInch = 25.4

// DefaultHeaderTitle is the text printed in the browser header template.
const DefaultHeaderTitle = "Vipin Kumar - Solution Architect Portfolio"

// Margin holds page margins in millimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(mm float64) Margin {
	return Margin{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

func (m Margin) validate() error {
	for _, v := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %.2f mm (must be >= 0)", ErrInvalidMargin, v)
		}
	}
	return nil
}

// WkhtmlOptions is the fixed render configuration for the wkhtmltopdf backend.
type WkhtmlOptions struct {
	PageSize               string
	Orientation            string
	Margin                 Margin // millimeters, rounded to whole mm for wkhtmltopdf
	Encoding               string
	Dpi                    uint
	ImageQuality           uint // 0-100
	MinimumFontSize        uint
	Zoom                   float64
	NoOutline              bool
	EnableLocalFileAccess  bool
	PrintMediaType         bool
	DisableSmartShrinking  bool
	DisableJavascript      bool
	LoadErrorHandling      string
	LoadMediaErrorHandling string
}

// DefaultWkhtmlOptions returns the wkhtmltopdf configuration used for the
// portfolio: A4 portrait, 0.75in margins, 300 DPI, JavaScript disabled.
func DefaultWkhtmlOptions() WkhtmlOptions {
	return WkhtmlOptions{
		PageSize:               PageSizeA4,
		Orientation:            OrientationPortrait,
		Margin:                 UniformMargin(0.75 * mmPerInch),
		Encoding:               "UTF-8",
		Dpi:                    300,
		ImageQuality:           100,
		MinimumFontSize:        12,
		Zoom:                   1.0,
		NoOutline:              true,
		EnableLocalFileAccess:  true,
		PrintMediaType:         true,
		DisableSmartShrinking:  true,
		DisableJavascript:      true,
		LoadErrorHandling:      LoadHandlingIgnore,
		LoadMediaErrorHandling: LoadHandlingIgnore,
	}
}

// Validate checks that the options can be passed to wkhtmltopdf.
func (o *WkhtmlOptions) Validate() error {
	if o == nil {
		return nil
	}
	switch o.PageSize {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, o.PageSize)
	}
	switch o.Orientation {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, o.Orientation)
	}
	if err := o.Margin.validate(); err != nil {
		return err
	}
	if o.ImageQuality > 100 {
		return fmt.Errorf("%w: %d (must be 0-100)", ErrInvalidQuality, o.ImageQuality)
	}
	if o.Zoom <= 0 {
		return fmt.Errorf("%w: zoom %.2f (must be > 0)", ErrInvalidScale, o.Zoom)
	}
	for _, h := range []string{o.LoadErrorHandling, o.LoadMediaErrorHandling} {
		switch h {
		case "", LoadHandlingAbort, LoadHandlingIgnore, LoadHandlingSkip:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidLoadHandling, h)
		}
	}
	return nil
}

// Viewport is the browser window size used for layout before printing.
type Viewport struct {
	Width  int
	Height int
}

// PrintOptions is a fixed render configuration for the headless browser backend.
type PrintOptions struct {
	PaperWidth          float64 // millimeters
	PaperHeight         float64 // millimeters
	Margin              Margin
	Scale               float64
	PrintBackground     bool
	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string
	PreferCSSPageSize   bool

	// Viewport overrides the engine default window size when non-nil.
	Viewport *Viewport

	// SettleDelay is waited after network idle so late assets and
	// animations finish before printing.
	SettleDelay time.Duration
}

// OptimizedPrintOptions returns the profile used with the pre-processed HTML.
func OptimizedPrintOptions(title string) PrintOptions {
	return PrintOptions{
		PaperWidth:          A4WidthMM,
		PaperHeight:         A4HeightMM,
		Margin:              Margin{Top: 15, Right: 10, Bottom: 15, Left: 10},
		Scale:               0.85,
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      headerTemplate(title, 9, true),
		FooterTemplate:      footerTemplate(9, true),
		SettleDelay:         time.Second,
	}
}

// OriginalPrintOptions returns the profile used when rendering the
// unmodified HTML.
func OriginalPrintOptions(title string) PrintOptions {
	return PrintOptions{
		PaperWidth:          A4WidthMM,
		PaperHeight:         A4HeightMM,
		Margin:              Margin{Top: 20, Right: 15, Bottom: 20, Left: 15},
		Scale:               0.8,
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      headerTemplate(title, 10, false),
		FooterTemplate:      footerTemplate(10, false),
		PreferCSSPageSize:   false,
		Viewport:            &Viewport{Width: 1200, Height: 800},
		SettleDelay:         2 * time.Second,
	}
}

// Validate checks that the options are accepted by Page.printToPDF.
func (o *PrintOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.PaperWidth <= 0 || o.PaperHeight <= 0 {
		return fmt.Errorf("%w: %.1fx%.1f mm", ErrInvalidPageSize, o.PaperWidth, o.PaperHeight)
	}
	if err := o.Margin.validate(); err != nil {
		return err
	}
	if o.Margin.Left+o.Margin.Right >= o.PaperWidth || o.Margin.Top+o.Margin.Bottom >= o.PaperHeight {
		return fmt.Errorf("%w: margins leave no printable area", ErrInvalidMargin)
	}
	if o.Scale < MinScale || o.Scale > MaxScale {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)", ErrInvalidScale, o.Scale, MinScale, MaxScale)
	}
	if o.Viewport != nil && (o.Viewport.Width <= 0 || o.Viewport.Height <= 0) {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidPageSize, o.Viewport.Width, o.Viewport.Height)
	}
	return nil
}

// inches converts millimeters to inches for CDP parameters.
func inches(mm float64) float64 {
	return mm / mmPerInch
}

// headerTemplate builds Chrome's header template. Chrome fills elements with
// the classes date, title, url, pageNumber and totalPages.
func headerTemplate(title string, fontSize int, centered bool) string {
	if strings.TrimSpace(title) == "" {
		return "<span></span>"
	}
	return templateDiv(html.EscapeString(title), fontSize, centered)
}

func footerTemplate(fontSize int, centered bool) string {
	return templateDiv(`Page <span class="pageNumber"></span> of <span class="totalPages"></span>`, fontSize, centered)
}

func templateDiv(content string, fontSize int, centered bool) string {
	style := fmt.Sprintf("font-size: %dpx; margin: 0 auto; color: #666;", fontSize)
	if centered {
		style += " text-align: center; width: 100%;"
	}
	return fmt.Sprintf(`<div style="%s">%s</div>`, style, content)
}

// Engine selects the headless browser driver.
type Engine string

// Supported browser engines.
const (
	EngineRod      Engine = "rod"
	EngineChromedp Engine = "chromedp"
)

// ParseEngine returns the Engine for name (case-insensitive). An empty name
// selects rod.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(EngineRod):
		return EngineRod, nil
	case string(EngineChromedp):
		return EngineChromedp, nil
	}
	return "", fmt.Errorf("%w: %q (must be rod or chromedp)", ErrInvalidEngine, name)
}

// Variant names which input and backend produced a PDF.
type Variant string

// Conversion variants.
const (
	VariantWkhtml    Variant = "wkhtmltopdf"
	VariantOptimized Variant = "optimized"
	VariantOriginal  Variant = "original"
)
