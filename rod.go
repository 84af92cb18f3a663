package portfolio2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-portfolio2pdf/internal/process"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserRenderer renders a local HTML file to PDF bytes in a headless
// browser. Implementations own a browser process released by Close.
type BrowserRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *PrintOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ BrowserRenderer = (*rodRenderer)(nil)
	_ BrowserRenderer = (*chromedpRenderer)(nil)
)

// requestIdleWindow is how long the page must go without network requests
// to count as idle.
const requestIdleWindow = 500 * time.Millisecond

// browserConfig holds launch settings shared by the browser engines.
type browserConfig struct {
	bin          string
	noSandbox    bool
	autoDownload bool
	timeout      time.Duration
}

// resolveBrowserConfig fills launch settings from the environment when the
// caller left them unset. ROD_BROWSER_BIN selects a pre-installed browser;
// CI=true, ROD_NO_SANDBOX=1 or a custom binary disable the sandbox.
func resolveBrowserConfig(bin string, noSandbox, autoDownload bool, timeout time.Duration) browserConfig {
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		noSandbox = true
	}
	return browserConfig{bin: bin, noSandbox: noSandbox, autoDownload: autoDownload, timeout: timeout}
}

// rodRenderer implements BrowserRenderer using go-rod.
// The browser is launched lazily on the first render and reused.
type rodRenderer struct {
	cfg      browserConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(cfg browserConfig) *rodRenderer {
	return &rodRenderer{cfg: cfg}
}

// ensureBrowser lazily launches and connects to the browser. Without a
// configured binary rod looks for an installed Chrome and, failing that,
// downloads a managed Chromium into ~/.cache/rod/browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if r.cfg.bin != "" {
		l = l.Bin(r.cfg.bin)
	} else if !r.cfg.autoDownload {
		path, found := launcher.LookPath()
		if !found {
			return fmt.Errorf("%w: no Chrome/Chromium installed and download disabled", ErrBrowserConnect)
		}
		l = l.Bin(path)
	}
	if r.cfg.noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources. If the browser does not shut down
// gracefully its process group is killed.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	if err != nil && r.launcher != nil {
		process.KillTree(r.launcher.PID())
		r.launcher.Kill()
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
	}

	r.browser = nil
	r.launcher = nil
	return err
}

// RenderFromFile opens filePath, waits for network idle and the load event,
// waits opts.SettleDelay and prints the page.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *PrintOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		o := OriginalPrintOptions(DefaultHeaderTitle)
		opts = &o
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving path: %v", ErrPageLoad, err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Bound every page operation by the caller's context and our timeout.
	timeout := r.cfg.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	p := page.Context(ctx)
	if timeout > 0 {
		p = p.Timeout(timeout)
	}

	if vp := opts.Viewport; vp != nil {
		if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             vp.Width,
			Height:            vp.Height,
			DeviceScaleFactor: 1,
		}); err != nil {
			return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
		}
	}

	waitIdle := p.WaitRequestIdle(requestIdleWindow, nil, nil, nil)
	if err := p.Navigate("file://" + filepath.ToSlash(abs)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	waitIdle()

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := sleepContext(ctx, opts.SettleDelay); err != nil {
		return nil, err
	}

	reader, err := p.PDF(buildRodPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildRodPDFOptions converts opts to the Page.printToPDF parameters.
func buildRodPDFOptions(opts *PrintOptions) *proto.PagePrintToPDF {
	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(inches(opts.PaperWidth)),
		PaperHeight:         floatPtr(inches(opts.PaperHeight)),
		MarginTop:           floatPtr(inches(opts.Margin.Top)),
		MarginRight:         floatPtr(inches(opts.Margin.Right)),
		MarginBottom:        floatPtr(inches(opts.Margin.Bottom)),
		MarginLeft:          floatPtr(inches(opts.Margin.Left)),
		Scale:               floatPtr(opts.Scale),
		PrintBackground:     opts.PrintBackground,
		PreferCSSPageSize:   opts.PreferCSSPageSize,
		DisplayHeaderFooter: opts.DisplayHeaderFooter,
	}

	if opts.DisplayHeaderFooter {
		pdfOpts.HeaderTemplate = opts.HeaderTemplate
		pdfOpts.FooterTemplate = opts.FooterTemplate
	}

	return pdfOpts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
