package portfolio2pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
)

// chromedpRenderer implements BrowserRenderer using chromedp.
// The browser starts on the first render; each render uses its own tab.
type chromedpRenderer struct {
	cfg browserConfig

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func newChromedpRenderer(cfg browserConfig) *chromedpRenderer {
	return &chromedpRenderer{cfg: cfg}
}

// resolveChromedpBin returns the executable to launch. chromedp searches
// standard locations when it is empty; with auto-download enabled a missing
// browser is fetched with rod's downloader.
func (r *chromedpRenderer) resolveChromedpBin() (string, error) {
	if r.cfg.bin != "" {
		return r.cfg.bin, nil
	}
	if path, found := launcher.LookPath(); found {
		return path, nil
	}
	if !r.cfg.autoDownload {
		return "", nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("downloading browser: %w", err)
	}
	return path, nil
}

// ensureBrowser starts the browser eagerly so launch errors surface before
// navigation.
func (r *chromedpRenderer) ensureBrowser() error {
	if r.browserCtx != nil {
		return nil
	}

	bin, err := r.resolveChromedpBin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}
	if r.cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.allocCancel = allocCancel
	r.browserCtx = browserCtx
	r.browserCancel = browserCancel
	return nil
}

// Close shuts the browser down. Close is idempotent.
func (r *chromedpRenderer) Close() error {
	if r.browserCtx == nil {
		return nil
	}
	err := chromedp.Cancel(r.browserCtx)
	r.browserCancel()
	r.allocCancel()
	r.browserCtx = nil
	return err
}

// RenderFromFile opens filePath in a new tab, waits for the networkIdle
// lifecycle event, waits opts.SettleDelay and prints the page.
func (r *chromedpRenderer) RenderFromFile(ctx context.Context, filePath string, opts *PrintOptions) ([]byte, error) {
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

	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()

	// Tie the tab to the caller's context as well as the browser's.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if r.cfg.timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, r.cfg.timeout)
		defer cancel()
	}

	idle, arm := listenNetworkIdle(tabCtx)

	var setup chromedp.Tasks
	if vp := opts.Viewport; vp != nil {
		setup = append(setup, chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)))
	}
	setup = append(setup, page.SetLifecycleEventsEnabled(true))

	if err := chromedp.Run(tabCtx, setup); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := chromedp.Run(tabCtx,
		arm,
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		waitSignal(idle),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := sleepContext(ctx, opts.SettleDelay); err != nil {
		return nil, err
	}

	var buf []byte
	if err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = buildChromedpPrint(opts).Do(ctx)
		return err
	})); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	return buf, nil
}

// listenNetworkIdle returns a channel closed on the first networkIdle
// lifecycle event seen after the returned arm action runs. Events of the
// initial about:blank document arrive before arming and are ignored.
func listenNetworkIdle(ctx context.Context) (<-chan struct{}, chromedp.ActionFunc) {
	ch := make(chan struct{})
	var (
		once  sync.Once
		armed atomic.Bool
	)
	chromedp.ListenTarget(ctx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" && armed.Load() {
			once.Do(func() { close(ch) })
		}
	})
	arm := func(context.Context) error {
		armed.Store(true)
		return nil
	}
	return ch, arm
}

// waitSignal blocks the action chain until ch is closed.
func waitSignal(ch <-chan struct{}) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// buildChromedpPrint converts opts to the Page.printToPDF command.
func buildChromedpPrint(opts *PrintOptions) *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithPaperWidth(inches(opts.PaperWidth)).
		WithPaperHeight(inches(opts.PaperHeight)).
		WithMarginTop(inches(opts.Margin.Top)).
		WithMarginRight(inches(opts.Margin.Right)).
		WithMarginBottom(inches(opts.Margin.Bottom)).
		WithMarginLeft(inches(opts.Margin.Left)).
		WithScale(opts.Scale).
		WithPrintBackground(opts.PrintBackground).
		WithPreferCSSPageSize(opts.PreferCSSPageSize).
		WithDisplayHeaderFooter(opts.DisplayHeaderFooter)

	if opts.DisplayHeaderFooter {
		if opts.HeaderTemplate != "" {
			params = params.WithHeaderTemplate(opts.HeaderTemplate)
		}
		if opts.FooterTemplate != "" {
			params = params.WithFooterTemplate(opts.FooterTemplate)
		}
	}
	return params
}
