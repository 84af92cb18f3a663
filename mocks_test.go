package portfolio2pdf

// Notes:
// - Renderer mocks record every call so tests can assert exactly how many
//   render attempts a conversion made and with which input.
// - Converter tests run on afero.MemMapFs with absolute paths, so
//   filepath.Abs leaves them unchanged.

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

const testPDF = "%PDF-1.4 test"

// testNow is the clock used by converter tests.
var testNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type wkhtmlCall struct {
	path        string
	opts        WkhtmlOptions
	hasDeadline bool
}

type mockWkhtmlRenderer struct {
	mu     sync.Mutex
	calls  []wkhtmlCall
	output []byte
	err    error
}

func (m *mockWkhtmlRenderer) RenderFromFile(ctx context.Context, filePath string, opts *WkhtmlOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	m.calls = append(m.calls, wkhtmlCall{path: filePath, opts: *opts, hasDeadline: hasDeadline})
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte(testPDF), nil
}

type browserCall struct {
	path string
	opts PrintOptions
}

// mockBrowserRenderer returns errs[i] from the i-th call; later calls
// succeed. onRender, when set, runs before the result is returned.
type mockBrowserRenderer struct {
	mu       sync.Mutex
	calls    []browserCall
	errs     []error
	output   []byte
	onRender func(call int)
	closed   int
}

func (m *mockBrowserRenderer) RenderFromFile(_ context.Context, filePath string, opts *PrintOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.calls)
	m.calls = append(m.calls, browserCall{path: filePath, opts: *opts})
	if m.onRender != nil {
		m.onRender(i)
	}
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte(testPDF), nil
}

func (m *mockBrowserRenderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// portfolioHTML contains every marker the pre-processor rewrites.
const portfolioHTML = `<!DOCTYPE html>
<html>
<head>
    <link rel="stylesheet" href="assets/css/styles.css">
</head>
<body>
    <div id="headerContainer"></div>
    <main class="container">Portfolio</main>
    <script src="assets/js/header-component.js"></script>
    <script src="assets/js/back-to-top.js"></script>
</body>
</html>`

// newPortfolioFS returns a memory filesystem holding /site/index.html.
func newPortfolioFS(t testing.TB) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/site/index.html", []byte(portfolioHTML), 0o644); err != nil {
		t.Fatal(err)
	}
	return fs
}
