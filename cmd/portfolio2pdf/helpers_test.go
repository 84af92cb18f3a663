package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	portfolio2pdf "github.com/alnah/go-portfolio2pdf"
)

// fixedNow is the clock used by CLI tests; browser PDFs are named
// Vipin_Kumar_Portfolio_20250102_030405.pdf.
var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

const fakePDF = "%PDF-1.4 fake"

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock renderers
// ---------------------------------------------------------------------------

// mockWkhtml implements portfolio2pdf.WkhtmlRenderer.
type mockWkhtml struct {
	mu    sync.Mutex
	calls []string
	opts  []portfolio2pdf.WkhtmlOptions
	err   error
}

func (m *mockWkhtml) RenderFromFile(_ context.Context, path string, opts *portfolio2pdf.WkhtmlOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	m.opts = append(m.opts, *opts)
	if m.err != nil {
		return nil, m.err
	}
	return []byte(fakePDF), nil
}

// mockBrowser implements portfolio2pdf.BrowserRenderer. errs[i] is returned
// by the i-th call; calls beyond len(errs) succeed.
type mockBrowser struct {
	mu     sync.Mutex
	calls  []string
	errs   []error
	closed int
}

func (m *mockBrowser) RenderFromFile(_ context.Context, path string, _ *portfolio2pdf.PrintOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.calls)
	m.calls = append(m.calls, path)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	return []byte(fakePDF), nil
}

func (m *mockBrowser) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	vars    map[string]string
	wkhtml  *mockWkhtml
	browser *mockBrowser
}

// newTestEnv returns an Environment whose converters are real but render
// through mocks, with an empty, controllable set of environment variables.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		vars:    map[string]string{},
		wkhtml:  &mockWkhtml{},
		browser: &mockBrowser{},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			sort.Strings(out)
			return out
		},
		NewWkhtml: func(opts ...portfolio2pdf.Option) (portfolio2pdf.Converter, error) {
			return portfolio2pdf.NewWkhtmlConverter(append(opts, portfolio2pdf.WithWkhtmlRenderer(te.wkhtml))...)
		},
		NewBrowser: func(opts ...portfolio2pdf.Option) (portfolio2pdf.Converter, error) {
			return portfolio2pdf.NewBrowserConverter(append(opts, portfolio2pdf.WithBrowserRenderer(te.browser))...)
		},
		FindBrowser:    func() (string, bool) { return "", false },
		FindWkhtml:     func() (string, bool) { return "", false },
		ProgramVersion: func(context.Context, string) (string, error) { return "", errors.New("not available") },
		DownloadBrowser: func() (string, error) {
			return "", errors.New("download disabled in tests")
		},
	}
	return te
}

// writePortfolio creates dir/index.html and returns its path.
func writePortfolio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "index.html")
	content := `<html><head><link rel="stylesheet" href="assets/css/style.css"></head><body>Portfolio</body></html>`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s: %v", path, err)
	}
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected %s to be absent, stat err = %v", path, err)
	}
}
