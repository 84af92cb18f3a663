package portfolio2pdf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-portfolio2pdf/internal/fileutil"
	"github.com/spf13/afero"
)

func newTestWkhtml(t *testing.T, fs afero.Fs, r *mockWkhtmlRenderer, opts ...Option) (*WkhtmlConverter, *bytes.Buffer) {
	t.Helper()
	var progress bytes.Buffer
	base := []Option{WithFS(fs), WithProgress(&progress), WithWkhtmlRenderer(r)}
	conv, err := NewWkhtmlConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewWkhtmlConverter() error = %v", err)
	}
	return conv, &progress
}

// ---------------------------------------------------------------------------
// TestWkhtmlConverter_Convert
// ---------------------------------------------------------------------------

func TestWkhtmlConverter_Convert(t *testing.T) {
	t.Parallel()

	fs := newPortfolioFS(t)
	r := &mockWkhtmlRenderer{}
	conv, progress := newTestWkhtml(t, fs, r)

	report, err := conv.Convert(context.Background(), "/site/index.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r.calls) != 1 {
		t.Fatalf("renderer calls = %d, want 1", len(r.calls))
	}
	if r.calls[0].path != "/site/index.html" {
		t.Errorf("rendered %q", r.calls[0].path)
	}
	if r.calls[0].opts != DefaultWkhtmlOptions() {
		t.Errorf("opts = %+v, want defaults", r.calls[0].opts)
	}
	if !r.calls[0].hasDeadline {
		t.Error("render context has no deadline with the default timeout")
	}

	if report.OutputPath != "/site/Vipin_Kumar_Portfolio.pdf" {
		t.Errorf("OutputPath = %q", report.OutputPath)
	}
	if report.Variant != VariantWkhtml || report.Size != int64(len(testPDF)) {
		t.Errorf("report = %+v", report)
	}
	got, _ := afero.ReadFile(fs, report.OutputPath)
	if string(got) != testPDF {
		t.Errorf("written = %q", got)
	}

	for _, want := range []string{"Converting portfolio to PDF...", "HTML file: /site/index.html", "Output PDF: /site/Vipin_Kumar_Portfolio.pdf"} {
		if !strings.Contains(progress.String(), want) {
			t.Errorf("progress missing %q:\n%s", want, progress)
		}
	}
}

func TestWkhtmlConverter_Convert_OverwritesStaticName(t *testing.T) {
	t.Parallel()

	fs := newPortfolioFS(t)
	if err := afero.WriteFile(fs, "/site/Vipin_Kumar_Portfolio.pdf", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	conv, _ := newTestWkhtml(t, fs, &mockWkhtmlRenderer{})

	if _, err := conv.Convert(context.Background(), "/site/index.html"); err != nil {
		t.Fatal(err)
	}
	got, _ := afero.ReadFile(fs, "/site/Vipin_Kumar_Portfolio.pdf")
	if string(got) != testPDF {
		t.Errorf("content = %q, want replaced", got)
	}
}

func TestWkhtmlConverter_Convert_Options(t *testing.T) {
	t.Parallel()

	fs := newPortfolioFS(t)
	if err := fs.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}
	r := &mockWkhtmlRenderer{}
	custom := DefaultWkhtmlOptions()
	custom.PageSize = PageSizeLegal
	conv, _ := newTestWkhtml(t, fs, r,
		WithOutputDir("/out"),
		WithOutputPrefix("CV"),
		WithTimeout(0),
		WithWkhtmlOptions(custom),
	)

	report, err := conv.Convert(context.Background(), "/site/index.html")
	if err != nil {
		t.Fatal(err)
	}
	if report.OutputPath != "/out/CV.pdf" {
		t.Errorf("OutputPath = %q", report.OutputPath)
	}
	if r.calls[0].opts.PageSize != PageSizeLegal {
		t.Errorf("page size = %q", r.calls[0].opts.PageSize)
	}
	if r.calls[0].hasDeadline {
		t.Error("deadline set with timeout disabled")
	}
}

// ---------------------------------------------------------------------------
// TestWkhtmlConverter_Convert_Errors
// ---------------------------------------------------------------------------

func TestWkhtmlConverter_Convert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		renderErr error
		output    []byte
		wantErr   error
		wantCalls int
	}{
		{"missing input", "/site/missing.html", nil, nil, ErrInputNotFound, 0},
		{"input is directory", "/site", nil, nil, ErrInputNotFound, 0},
		{"renderer not found", "/site/index.html", ErrRendererNotFound, nil, ErrRendererNotFound, 1},
		{"render failure", "/site/index.html", ErrWkhtmlRender, nil, ErrWkhtmlRender, 1},
		{"empty output", "/site/index.html", nil, []byte{}, ErrPDFGeneration, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := newPortfolioFS(t)
			r := &mockWkhtmlRenderer{err: tt.renderErr, output: tt.output}
			conv, _ := newTestWkhtml(t, fs, r)

			report, err := conv.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if report != nil {
				t.Errorf("report = %+v, want nil", report)
			}
			if len(r.calls) != tt.wantCalls {
				t.Errorf("renderer calls = %d, want %d", len(r.calls), tt.wantCalls)
			}
			if fileutil.FileExists(fs, "/site/Vipin_Kumar_Portfolio.pdf") {
				t.Error("PDF written despite failure")
			}
		})
	}
}

func TestWkhtmlConverter_Convert_WriteFailure(t *testing.T) {
	t.Parallel()

	fs := afero.NewReadOnlyFs(newPortfolioFS(t))
	conv, _ := newTestWkhtml(t, fs, &mockWkhtmlRenderer{})

	_, err := conv.Convert(context.Background(), "/site/index.html")
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("error = %v, want ErrWriteOutput", err)
	}
}

func TestWkhtmlConverter_Convert_NotPDFWarning(t *testing.T) {
	t.Parallel()

	conv, progress := newTestWkhtml(t, newPortfolioFS(t), &mockWkhtmlRenderer{output: []byte("<html>")})

	if _, err := conv.Convert(context.Background(), "/site/index.html"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(progress.String(), "Warning: output does not start with a PDF header") {
		t.Errorf("progress = %q", progress)
	}
}

// ---------------------------------------------------------------------------
// TestNewWkhtmlConverter
// ---------------------------------------------------------------------------

func TestNewWkhtmlConverter_Validation(t *testing.T) {
	t.Parallel()

	bad := DefaultWkhtmlOptions()
	bad.Orientation = "diagonal"

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"bad options", []Option{WithWkhtmlOptions(bad)}, ErrInvalidOrientation},
		{"bad prefix", []Option{WithOutputPrefix("../cv")}, ErrInvalidOutputPrefix},
		{"empty prefix", []Option{WithOutputPrefix("")}, ErrInvalidOutputPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewWkhtmlConverter(tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvertWithWkhtml(t *testing.T) {
	t.Parallel()

	fs := newPortfolioFS(t)
	report, err := ConvertWithWkhtml(context.Background(), "/site/index.html",
		WithFS(fs), WithWkhtmlRenderer(&mockWkhtmlRenderer{}), WithTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !fileutil.FileExists(fs, report.OutputPath) {
		t.Errorf("missing %s", report.OutputPath)
	}
}
