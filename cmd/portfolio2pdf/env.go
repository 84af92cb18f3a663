package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	portfolio2pdf "github.com/alnah/go-portfolio2pdf"
	"github.com/alnah/go-portfolio2pdf/internal/process"
	"github.com/go-rod/rod/lib/launcher"
)

// ConverterFactory builds a converter from library options.
type ConverterFactory func(opts ...portfolio2pdf.Option) (portfolio2pdf.Converter, error)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	NewWkhtml  ConverterFactory
	NewBrowser ConverterFactory

	// Doctor probes.
	FindBrowser     func() (string, bool)
	FindWkhtml      func() (string, bool)
	ProgramVersion  func(ctx context.Context, path string) (string, error)
	DownloadBrowser func() (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewWkhtml: func(opts ...portfolio2pdf.Option) (portfolio2pdf.Converter, error) {
			return portfolio2pdf.NewWkhtmlConverter(opts...)
		},
		NewBrowser: func(opts ...portfolio2pdf.Option) (portfolio2pdf.Converter, error) {
			return portfolio2pdf.NewBrowserConverter(opts...)
		},
		FindBrowser: launcher.LookPath,
		FindWkhtml: func() (string, bool) {
			return process.FindExecutable(os.Getenv("WKHTMLTOPDF_PATH"), "wkhtmltopdf")
		},
		ProgramVersion: programVersion,
		DownloadBrowser: func() (string, error) {
			return launcher.NewBrowser().Get()
		},
	}
}

// programVersion runs "<path> --version" and returns the first output line.
func programVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- path comes from PATH lookup or the user
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}
