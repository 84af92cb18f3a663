package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by the conversion commands.
type commonFlags struct {
	config    string
	outputDir string
	prefix    string
	timeout   string
	quiet     bool
	verbose   bool
	strict    bool
}

// wkhtmlFlags holds all flags for the wkhtml command.
type wkhtmlFlags struct {
	common      commonFlags
	wkhtmltopdf string
}

// browserFlags holds all flags for the browser command.
type browserFlags struct {
	common         commonFlags
	engine         string
	browserBin     string
	noSandbox      bool
	keepHTML       bool
	noOptimize     bool
	headerTitle    string
	headerTitleSet bool // --header-title "" prints an empty header
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json            bool
	downloadBrowser bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for the PDF (default: next to the HTML)")
	fs.StringVar(&f.prefix, "prefix", "", "PDF file name without extension")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout per attempt (e.g., 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.strict, "strict", false, "exit non-zero when the conversion fails")
}

// newFlagSet returns a silent FlagSet; callers print usage themselves
// (stdout for --help, stderr for errors).
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseWkhtmlFlags parses wkhtml command flags and returns positional args.
func parseWkhtmlFlags(args []string) (*wkhtmlFlags, []string, error) {
	fs := newFlagSet("wkhtml")
	f := &wkhtmlFlags{}

	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.wkhtmltopdf, "wkhtmltopdf", "", "wkhtmltopdf executable path")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseBrowserFlags parses browser command flags and returns positional args.
func parseBrowserFlags(args []string) (*browserFlags, []string, error) {
	fs := newFlagSet("browser")
	f := &browserFlags{}

	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.engine, "engine", "", "browser driver: rod, chromedp (default: rod)")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium executable path")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers)")
	fs.BoolVar(&f.keepHTML, "keep-html", false, "keep the PDF-optimized HTML copy")
	fs.BoolVar(&f.noOptimize, "no-optimize", false, "render the original HTML only")
	fs.StringVar(&f.headerTitle, "header-title", "", "text of the page header")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.headerTitleSet = fs.Changed("header-title")
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := newFlagSet("doctor")
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.downloadBrowser, "download-browser", false, "download a managed Chromium")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
