package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	portfolio2pdf "github.com/alnah/go-portfolio2pdf"
	"github.com/alnah/go-portfolio2pdf/internal/config"
	"github.com/alnah/go-portfolio2pdf/internal/hints"
	flag "github.com/spf13/pflag"
)

// Sentinel errors for CLI operations.
var ErrTooManyArgs = errors.New("too many arguments: expected at most one HTML file")

// defaultHTML is converted when neither an argument nor input.html is given.
const defaultHTML = "index.html"

// runSettings is the merged result of flags, environment and config file.
type runSettings struct {
	cfg      *config.Config
	htmlPath string
	quiet    bool
	verbose  bool
	strict   bool
}

// runWkhtmlCmd executes the wkhtml command and returns an exit code.
func runWkhtmlCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseWkhtmlFlags(args)
	if err != nil {
		return handleParseError(err, env, printWkhtmlUsage)
	}

	rs, err := resolveRunSettings(&flags.common, positional, env)
	if err != nil {
		return reportSetupError(err, flags.common.config, env)
	}
	if flags.wkhtmltopdf != "" {
		rs.cfg.Wkhtmltopdf.Path = flags.wkhtmltopdf
	}

	opts := baseOptions(rs, env)
	opts = append(opts,
		portfolio2pdf.WithWkhtmlPath(rs.cfg.Wkhtmltopdf.Path),
		portfolio2pdf.WithWkhtmlOptions(wkhtmlOptionsFrom(rs.cfg)),
	)

	conv, err := env.NewWkhtml(opts...)
	if err != nil {
		return reportSetupError(err, "", env)
	}

	return runConversion(ctx, conv, rs, env, func(w io.Writer) {
		fmt.Fprintln(w)
		fmt.Fprint(w, hints.Numbered("Troubleshooting tips:", hints.WkhtmlTroubleshooting()))
		fmt.Fprintln(w)
		fmt.Fprint(w, hints.Numbered("Alternative options:", hints.WkhtmlAlternatives()))
	})
}

// runBrowserCmd executes the browser command and returns an exit code.
func runBrowserCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseBrowserFlags(args)
	if err != nil {
		return handleParseError(err, env, printBrowserUsage)
	}

	rs, err := resolveRunSettings(&flags.common, positional, env)
	if err != nil {
		return reportSetupError(err, flags.common.config, env)
	}
	mergeBrowserFlags(flags, rs.cfg)
	if err := rs.cfg.Validate(); err != nil {
		return reportSetupError(err, "", env)
	}

	b := rs.cfg.Browser
	opts := baseOptions(rs, env)
	opts = append(opts,
		portfolio2pdf.WithEngine(portfolio2pdf.Engine(b.Engine)),
		portfolio2pdf.WithBrowserBin(b.Bin),
		portfolio2pdf.WithNoSandbox(b.NoSandbox),
		portfolio2pdf.WithKeepIntermediate(b.KeepHTML),
		portfolio2pdf.WithOptimize(rs.cfg.OptimizeEnabled()),
	)
	switch {
	case flags.headerTitleSet:
		opts = append(opts, portfolio2pdf.WithHeaderTitle(flags.headerTitle))
	case b.HeaderTitle != "":
		opts = append(opts, portfolio2pdf.WithHeaderTitle(b.HeaderTitle))
	}

	conv, err := env.NewBrowser(opts...)
	if err != nil {
		return reportSetupError(err, "", env)
	}

	return runConversion(ctx, conv, rs, env, func(w io.Writer) {
		fmt.Fprintln(w)
		fmt.Fprint(w, hints.Numbered("Alternative approaches:", hints.BrowserAlternatives(filepath.Base(rs.htmlPath))))
	})
}

// handleParseError prints usage for --help (exit 0) or the parse error
// followed by usage (exit 2).
func handleParseError(err error, env *Environment, usage func(io.Writer)) int {
	if errors.Is(err, flag.ErrHelp) {
		usage(env.Stdout)
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "Error: %v\n\n", err)
	usage(env.Stderr)
	return ExitUsage
}

// reportSetupError prints a configuration or validation error. These always
// exit non-zero, with or without --strict.
func reportSetupError(err error, configName string, env *Environment) int {
	msg := "Error: " + err.Error()
	if errors.Is(err, config.ErrConfigNotFound) && configName != "" && !strings.ContainsAny(configName, `/\`) {
		msg += hints.ForConfigNotFound(config.SearchPaths(configName))
	}
	fmt.Fprintln(env.Stderr, msg)

	if code := exitCodeFor(err); code != ExitGeneral {
		return code
	}
	return ExitUsage
}

// resolveRunSettings merges config file, environment and flags.
func resolveRunSettings(flags *commonFlags, positional []string, env *Environment) (*runSettings, error) {
	if len(positional) > 1 {
		return nil, fmt.Errorf("%w: %s", ErrTooManyArgs, strings.Join(positional, " "))
	}

	if !flags.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}
	envCfg := loadEnvConfig(env.Getenv)

	cfg := config.DefaultConfig()
	configName := flags.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		var err error
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeCommonFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	htmlPath := defaultHTML
	switch {
	case len(positional) == 1:
		htmlPath = positional[0]
	case cfg.Input.HTML != "":
		htmlPath = cfg.Input.HTML
	}

	return &runSettings{
		cfg:      cfg,
		htmlPath: htmlPath,
		quiet:    flags.quiet,
		verbose:  flags.verbose,
		strict:   flags.strict,
	}, nil
}

// mergeCommonFlags overrides config values with explicitly set flags.
func mergeCommonFlags(flags *commonFlags, cfg *config.Config) {
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.prefix != "" {
		cfg.Output.Prefix = flags.prefix
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
}

// mergeBrowserFlags overrides browser config values with explicitly set flags.
func mergeBrowserFlags(flags *browserFlags, cfg *config.Config) {
	if flags.engine != "" {
		cfg.Browser.Engine = flags.engine
	}
	if flags.browserBin != "" {
		cfg.Browser.Bin = flags.browserBin
	}
	if flags.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if flags.keepHTML {
		cfg.Browser.KeepHTML = true
	}
	if flags.noOptimize {
		off := false
		cfg.Browser.Optimize = &off
	}
}

// baseOptions returns the library options shared by both commands.
func baseOptions(rs *runSettings, env *Environment) []portfolio2pdf.Option {
	var progress io.Writer = env.Stdout
	if rs.quiet {
		progress = io.Discard
	}

	opts := []portfolio2pdf.Option{
		portfolio2pdf.WithClock(env.Now),
		portfolio2pdf.WithProgress(progress),
		portfolio2pdf.WithOutputDir(rs.cfg.Output.Dir),
	}
	if rs.cfg.Output.Prefix != "" {
		opts = append(opts, portfolio2pdf.WithOutputPrefix(rs.cfg.Output.Prefix))
	}
	if rs.cfg.Timeout != "" {
		d, _ := rs.cfg.TimeoutDuration() // validated by resolveRunSettings
		opts = append(opts, portfolio2pdf.WithTimeout(d))
	}
	return opts
}

// wkhtmlOptionsFrom applies config page settings to the default
// wkhtmltopdf options.
func wkhtmlOptionsFrom(cfg *config.Config) portfolio2pdf.WkhtmlOptions {
	opts := portfolio2pdf.DefaultWkhtmlOptions()
	switch strings.ToLower(cfg.Wkhtmltopdf.PageSize) {
	case "letter":
		opts.PageSize = portfolio2pdf.PageSizeLetter
	case "legal":
		opts.PageSize = portfolio2pdf.PageSizeLegal
	}
	if strings.EqualFold(cfg.Wkhtmltopdf.Orientation, "landscape") {
		opts.Orientation = portfolio2pdf.OrientationLandscape
	}
	return opts
}

// runConversion converts the portfolio and prints the outcome. Failures
// exit 0 unless --strict, matching the behavior of a best-effort script.
func runConversion(ctx context.Context, conv portfolio2pdf.Converter, rs *runSettings, env *Environment, troubleshoot func(io.Writer)) int {
	defer conv.Close()

	if !rs.quiet {
		fmt.Fprintln(env.Stdout, "Portfolio PDF Generator")
		fmt.Fprintln(env.Stdout, strings.Repeat("=", 50))
	}

	report, err := conv.Convert(ctx, rs.htmlPath)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error creating PDF: %v%s\n", err, hintFor(err))
		if !rs.quiet {
			troubleshoot(env.Stdout)
			fmt.Fprintln(env.Stdout)
			fmt.Fprintln(env.Stdout, "Portfolio PDF generation failed!")
		}
		if errors.Is(err, context.Canceled) {
			return ExitGeneral
		}
		if rs.strict {
			return exitCodeFor(err)
		}
		return ExitSuccess
	}

	if !rs.quiet {
		fmt.Fprintln(env.Stdout)
		fmt.Fprintf(env.Stdout, "PDF created: %s\n", report.OutputPath)
		fmt.Fprintf(env.Stdout, "File size: %.1f KB\n", report.SizeKB())
		fmt.Fprintln(env.Stdout, "Portfolio PDF generation completed!")
	}
	if rs.verbose {
		fmt.Fprintf(env.Stderr, "Rendered %s (%s) in %v\n", report.InputPath, report.Variant, report.Duration.Round(time.Millisecond))
	}
	return ExitSuccess
}

// hintFor returns the actionable hint matching err, if any.
func hintFor(err error) string {
	switch {
	case errors.Is(err, portfolio2pdf.ErrInputNotFound):
		return hints.ForInputNotFound()
	case errors.Is(err, portfolio2pdf.ErrRendererNotFound):
		return hints.ForRendererNotFound()
	case errors.Is(err, portfolio2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, portfolio2pdf.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
