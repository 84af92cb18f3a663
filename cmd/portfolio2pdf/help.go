package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: portfolio2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  wkhtml     Convert the portfolio with wkhtmltopdf")
	fmt.Fprintln(w, "  browser    Convert the portfolio with headless Chrome")
	fmt.Fprintln(w, "  doctor     Check wkhtmltopdf and Chrome installations")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'portfolio2pdf help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Directory for the PDF (default: next to the HTML)")
	fmt.Fprintln(w, "      --prefix <name>       PDF file name without extension")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout per attempt (default: 60s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w, "      --strict              Exit non-zero when the conversion fails")
}

// printWkhtmlUsage prints usage for the wkhtml command.
func printWkhtmlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: portfolio2pdf wkhtml [index.html] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert the portfolio to Vipin_Kumar_Portfolio.pdf with wkhtmltopdf")
	fmt.Fprintln(w, "(A4 portrait, 0.75in margins, 300 DPI, JavaScript disabled).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  index.html    HTML file (default: config input.html or ./index.html)")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "wkhtmltopdf:")
	fmt.Fprintln(w, "      --wkhtmltopdf <path>  Executable path (default: WKHTMLTOPDF_PATH, then PATH)")
}

// printBrowserUsage prints usage for the browser command.
func printBrowserUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: portfolio2pdf browser [index.html] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert the portfolio to Vipin_Kumar_Portfolio_YYYYMMDD_HHMMSS.pdf with")
	fmt.Fprintln(w, "headless Chrome. A PDF-optimized copy (portfolio_pdf_version.html) is")
	fmt.Fprintln(w, "rendered first; if that fails, the original HTML is rendered once.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  index.html    HTML file (default: config input.html or ./index.html)")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --engine <name>       Driver: rod, chromedp (default: rod)")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable (default: ROD_BROWSER_BIN)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (containers)")
	fmt.Fprintln(w, "      --header-title <s>    Page header text")
	fmt.Fprintln(w, "      --keep-html           Keep the PDF-optimized HTML copy")
	fmt.Fprintln(w, "      --no-optimize         Render the original HTML only")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: portfolio2pdf doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that wkhtmltopdf and Chrome/Chromium are available.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --download-browser    Download a managed Chromium first")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "wkhtml":
		printWkhtmlUsage(env.Stdout)
	case "browser":
		printBrowserUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: portfolio2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: portfolio2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
