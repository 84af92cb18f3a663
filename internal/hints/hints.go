// Package hints provides actionable error hints for common failure scenarios.
// Single hints are formatted as "\n  hint: <text>" for appending to error
// messages; longer advice is rendered as numbered lists.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-portfolio2pdf/internal/fileutil"
	"github.com/spf13/afero"
)

// WkhtmltopdfDownloadURL is where wkhtmltopdf installers are published.
const WkhtmltopdfDownloadURL = "https://wkhtmltopdf.org/downloads.html"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists(afero.NewOsFs(), "/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch or connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "use --no-sandbox or set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN or --browser-bin to use an installed Chrome")
	}
	hints = append(hints, "run 'portfolio2pdf doctor --download-browser' to fetch Chromium")

	return formatHints(hints)
}

// ForRendererNotFound returns the hint for a missing wkhtmltopdf executable.
func ForRendererNotFound() string {
	return format("install wkhtmltopdf from " + WkhtmltopdfDownloadURL + " or set WKHTMLTOPDF_PATH")
}

// ForTimeout returns a hint about increasing the timeout for slow pages.
func ForTimeout() string {
	return format("for pages with many assets, use --timeout (e.g. --timeout 2m)")
}

// ForInputNotFound returns a hint for a missing HTML file.
func ForInputNotFound() string {
	return format("run from the portfolio directory or pass the HTML path as an argument")
}

// ForConfigNotFound suggests --config and, when one of searchedPaths is in
// the user config directory, creating the file there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-portfolio2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check the output directory exists and is writable")
}

// WkhtmlTroubleshooting lists the steps for a failed wkhtmltopdf conversion.
func WkhtmlTroubleshooting() []string {
	return []string{
		"Install wkhtmltopdf: " + WkhtmltopdfDownloadURL,
		"Add wkhtmltopdf to your system PATH",
		"Restart your terminal/command prompt",
	}
}

// WkhtmlAlternatives lists other ways to produce the PDF.
func WkhtmlAlternatives() []string {
	return []string{
		"Use browser 'Print to PDF' feature",
		"Try online HTML to PDF converters",
		"Use the headless browser converter: portfolio2pdf browser",
	}
}

// BrowserAlternatives lists other ways to produce the PDF when the headless
// browser fails.
func BrowserAlternatives(htmlName string) []string {
	if htmlName == "" {
		htmlName = "index.html"
	}
	return []string{
		fmt.Sprintf("Open %s in Chrome/Edge and use 'Print to PDF'", htmlName),
		"Use online HTML to PDF converters",
		"Install wkhtmltopdf and use: portfolio2pdf wkhtml",
	}
}

// Numbered renders a titled list as "title\n1. a\n2. b\n".
func Numbered(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
