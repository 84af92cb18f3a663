// Package portfolio2pdf converts a portfolio HTML page to PDF.
//
// Two backends are available. WkhtmlConverter drives the wkhtmltopdf
// executable and writes a statically named PDF:
//
//	conv, err := portfolio2pdf.NewWkhtmlConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := conv.Convert(ctx, "index.html")
//	// report.OutputPath == "Vipin_Kumar_Portfolio.pdf"
//
// BrowserConverter prints the page from headless Chrome. It first renders a
// PDF-optimized copy of the HTML (portfolio_pdf_version.html, with print
// styles injected and the header and back-to-top scripts disabled) and falls
// back to the original HTML once if that fails. Output names carry a
// timestamp so repeated runs never overwrite each other:
//
//	conv, err := portfolio2pdf.NewBrowserConverter(
//	    portfolio2pdf.WithEngine(portfolio2pdf.EngineChromedp),
//	    portfolio2pdf.WithTimeout(2*time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//	report, err := conv.Convert(ctx, "index.html")
//	// report.OutputPath == "Vipin_Kumar_Portfolio_20250101_120000.pdf"
//
// PDFs are written atomically: a Report is only returned once the file is
// complete on disk.
//
// # Browser Requirements
//
// The rod engine downloads a managed Chromium on first use
// (~/.cache/rod/browser/) unless WithAutoDownload(false) is set. Set
// ROD_BROWSER_BIN to use a pre-installed browser and ROD_NO_SANDBOX=1 (or
// CI=true) inside containers.
package portfolio2pdf
