package pipeline

import "strings"

// Literal markers matched in the portfolio page. Matching is exact: a page
// that spells them differently passes through unchanged.
const (
	StylesheetLink     = `<link rel="stylesheet" href="assets/css/styles.css">`
	HeaderScriptTag    = `<script src="assets/js/header-component.js"></script>`
	BackToTopScriptTag = `<script src="assets/js/back-to-top.js"></script>`

	HeaderScriptComment    = `<!-- Header component disabled for PDF -->`
	BackToTopScriptComment = `<!-- Back to top disabled for PDF -->`
)

// PrintStyleBlock hides interactive chrome and tunes typography and
// pagination when the page is printed.
const PrintStyleBlock = `
        <style>
        /* PDF-specific optimizations */
        @media print {
            .header-component, #headerContainer { display: none !important; }
            .back-to-top { display: none !important; }
            body { 
                font-size: 12px !important; 
                line-height: 1.4 !important;
                color: #000 !important;
            }
            .container { 
                margin-top: 0 !important; 
                padding-top: 0 !important;
            }
            .header { margin-top: 20px !important; }
            .section { page-break-inside: avoid; margin-bottom: 15px; }
            .experience-item { page-break-inside: avoid; margin-bottom: 10px; }
            h1, h2, h3 { page-break-after: avoid; color: #000 !important; }
            .stats-grid { display: flex; flex-wrap: wrap; gap: 10px; }
            .stat-item { flex: 1; min-width: 200px; }
            .skills-grid { display: block; }
            .skill-category { margin-bottom: 15px; }
            .skill-tag { 
                display: inline-block; 
                margin: 2px; 
                padding: 2px 6px; 
                border: 1px solid #ddd;
                font-size: 10px;
            }
            .profile-img { 
                width: 60px !important; 
                height: 60px !important; 
                font-size: 24px !important;
            }
            .creative-footer { 
                page-break-before: always; 
                margin-top: 20px;
            }
        }
        </style>`

// printReplacer applies every substitution in one pass. Each old string is
// matched literally at every occurrence.
var printReplacer = strings.NewReplacer(
	StylesheetLink, StylesheetLink+PrintStyleBlock,
	HeaderScriptTag, HeaderScriptComment,
	BackToTopScriptTag, BackToTopScriptComment,
)

// OptimizeForPrint injects PrintStyleBlock after the main stylesheet link and
// comments out the header and back-to-top scripts. Input without the markers
// is returned unchanged.
func OptimizeForPrint(htmlContent string) string {
	return printReplacer.Replace(htmlContent)
}
