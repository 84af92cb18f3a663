// Package pipeline implements the HTML pre-processing stage of the browser
// converter.
//
// The portfolio page is rewritten for print before it reaches Chrome:
//   - a print stylesheet is injected after the main stylesheet link
//   - the header component and back-to-top scripts are commented out
//
// PDF generation is handled separately by the root portfolio2pdf package.
// This package only transforms document text and never touches the
// filesystem.
package pipeline
