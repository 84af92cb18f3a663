package portfolio2pdf

import (
	"fmt"
	"path/filepath"

	"github.com/alnah/go-portfolio2pdf/internal/pipeline"
	"github.com/spf13/afero"
)

// OptimizeForPrint returns htmlContent with print styles injected after the
// main stylesheet link and the header and back-to-top scripts commented out.
// Content without those exact tags is returned unchanged.
func OptimizeForPrint(htmlContent string) string {
	return pipeline.OptimizeForPrint(htmlContent)
}

// WriteOptimizedCopy reads srcPath, applies OptimizeForPrint and writes the
// result to OptimizedHTMLName in the same directory, so relative asset links
// still resolve. The source file is never modified.
func WriteOptimizedCopy(fs afero.Fs, srcPath string) (string, error) {
	if filepath.Base(srcPath) == OptimizedHTMLName {
		return "", fmt.Errorf("%w: source is already named %s", ErrPreprocess, OptimizedHTMLName)
	}

	content, err := afero.ReadFile(fs, srcPath)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrPreprocess, srcPath, err)
	}

	dstPath := filepath.Join(filepath.Dir(srcPath), OptimizedHTMLName)
	if err := afero.WriteFile(fs, dstPath, []byte(OptimizeForPrint(string(content))), filePerm); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", ErrPreprocess, dstPath, err)
	}

	return dstPath, nil
}
