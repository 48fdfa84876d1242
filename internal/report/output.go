package report

import (
	"os"
	"path/filepath"
	"time"
)

// Save writes a rendered report to a timestamped file in outputDir.
// Returns the path to the saved file.
func Save(outputDir, html string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	// Dashes instead of colons for filesystem compatibility
	filename := "report-" + time.Now().Format("2006-01-02T15-04-05") + ".html"
	path := filepath.Join(outputDir, filename)

	if err := SaveTo(path, html); err != nil {
		return "", err
	}

	return path, nil
}

// SaveTo writes a rendered report to an explicit path.
func SaveTo(path, html string) error {
	return os.WriteFile(path, []byte(html), 0644)
}
