package etl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PlainTextExtractor reads text-bearing files directly. Formats needing real
// document parsing (PDF, DOCX, scanned images) are handled by an external
// extraction capability implementing domain.TextExtractor; this extractor
// rejects them so the pipeline skips what it cannot read.
type PlainTextExtractor struct {
	// Extensions lists the file suffixes treated as plain text. Empty means
	// the defaults (.txt, .md, .text, .log, .csv).
	Extensions []string
}

var defaultTextExtensions = []string{".txt", ".md", ".text", ".log", ".csv"}

// Extract returns the file content when the extension is recognized.
func (e *PlainTextExtractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !e.supported(ext) {
		return "", fmt.Errorf("unsupported document format %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (e *PlainTextExtractor) supported(ext string) bool {
	extensions := e.Extensions
	if len(extensions) == 0 {
		extensions = defaultTextExtensions
	}
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
