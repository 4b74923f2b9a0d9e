package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/h2non/filetype"

	"toolstudio/internal/domain"
)

// FileReadConfig is empty: reads are relative to the process working
// directory, set up by the host environment.
type FileReadConfig struct{}

// FileReadArgs name the file to read.
type FileReadArgs struct {
	FilePath string `json:"file_path" jsonschema:"minLength=1,description=Path to the file to be read and processed"`
}

var (
	fileReadUnmarshalFunc = json.Unmarshal
	fileReadFileFunc      = os.ReadFile
	fileReadStatFunc      = os.Stat
)

// FileReadTool reads a file and extracts its text content based on the file
// extension. Binary formats it cannot decode are reported as result text so
// the calling agent sees a readable explanation instead of a failure.
type FileReadTool struct {
	tokenizer domain.Tokenizer
}

// NewFileReadTool creates the tool. tokenizer may be nil; when present, the
// result carries a token-count metadata entry.
func NewFileReadTool(tokenizer domain.Tokenizer) *FileReadTool {
	return &FileReadTool{tokenizer: tokenizer}
}

func (t *FileReadTool) Name() string { return "file_read" }

func (t *FileReadTool) Description() string {
	return "Reads and extracts text content from a file. Supports plain text, JSON, HTML and Markdown."
}

func (t *FileReadTool) ConfigSchema() string { return GenerateSchema(FileReadConfig{}) }

func (t *FileReadTool) ArgsSchema() string { return GenerateSchema(FileReadArgs{}) }

// Call extracts the file content per extension.
func (t *FileReadTool) Call(_ context.Context, _ json.RawMessage, args json.RawMessage) (*domain.ToolResult, error) {
	var in FileReadArgs
	if err := fileReadUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	path := in.FilePath
	if _, err := fileReadStatFunc(path); err != nil {
		if os.IsNotExist(err) {
			return &domain.ToolResult{Data: fmt.Sprintf("Error: File not found at path %s", path)}, nil
		}
		if os.IsPermission(err) {
			return &domain.ToolResult{Data: fmt.Sprintf("Error: Permission denied for file %s", path)}, nil
		}
		return &domain.ToolResult{Data: fmt.Sprintf("Error: %v", err)}, nil
	}

	raw, err := fileReadFileFunc(path)
	if err != nil {
		if os.IsPermission(err) {
			return &domain.ToolResult{Data: fmt.Sprintf("Error: Permission denied for file %s", path)}, nil
		}
		return &domain.ToolResult{Data: fmt.Sprintf("Error: %v", err)}, nil
	}

	content, err := extractFileText(path, raw)
	if err != nil {
		return &domain.ToolResult{Data: fmt.Sprintf("Error: %v", err)}, nil
	}

	metadata := map[string]string{"file_path": path}
	if t.tokenizer != nil {
		if tokens, err := t.tokenizer.CountTokens(content); err == nil {
			metadata["tokens"] = strconv.Itoa(tokens)
		}
	}
	return &domain.ToolResult{Data: content, Metadata: metadata}, nil
}

// extractFileText dispatches on extension. Recognized binary formats (images,
// archives, audio) are rejected with a readable message before any text
// decoding is attempted.
func extractFileText(path string, raw []byte) (string, error) {
	if kind, _ := filetype.Match(raw); kind != filetype.Unknown {
		return "", fmt.Errorf("Unable to decode file %s. It might be a binary or unsupported format.", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return extractJSONText(raw)
	case ".html", ".htm":
		return extractHTMLText(raw)
	case ".md", ".markdown":
		return extractMarkdownText(raw), nil
	default:
		if !isLikelyText(raw) {
			return "", fmt.Errorf("Unable to decode file %s. It might be a binary or unsupported format.", path)
		}
		return string(raw), nil
	}
}

// extractJSONText pretty-prints the document.
func extractJSONText(raw []byte) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("invalid JSON: %v", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// extractHTMLText flattens markup to text with goquery.
func extractHTMLText(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %v", err)
	}
	doc.Find("script, style, noscript").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})
	return strings.TrimSpace(doc.Text()), nil
}

// extractMarkdownText strips the most common markup tokens, leaving the prose.
func extractMarkdownText(raw []byte) string {
	lines := strings.Split(string(raw), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, "#> ")
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		trimmed = strings.ReplaceAll(trimmed, "`", "")
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// isLikelyText rejects NUL-bearing content that slipped past magic-number
// detection.
func isLikelyText(raw []byte) bool {
	return !bytes.ContainsRune(raw, 0x00)
}
