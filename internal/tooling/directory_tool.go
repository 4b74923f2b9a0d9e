package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"toolstudio/internal/domain"
)

// DirectoryReadConfig is empty: listing needs no deployment configuration.
type DirectoryReadConfig struct{}

// DirectoryReadArgs name the directory to list.
type DirectoryReadArgs struct {
	Directory string `json:"directory,omitempty" jsonschema:"description=The directory path for file listing"`
}

// Package-level injectable functions. Tests override these to cover error
// paths that are unreachable with natural inputs.
var (
	dirUnmarshalFunc = json.Unmarshal
	dirStatFunc      = os.Stat
	dirReadDirFunc   = os.ReadDir
)

// DirectoryReadTool lists the top-level entries of a directory,
// non-recursive. A missing or non-directory path is reported as result text,
// not as a failure, mirroring how agents consume the listing.
type DirectoryReadTool struct{}

func (d *DirectoryReadTool) Name() string { return "directory_read" }

func (d *DirectoryReadTool) Description() string {
	return "Reads all directory content, non-recursive, in a given directory."
}

func (d *DirectoryReadTool) ConfigSchema() string { return GenerateSchema(DirectoryReadConfig{}) }

func (d *DirectoryReadTool) ArgsSchema() string { return GenerateSchema(DirectoryReadArgs{}) }

// Call lists the directory. The result is a JSON array of paths.
func (d *DirectoryReadTool) Call(_ context.Context, _ json.RawMessage, args json.RawMessage) (*domain.ToolResult, error) {
	var in DirectoryReadArgs
	if err := dirUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	directory := strings.TrimRight(in.Directory, "/")
	if directory == "" {
		return &domain.ToolResult{Data: "Error: No directory provided."}, nil
	}

	info, err := dirStatFunc(directory)
	if err != nil || !info.IsDir() {
		return &domain.ToolResult{
			Data: fmt.Sprintf("Error: %s is not a directory.", directory),
		}, nil
	}

	entries, err := dirReadDirFunc(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, filepath.Join(directory, entry.Name()))
	}
	sort.Strings(items)

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize listing: %w", err)
	}

	return &domain.ToolResult{
		Data:     string(data),
		Metadata: map[string]string{"directory": directory, "entries": fmt.Sprintf("%d", len(items))},
	}, nil
}
