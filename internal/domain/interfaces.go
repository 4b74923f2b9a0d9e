package domain

import (
	"context"
	"encoding/json"
)

// Tool is a single externally-invocable unit of business logic with declared
// configuration and argument schemas. Implementations must treat config and
// args as already schema-validated; the invocation pipeline rejects anything
// that does not match the declared schemas before Call runs.
type Tool interface {
	// Name returns the unique tool name used for dispatch (e.g. "calculator").
	Name() string
	// Description returns a human-readable description shown to agents.
	Description() string
	// ConfigSchema returns the JSON Schema string for the tool's
	// per-deployment configuration (credentials, endpoints).
	ConfigSchema() string
	// ArgsSchema returns the JSON Schema string for per-call arguments.
	ArgsSchema() string
	// Call executes the tool. Business failures are returned as errors and
	// converted to ExecutionError outcomes by the invocation pipeline.
	Call(ctx context.Context, config, args json.RawMessage) (*ToolResult, error)
}

// Tokenizer counts tokens in text. Used to attach token-budget metadata to
// content-heavy tool results.
type Tokenizer interface {
	CountTokens(text string) (int, error)
}

// TextExtractor pulls plain text out of a document on disk. PDF and OCR
// extraction are external capabilities supplied behind this interface.
type TextExtractor interface {
	Extract(path string) (string, error)
}
