package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolstudio/internal/domain"
	"toolstudio/internal/tooling"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithManifests overrides tool descriptions from loaded tool.yaml manifests.
func WithManifests(m map[string]*tooling.Manifest) Option {
	return func(s *Server) { s.manifests = m }
}

// Server exposes every registered tool over the Model Context Protocol. Tool
// calls run through the same invocation contract as the CLI runner:
// validation failures and execution errors come back as text content flagged
// with IsError, never as protocol faults.
type Server struct {
	registry  *tooling.Registry
	configs   map[string]json.RawMessage
	manifests map[string]*tooling.Manifest
	logger    *slog.Logger
	version   string
}

// New creates an MCP server over the registry. configs maps tool name to its
// deployment configuration payload; tools without an entry get an empty
// object.
func New(registry *tooling.Registry, configs map[string]json.RawMessage, version string, opts ...Option) *Server {
	s := &Server{registry: registry, configs: configs, version: version}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Build assembles the underlying protocol server with one MCP tool per
// registered studio tool.
func (s *Server) Build() (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: "toolstudio", Version: s.version}, nil)

	for _, tool := range s.registry.List() {
		schema, err := parseSchema(tool.ArgsSchema())
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", tool.Name(), err)
		}
		server.AddTool(&mcp.Tool{
			Name:        tool.Name(),
			Description: tooling.Describe(s.manifests, tool.Name(), tool.Description()),
			InputSchema: schema,
		}, s.handler(tool))
	}
	return server, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	server, err := s.Build()
	if err != nil {
		return err
	}
	s.log().Info("mcp server starting", "transport", "stdio", "tools", len(s.registry.List()))
	return server.Run(ctx, &mcp.StdioTransport{})
}

// handler adapts one studio tool to an MCP tool handler.
func (s *Server) handler(tool domain.Tool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		outcome := tooling.Invoke(ctx, tool, s.configs[tool.Name()], req.Params.Arguments)
		if outcome.Failed() {
			s.log().Warn("tool call failed", "tool", tool.Name(), "kind", outcome.Err.Kind)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: outcome.Text()}},
			IsError: outcome.Failed(),
		}, nil
	}
}

// parseSchema converts a generated JSON Schema string into the protocol
// schema type.
func parseSchema(schemaStr string) (*jsonschema.Schema, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(schemaStr), &schema); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	return &schema, nil
}
