package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolstudio/internal/tooling"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func builtinRegistry(t *testing.T) *tooling.Registry {
	t.Helper()
	r := tooling.NewRegistry()
	if err := tooling.RegisterBuiltins(r, nil); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestBuildExposesAllTools(t *testing.T) {
	s := New(builtinRegistry(t), nil, "test", WithLogger(quietLogger()))
	if _, err := s.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuildUsesManifestDescriptions(t *testing.T) {
	manifests := map[string]*tooling.Manifest{
		"calculator": {Name: "calculator", Description: "overridden description"},
	}
	s := New(builtinRegistry(t), nil, "test",
		WithLogger(quietLogger()), WithManifests(manifests))
	if _, err := s.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestHandlerSuccess(t *testing.T) {
	s := New(builtinRegistry(t), nil, "test", WithLogger(quietLogger()))
	calc, err := s.registry.Get("calculator")
	if err != nil {
		t.Fatal(err)
	}

	handler := s.handler(calc)
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{"a":4,"b":2,"op":"/"}`)},
	}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected IsError")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if text != "2.0" {
		t.Errorf("text = %q, want 2.0", text)
	}
}

func TestHandlerFailureIsErrorContent(t *testing.T) {
	s := New(builtinRegistry(t), nil, "test", WithLogger(quietLogger()))
	calc, err := s.registry.Get("calculator")
	if err != nil {
		t.Fatal(err)
	}

	handler := s.handler(calc)
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{"a":4,"b":0,"op":"/"}`)},
	}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("failures must come back as content, not protocol faults: %v", err)
	}
	if !res.IsError {
		t.Fatal("IsError not set")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "division by zero") {
		t.Errorf("text = %q", text)
	}
}

func TestHandlerUsesConfiguredPayload(t *testing.T) {
	configs := map[string]json.RawMessage{
		"sql_query": json.RawMessage(`{"bad config`),
	}
	s := New(builtinRegistry(t), configs, "test", WithLogger(quietLogger()))
	tool, err := s.registry.Get("sql_query")
	if err != nil {
		t.Fatal(err)
	}

	handler := s.handler(tool)
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`{"sql_query":"SELECT 1"}`)},
	}
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	// Malformed configuration is a validation failure surfaced to the client.
	if !res.IsError {
		t.Fatal("IsError not set for invalid configuration")
	}
}

func TestParseSchema(t *testing.T) {
	schema, err := parseSchema(`{"type":"object","properties":{"a":{"type":"number"}}}`)
	if err != nil {
		t.Fatal(err)
	}
	if schema.Type != "object" {
		t.Errorf("type = %q", schema.Type)
	}
	if _, err := parseSchema("{broken"); err == nil {
		t.Fatal("expected error for invalid schema JSON")
	}
}
