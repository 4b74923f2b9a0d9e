package tooling

import (
	"errors"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	tool := newFakeTool()
	if err := r.Register(tool); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := r.Get("fake")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != tool {
		t.Error("Get returned a different tool")
	}
}

func TestRegistryRejectsNil(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatal("expected error for nil tool")
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newFakeTool()); err != nil {
		t.Fatal(err)
	}
	err := r.Register(newFakeTool())
	if !errors.Is(err, ErrToolAlreadyRegistered) {
		t.Errorf("err = %v, want ErrToolAlreadyRegistered", err)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("missing")
	if !errors.Is(err, ErrToolNotRegistered) {
		t.Errorf("err = %v, want ErrToolNotRegistered", err)
	}
}

func TestRegistryListPreservesOrder(t *testing.T) {
	r := NewRegistry()
	if err := RegisterBuiltins(r, nil); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}
	tools := r.List()
	if len(tools) != 11 {
		t.Fatalf("expected 11 builtin tools, got %d", len(tools))
	}
	if tools[0].Name() != "calculator" {
		t.Errorf("first tool = %q, want calculator", tools[0].Name())
	}
	seen := make(map[string]bool)
	for _, tool := range tools {
		if seen[tool.Name()] {
			t.Errorf("duplicate tool name %q", tool.Name())
		}
		seen[tool.Name()] = true
	}
}
