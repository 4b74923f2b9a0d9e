package tooling

import (
	"errors"
	"fmt"

	"toolstudio/internal/domain"
)

var (
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrToolNotRegistered     = errors.New("tool not registered")
)

// Registry holds Tool implementations keyed by name. The runner CLI and the
// MCP server use it to enumerate tools and dispatch invocations.
type Registry struct {
	tools map[string]domain.Tool
	order []string
}

// NewRegistry returns an empty, ready-to-use registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]domain.Tool)}
}

// Register adds a tool. Returns an error if the tool is nil or a tool with
// the same name is already registered.
func (r *Registry) Register(tool domain.Tool) error {
	if tool == nil {
		return fmt.Errorf("tool must not be nil")
	}
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %q", ErrToolAlreadyRegistered, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get returns the tool with the given name or an error if not found.
func (r *Registry) Get(name string) (domain.Tool, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotRegistered, name)
	}
	return tool, nil
}

// List returns all registered tools in registration order.
func (r *Registry) List() []domain.Tool {
	out := make([]domain.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
