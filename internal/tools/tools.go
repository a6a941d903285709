package tools

import (
	"context"

	"github.com/pkg/errors"
)

// ErrToolNotFound is returned when an unknown tool name is executed.
var ErrToolNotFound = errors.New("tool not found")

// ErrInvalidArgument is the base of every argument-extraction failure, so the
// transport layer can map them to a client error uniformly.
var ErrInvalidArgument = errors.New("invalid argument")

// Tool is one named callable exposed to the agent framework: a JSON-schema
// shaped parameter description plus an execute contract over a loosely-typed
// argument bag.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      Schema `json:"inputSchema"`

	Execute func(ctx context.Context, args Args) (any, error) `json:"-"`
}

// Schema describes a tool's parameters, JSON-schema shaped.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one parameter.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Pattern     string    `json:"pattern,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// objectSchema is shorthand for the object schemas every tool here uses.
func objectSchema(properties map[string]Property, required ...string) Schema {
	return Schema{Type: "object", Properties: properties, Required: required}
}

// Registry holds the exposed tools in registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds tools to the registry. A duplicate name replaces the earlier
// registration but keeps its position.
func (r *Registry) Register(tools ...Tool) {
	for _, tool := range tools {
		if _, exists := r.tools[tool.Name]; !exists {
			r.order = append(r.order, tool.Name)
		}
		r.tools[tool.Name] = tool
	}
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns every tool in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute runs the named tool against the argument bag.
func (r *Registry) Execute(ctx context.Context, name string, args Args) (any, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, errors.Wrap(ErrToolNotFound, name)
	}
	return tool.Execute(ctx, args)
}
