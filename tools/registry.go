// Package tools implements the Tool Registry & Dispatcher: a declarative
// table of named tools with input schemas, dispatched by exact name.
package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/models"
)

// Handler executes one tool call. Call has already checked that every
// required field in args is present, non-nil, and not an empty string.
type Handler func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// Descriptor pairs an mcp-go tool definition (name, description, JSON
// input schema) with the handler that implements it.
type Descriptor struct {
	Tool    mcp.Tool
	Handler Handler
}

// Registry is an ordered, duplicate-free table of tool descriptors.
type Registry struct {
	order  []string
	byName map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Descriptor{}}
}

// Register adds a descriptor, rejecting a duplicate name.
func (r *Registry) Register(d Descriptor) error {
	name := d.Tool.Name
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.byName[name] = d
	r.order = append(r.order, name)
	return nil
}

// List returns tool descriptors in registration order.
func (r *Registry) List() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Tool)
	}
	return out
}

// Call looks up name exactly, validates that every required input is
// present and non-empty/non-null, then invokes the handler.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, models.NewToolError(models.ErrUnknownTool, fmt.Sprintf("unknown tool: %s", name), nil)
	}

	if missing := missingRequired(d.Tool, args); len(missing) > 0 {
		return nil, models.NewToolError(models.ErrBadInput, fmt.Sprintf("missing required fields: %v", missing), nil)
	}

	return d.Handler(ctx, args)
}

func missingRequired(tool mcp.Tool, args map[string]any) []string {
	var missing []string
	for _, field := range tool.InputSchema.Required {
		v, present := args[field]
		if !present || isEmptyValue(v) {
			missing = append(missing, field)
		}
	}
	return missing
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
