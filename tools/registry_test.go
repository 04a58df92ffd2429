package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func echoTool(name string, required ...string) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription("test tool")}
	for _, r := range required {
		opts = append(opts, mcp.WithString(r, mcp.Required()))
	}
	return mcp.NewTool(name, opts...)
}

func TestRegistry_RejectsDuplicateName(t *testing.T) {
	reg := NewRegistry()
	d := Descriptor{Tool: echoTool("dup"), Handler: func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]any{"ok": true})
	}}
	if err := reg.Register(d); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if err := reg.Register(d); err == nil {
		t.Errorf("expected error registering duplicate name")
	}
}

func TestRegistry_CallUnknownToolFails(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Call(context.Background(), "nope", nil); err == nil {
		t.Errorf("expected error calling an unknown tool")
	}
}

func TestRegistry_CallRejectsMissingRequired(t *testing.T) {
	reg := NewRegistry()
	called := false
	d := Descriptor{
		Tool: echoTool("needs_arg", "thing"),
		Handler: func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			called = true
			return jsonResult(map[string]any{"ok": true})
		},
	}
	if err := reg.Register(d); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := reg.Call(context.Background(), "needs_arg", map[string]any{}); err == nil {
		t.Errorf("expected BAD_INPUT for missing required field")
	}
	if called {
		t.Errorf("handler must not run when validation fails")
	}
}

func TestRegistry_CallInvokesHandlerWhenValid(t *testing.T) {
	reg := NewRegistry()
	d := Descriptor{
		Tool: echoTool("needs_arg", "thing"),
		Handler: func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			return jsonResult(map[string]any{"got": args["thing"]})
		},
	}
	if err := reg.Register(d); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	res, err := reg.Call(context.Background(), "needs_arg", map[string]any{"thing": "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatalf("expected a result")
	}
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"first", "second", "third"}
	for _, n := range names {
		_ = reg.Register(Descriptor{Tool: echoTool(n), Handler: func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			return jsonResult(nil)
		}})
	}
	list := reg.List()
	for i, n := range names {
		if list[i].Name != n {
			t.Errorf("expected %s at position %d, got %s", n, i, list[i].Name)
		}
	}
}
