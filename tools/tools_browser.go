package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/models"
)

// RegisterBrowserTools wires the nine browser_* tools onto a single
// shared Runtime.
func RegisterBrowserTools(reg *Registry, rt *browser.Runtime, defaultOpTimeout, navigationTimeout time.Duration) error {
	registrations := []struct {
		tool    mcp.Tool
		handler Handler
	}{
		{
			mcp.NewTool("browser_start",
				mcp.WithDescription("Launch a fresh browser session, replacing any existing one, and optionally navigate to a start URL."),
				mcp.WithString("start_url", mcp.Description("Optional URL to navigate to once launched")),
				mcp.WithBoolean("headless", mcp.Description("Run headless, default true")),
				mcp.WithNumber("timeout_ms", mcp.Description("Navigation timeout in ms, 1000-120000, default 30000")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				startURL := argString(args, "start_url", "")
				headless := argBool(args, "headless", true)
				timeout := clampDuration(argInt(args, "timeout_ms", int(navigationTimeout.Milliseconds())), 1000, 120000)
				url, err := rt.Start(startURL, headless, timeout)
				if err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"started": true, "url": url})
			},
		},
		{
			mcp.NewTool("browser_open",
				mcp.WithDescription("Navigate the active browser session to a new URL."),
				mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http(s) URL")),
				mcp.WithNumber("timeout_ms", mcp.Description("Navigation timeout in ms, 1000-120000, default 30000")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				url := argString(args, "url", "")
				timeout := clampDuration(argInt(args, "timeout_ms", int(navigationTimeout.Milliseconds())), 1000, 120000)
				if err := rt.Open(url, timeout); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"url": url})
			},
		},
		{
			mcp.NewTool("browser_click",
				mcp.WithDescription("Click the first element matching a CSS selector."),
				mcp.WithString("selector", mcp.Required(), mcp.Description("Non-empty CSS selector")),
				mcp.WithBoolean("wait_for_navigation", mcp.Description("Wait for the resulting navigation to settle, default false")),
				mcp.WithNumber("timeout_ms", mcp.Description("Timeout in ms, 500-120000, default 15000")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				selector := argString(args, "selector", "")
				waitForNav := argBool(args, "wait_for_navigation", false)
				timeout := clampDuration(argInt(args, "timeout_ms", int(defaultOpTimeout.Milliseconds())), 500, 120000)
				if err := rt.Click(ctx, selector, waitForNav, timeout); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"clicked": selector})
			},
		},
		{
			mcp.NewTool("browser_type",
				mcp.WithDescription("Type text into the first element matching a CSS selector, optionally appending rather than replacing, and optionally pressing Enter."),
				mcp.WithString("selector", mcp.Required(), mcp.Description("Non-empty CSS selector")),
				mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
				mcp.WithBoolean("append", mcp.Description("Append instead of replacing existing value, default false")),
				mcp.WithBoolean("press_enter", mcp.Description("Press Enter after typing, default false")),
				mcp.WithNumber("timeout_ms", mcp.Description("Timeout in ms, default 15000")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				selector := argString(args, "selector", "")
				text := argString(args, "text", "")
				appendText := argBool(args, "append", false)
				pressEnter := argBool(args, "press_enter", false)
				timeout := clampDuration(argInt(args, "timeout_ms", int(defaultOpTimeout.Milliseconds())), 500, 120000)
				if err := rt.Type(ctx, selector, text, appendText, pressEnter, timeout); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"typed": selector})
			},
		},
		{
			mcp.NewTool("browser_select",
				mcp.WithDescription("Choose an option on a <select> element by value, visible label, or zero-based index. Exactly one of value, label, index must be set."),
				mcp.WithString("selector", mcp.Required(), mcp.Description("Non-empty CSS selector")),
				mcp.WithString("value", mcp.Description("Option value attribute")),
				mcp.WithString("label", mcp.Description("Option visible text")),
				mcp.WithNumber("index", mcp.Description("Zero-based option index")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				selector := argString(args, "selector", "")
				opt, err := parseSelectOption(args)
				if err != nil {
					return nil, err
				}
				timeout := defaultOpTimeout
				if err := rt.Select(ctx, selector, opt, timeout); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"selected": selector})
			},
		},
		{
			mcp.NewTool("browser_scroll",
				mcp.WithDescription("Scroll the page either relatively (mode=by, default) or to an absolute document position (mode=to)."),
				mcp.WithString("mode", mcp.Description(`"by" or "to", default "by"`)),
				mcp.WithNumber("x", mcp.Description("Horizontal amount or position, default 0")),
				mcp.WithNumber("y", mcp.Description("Vertical amount or position, default 700")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				mode := argString(args, "mode", "by")
				x := argFloat(args, "x", 0)
				y := argFloat(args, "y", 700)
				if err := rt.Scroll(ctx, mode, x, y, defaultOpTimeout); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"mode": mode, "x": x, "y": y})
			},
		},
		{
			mcp.NewTool("browser_wait_for",
				mcp.WithDescription("Block until a selector appears in the DOM, or time out."),
				mcp.WithString("selector", mcp.Required(), mcp.Description("Non-empty CSS selector")),
				mcp.WithNumber("timeout_ms", mcp.Description("Timeout in ms, 500-120000, default 15000")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				selector := argString(args, "selector", "")
				timeout := clampDuration(argInt(args, "timeout_ms", 15000), 500, 120000)
				if err := rt.WaitFor(ctx, selector, timeout); err != nil {
					return nil, err
				}
				return jsonResult(map[string]any{"appeared": selector})
			},
		},
		{
			mcp.NewTool("browser_snapshot",
				mcp.WithDescription("Capture the current page's URL, cleaned text, and optionally its raw HTML."),
				mcp.WithBoolean("include_html", mcp.Description("Include raw HTML, default false")),
				mcp.WithNumber("max_text_chars", mcp.Description("Cap on returned text length, 500-500000, default 25000")),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				includeHTML := argBool(args, "include_html", false)
				maxTextChars := clampIntBounds(argInt(args, "max_text_chars", 25000), 500, 500000)
				page, err := rt.Snapshot(ctx, includeHTML, maxTextChars, defaultOpTimeout)
				if err != nil {
					return nil, err
				}
				return jsonResult(page)
			},
		},
		{
			mcp.NewTool("browser_close",
				mcp.WithDescription("Tear down the active browser session, if any. Idempotent."),
			),
			func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
				rt.Close()
				return jsonResult(map[string]any{"closed": true})
			},
		},
	}

	for _, reg2 := range registrations {
		if err := reg.Register(Descriptor{Tool: reg2.tool, Handler: reg2.handler}); err != nil {
			return err
		}
	}
	return nil
}

func parseSelectOption(args map[string]any) (browser.SelectOption, error) {
	var opt browser.SelectOption
	set := 0
	if v, ok := args["value"].(string); ok && v != "" {
		opt.Value = &v
		set++
	}
	if v, ok := args["label"].(string); ok && v != "" {
		opt.Label = &v
		set++
	}
	if v, ok := args["index"].(float64); ok {
		i := int(v)
		opt.Index = &i
		set++
	}
	if set != 1 {
		return opt, models.NewToolError(models.ErrBadInput, "exactly one of value, label, index must be set", nil)
	}
	return opt, nil
}

func clampDuration(ms, min, max int) time.Duration {
	return time.Duration(clampIntBounds(ms, min, max)) * time.Millisecond
}

func clampIntBounds(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
