package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/fetch"
	"github.com/use-agent/shopscout/models"
)

// RegisterFetchTools wires open_page.
func RegisterFetchTools(reg *Registry, fetcher *fetch.Fetcher) error {
	openPage := mcp.NewTool("open_page",
		mcp.WithDescription("Fetch a page over HTTP and return its title, raw HTML, and cleaned text. Fails BLOCKED_BY_CHALLENGE if the response looks like an anti-bot interstitial."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http(s) URL to fetch")),
	)

	handler := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		url, _ := args["url"].(string)
		if url == "" {
			return nil, models.NewToolError(models.ErrBadInput, "url must be a non-empty string", nil)
		}
		page, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return jsonResult(page)
	}

	return reg.Register(Descriptor{Tool: openPage, Handler: handler})
}
