package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/search"
)

// RegisterSearchTools wires web_search.
func RegisterSearchTools(reg *Registry, engine *search.Engine) error {
	webSearch := mcp.NewTool("web_search",
		mcp.WithDescription("Search the web for the given query, falling back across multiple providers. Never fails: returns synthetic merchant links if every provider is unavailable."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithNumber("max_results", mcp.Description("Maximum results to return, 1-20, default 5")),
		mcp.WithString("region", mcp.Description("Region hint such as us-en, uk-en, de-de")),
	)

	handler := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		query, _ := args["query"].(string)
		if query == "" {
			return nil, models.NewToolError(models.ErrBadInput, "query must be a non-empty string", nil)
		}
		maxResults := clampInt(argInt(args, "max_results", 5), 1, 20)
		region := argString(args, "region", "")

		result := engine.Search(ctx, query, maxResults, region)
		return jsonResult(result)
	}

	return reg.Register(Descriptor{Tool: webSearch, Handler: handler})
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
