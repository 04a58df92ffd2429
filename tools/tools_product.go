package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/compare"
	"github.com/use-agent/shopscout/extract"
	"github.com/use-agent/shopscout/models"
)

// RegisterProductTools wires extract_product and compare_products.
func RegisterProductTools(reg *Registry) error {
	extractProduct := mcp.NewTool("extract_product",
		mcp.WithDescription("Extract a normalized product record (name, price, brand, specs, availability, confidence) from a page's HTML and text."),
		mcp.WithString("url", mcp.Required(), mcp.Description("The page's URL, recorded as the product URL and its source host")),
		mcp.WithString("html", mcp.Required(), mcp.Description("Raw page HTML")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Cleaned page text")),
	)
	if err := reg.Register(Descriptor{Tool: extractProduct, Handler: handleExtractProduct}); err != nil {
		return err
	}

	compareProducts := mcp.NewTool("compare_products",
		mcp.WithDescription("Score and rank a set of product candidates against a budget, currency, use case, and ordered preferences."),
		mcp.WithArray("products", mcp.Required(), mcp.Description("At least one product candidate to compare")),
		mcp.WithObject("criteria", mcp.Required(), mcp.Description("Comparison context: max_budget, currency, use_case, preferences")),
	)
	return reg.Register(Descriptor{Tool: compareProducts, Handler: handleCompareProducts})
}

func handleExtractProduct(_ context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	page := models.PageContent{
		URL:  argString(args, "url", ""),
		HTML: argString(args, "html", ""),
		Text: argString(args, "text", ""),
	}
	candidate := extract.Extract(page)
	return jsonResult(candidate)
}

// compareProductInput mirrors models.ProductCandidate but decodes Price
// as a pointer so presence (HasPrice) can be distinguished from a
// literal zero price.
type compareProductInput struct {
	URL          string            `json:"url"`
	Source       string            `json:"source"`
	Name         string            `json:"name"`
	Brand        string            `json:"brand"`
	Category     string            `json:"category"`
	KeyFeatures  []string          `json:"key_features"`
	Images       []string          `json:"images"`
	Specs        map[string]string `json:"specs"`
	Price        *float64          `json:"price"`
	Currency     string            `json:"currency"`
	Availability string            `json:"availability"`
	Confidence   float64           `json:"confidence"`
}

func handleCompareProducts(_ context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	rawProducts, err := json.Marshal(args["products"])
	if err != nil {
		return nil, models.NewToolError(models.ErrBadInput, "products must be a JSON array", err)
	}
	var inputs []compareProductInput
	if err := json.Unmarshal(rawProducts, &inputs); err != nil {
		return nil, models.NewToolError(models.ErrBadInput, "products must decode to an array of product objects", err)
	}
	if len(inputs) == 0 {
		return nil, models.NewToolError(models.ErrBadInput, "products must contain at least one entry", nil)
	}

	products := make([]models.ProductCandidate, len(inputs))
	for i, in := range inputs {
		p := models.ProductCandidate{
			URL: in.URL, Source: in.Source, Name: in.Name, Brand: in.Brand,
			Category: in.Category, KeyFeatures: in.KeyFeatures, Images: in.Images,
			Specs: in.Specs, Currency: in.Currency, Availability: in.Availability,
			Confidence: in.Confidence,
		}
		if in.Price != nil {
			p.Price = *in.Price
			p.HasPrice = true
		}
		products[i] = p
	}

	rawCriteria, err := json.Marshal(args["criteria"])
	if err != nil {
		return nil, models.NewToolError(models.ErrBadInput, "criteria must be a JSON object", err)
	}
	var criteria models.CompareCriteria
	if err := json.Unmarshal(rawCriteria, &criteria); err != nil {
		return nil, models.NewToolError(models.ErrBadInput, "criteria does not match the expected shape", err)
	}

	ranked := compare.Compare(products, criteria)
	return jsonResult(ranked)
}
