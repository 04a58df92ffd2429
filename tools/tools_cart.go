package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/cart"
	"github.com/use-agent/shopscout/models"
)

// RegisterCartTools wires add_to_cart, list_cart, remove_from_cart,
// clear_cart onto a single shared Cart.
func RegisterCartTools(reg *Registry, c *cart.Cart) error {
	addToCart := mcp.NewTool("add_to_cart",
		mcp.WithDescription("Add an item to the cart. Rejected (not an error) if the URL is already present."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Product URL, used to dedupe")),
		mcp.WithNumber("price", mcp.Required(), mcp.Description("Numeric price")),
		mcp.WithString("currency", mcp.Required(), mcp.Description("Currency code")),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source host")),
		mcp.WithString("imageUrl", mcp.Description("Optional image URL")),
		mcp.WithString("category", mcp.Description("Optional category")),
	)
	addHandler := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		item := models.CartItem{
			Name:     argString(args, "name", ""),
			URL:      argString(args, "url", ""),
			Price:    argFloat(args, "price", 0),
			Currency: argString(args, "currency", ""),
			Source:   argString(args, "source", ""),
			ImageURL: argString(args, "imageUrl", ""),
			Category: argString(args, "category", ""),
		}
		res := c.Add(item)
		return jsonResult(map[string]any{"ok": res.OK, "message": res.Message, "cart": c.List()})
	}
	if err := reg.Register(Descriptor{Tool: addToCart, Handler: addHandler}); err != nil {
		return err
	}

	listCart := mcp.NewTool("list_cart", mcp.WithDescription("List every item currently in the cart, in insertion order."))
	listHandler := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return jsonResult(c.List())
	}
	if err := reg.Register(Descriptor{Tool: listCart, Handler: listHandler}); err != nil {
		return err
	}

	removeFromCart := mcp.NewTool("remove_from_cart",
		mcp.WithDescription("Remove an item from the cart by id. Rejected (not an error) if the id is unknown."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cart item id")),
	)
	removeHandler := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		id := argString(args, "id", "")
		res := c.Remove(id)
		return jsonResult(map[string]any{"ok": res.OK, "message": res.Message, "cart": c.List()})
	}
	if err := reg.Register(Descriptor{Tool: removeFromCart, Handler: removeHandler}); err != nil {
		return err
	}

	clearCart := mcp.NewTool("clear_cart", mcp.WithDescription("Empty the cart unconditionally."))
	clearHandler := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		c.Clear()
		return jsonResult(map[string]any{"ok": true, "cart": c.List()})
	}
	return reg.Register(Descriptor{Tool: clearCart, Handler: clearHandler})
}
