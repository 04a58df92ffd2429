// Package cart implements the in-memory Cart: an ordered, URL-deduped
// set of items that lives for the lifetime of the server process.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/use-agent/shopscout/models"
)

// Cart is safe for concurrent use, though the single-threaded
// cooperative scheduling model means contention never actually occurs.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
	byURL map[string]struct{}
}

// New returns an empty Cart.
func New() *Cart {
	return &Cart{byURL: map[string]struct{}{}}
}

// AddResult reports whether an add succeeded, mirroring the tool
// surface's {ok, message} shape rather than raising an error for an
// expected outcome (duplicate URL).
type AddResult struct {
	OK      bool
	Message string
}

// Add appends item with a fresh id, rejecting a duplicate URL without
// mutating the cart.
func (c *Cart) Add(item models.CartItem) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byURL[item.URL]; exists {
		return AddResult{OK: false, Message: "item with this URL is already in the cart"}
	}

	item.ID = uuid.NewString()
	c.items = append(c.items, item)
	c.byURL[item.URL] = struct{}{}
	return AddResult{OK: true}
}

// List returns a copy of the current cart, insertion-ordered.
func (c *Cart) List() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Remove deletes the item with the given id, rejecting an unknown id
// the same way Add rejects a duplicate: a result, not an error.
func (c *Cart) Remove(id string) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ID == id {
			delete(c.byURL, item.URL)
			c.items = append(c.items[:i], c.items[i+1:]...)
			return AddResult{OK: true}
		}
	}
	return AddResult{OK: false, Message: "no item with this id"}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.byURL = map[string]struct{}{}
}
