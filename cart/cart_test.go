package cart

import (
	"testing"

	"github.com/use-agent/shopscout/models"
)

func TestCart_AddDedupesByURL(t *testing.T) {
	c := New()
	first := c.Add(models.CartItem{Name: "a", URL: "u", Price: 1, Currency: "USD", Source: "s"})
	if !first.OK {
		t.Fatalf("expected first add to succeed, got %+v", first)
	}
	second := c.Add(models.CartItem{Name: "a-dup", URL: "u", Price: 2, Currency: "USD", Source: "s"})
	if second.OK {
		t.Fatalf("expected duplicate URL add to fail")
	}
	if len(c.List()) != 1 {
		t.Fatalf("expected cart size 1, got %d", len(c.List()))
	}
}

func TestCart_RemoveUnknownIDIsRejectedWithoutError(t *testing.T) {
	c := New()
	res := c.Remove("does-not-exist")
	if res.OK {
		t.Fatalf("expected remove of unknown id to fail")
	}
}

func TestCart_ListPreservesInsertionOrder(t *testing.T) {
	c := New()
	c.Add(models.CartItem{Name: "first", URL: "u1"})
	c.Add(models.CartItem{Name: "second", URL: "u2"})
	items := c.List()
	if items[0].Name != "first" || items[1].Name != "second" {
		t.Errorf("expected insertion order, got %+v", items)
	}
}

func TestCart_ClearEmptiesUnconditionally(t *testing.T) {
	c := New()
	c.Add(models.CartItem{Name: "a", URL: "u1"})
	c.Clear()
	if len(c.List()) != 0 {
		t.Errorf("expected empty cart after Clear, got %d items", len(c.List()))
	}
	// Clearing twice must not panic.
	c.Clear()
}
