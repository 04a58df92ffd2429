package orchestrator

import (
	"testing"
	"time"

	"github.com/use-agent/shopscout/models"
)

func TestVisitCache_SetThenGetRoundTrips(t *testing.T) {
	c := newVisitCache()
	c.set("https://example.com/dp/1", models.ProductCandidate{Name: "Widget"})

	got, ok := c.get("https://example.com/dp/1")
	if !ok || got.Name != "Widget" {
		t.Fatalf("expected cached candidate, got %+v ok=%v", got, ok)
	}
}

func TestVisitCache_MissReturnsFalse(t *testing.T) {
	c := newVisitCache()
	if _, ok := c.get("https://example.com/unknown"); ok {
		t.Error("expected a miss for an unset key")
	}
}

func TestVisitCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := newVisitCache()
	c.store["https://example.com/dp/1"] = cacheEntry{
		candidate: models.ProductCandidate{Name: "Widget"},
		createdAt: time.Now().Add(-2 * visitCacheTTL),
	}
	if _, ok := c.get("https://example.com/dp/1"); ok {
		t.Error("expected expired entry to be treated as a miss")
	}
}
