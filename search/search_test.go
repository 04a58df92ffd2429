package search

import (
	"context"
	"testing"
	"time"

	"github.com/use-agent/shopscout/models"
)

func TestEngine_FallbackNeverFails(t *testing.T) {
	e := NewEngine(5*time.Second, nil)
	// Force every live provider into cooldown so only the synthetic
	// fallback can answer.
	e.cooldowns.startDDGCooldown()
	e.cooldowns.startBingCooldown()

	result := e.Search(context.Background(), "mechanical keyboard", 3, "us-en")
	if len(result.Results) == 0 {
		t.Fatalf("expected fallback results, got none")
	}
	if result.Provider != "fallback" {
		t.Errorf("expected fallback provider, got %q", result.Provider)
	}
	for _, a := range result.Attempts[:2] {
		if a.Error != "skipped (rate-limited)" {
			t.Errorf("expected cooldown-skip attempt, got %+v", a)
		}
	}
}

func TestEngine_ResultCapRespectsMaxResults(t *testing.T) {
	e := NewEngine(5*time.Second, nil)
	e.cooldowns.startDDGCooldown()
	e.cooldowns.startBingCooldown()

	result := e.Search(context.Background(), "wireless mouse", 2, "")
	if len(result.Results) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(result.Results))
	}
}

func TestFilterResults_DropsBlockedHostsAndDupes(t *testing.T) {
	in := []models.SearchResult{
		{Title: "ad", URL: "https://doubleclick.net/ad"},
		{Title: "p1", URL: "https://example.com/product"},
		{Title: "p1 dup", URL: "https://example.com/product"},
		{Title: "", URL: "https://example.com/no-title"},
	}
	out := filterResults(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving result, got %d: %+v", len(out), out)
	}
	if out[0].URL != "https://example.com/product" {
		t.Errorf("unexpected survivor: %+v", out[0])
	}
}

func TestCooldownStore_MonotonicForward(t *testing.T) {
	s := newCooldownStore()
	s.startDDGCooldown()
	first := s.ddgBlockedUntil
	s.startDDGCooldown()
	if s.ddgBlockedUntil.Before(first) {
		t.Errorf("cooldown timestamp moved backward")
	}
	if !s.ddgCoolingDown() {
		t.Errorf("expected DDG to report cooling down")
	}
	if s.bingCoolingDown() {
		t.Errorf("bing cooldown must be independent of DDG")
	}
}
