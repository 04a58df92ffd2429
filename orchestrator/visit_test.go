package orchestrator

import (
	"errors"
	"testing"

	"github.com/use-agent/shopscout/models"
)

func TestIsWeak_MissingPriceIsWeak(t *testing.T) {
	c := models.ProductCandidate{Name: "Widget", Confidence: 0.5}
	if !isWeak(c, "https://example.com/dp/123") {
		t.Error("expected candidate with no price to be weak")
	}
}

func TestIsWeak_ListingURLIsWeak(t *testing.T) {
	c := models.ProductCandidate{Name: "Widget", HasPrice: true, Price: 10, Confidence: 0.9}
	if !isWeak(c, "https://example.com/best-laptops") {
		t.Error("expected listing-page URL to mark candidate weak")
	}
}

func TestIsWeak_StrongCandidateNotWeak(t *testing.T) {
	c := models.ProductCandidate{Name: "Widget Pro", HasPrice: true, Price: 10, Confidence: 0.9}
	if isWeak(c, "https://example.com/dp/B000123") {
		t.Error("expected well-formed candidate to not be weak")
	}
}

func TestPassesRelevanceGate_RejectsOutOfStock(t *testing.T) {
	c := models.ProductCandidate{
		Name: "laptop stand", Category: "accessories", Confidence: 0.5,
		Availability: models.AvailabilityOutOfStock,
	}
	if PassesRelevanceGate(c, "https://example.com/dp/1", []string{"laptop"}) {
		t.Error("expected out_of_stock candidate to fail the gate")
	}
}

func TestPassesRelevanceGate_RejectsMissingQueryTerm(t *testing.T) {
	c := models.ProductCandidate{Name: "garden hose", Confidence: 0.5}
	if PassesRelevanceGate(c, "https://example.com/dp/1", []string{"laptop"}) {
		t.Error("expected candidate with no query-term overlap to fail the gate")
	}
}

func TestPassesRelevanceGate_RejectsSearchBoilerplate(t *testing.T) {
	c := models.ProductCandidate{
		Name: "laptop", Category: "search results", Confidence: 0.5,
	}
	if PassesRelevanceGate(c, "https://example.com/s?k=laptop", []string{"laptop"}) {
		t.Error("expected search-UI boilerplate category to fail the gate")
	}
}

func TestPassesRelevanceGate_AcceptsWellFormedCandidate(t *testing.T) {
	c := models.ProductCandidate{
		Name: "Acme Laptop 14", Category: "laptops", Confidence: 0.5,
		Availability: models.AvailabilityInStock,
	}
	if !PassesRelevanceGate(c, "https://example.com/dp/1", []string{"laptop"}) {
		t.Error("expected well-formed on-topic candidate to pass the gate")
	}
}

func TestIsRetryable_MatchesKnownTransientErrors(t *testing.T) {
	cases := []string{
		"session not found",
		"SSE stream not established",
		"failed to fetch",
		"connection reset: ECONNRESET",
		"client disconnected",
		"request timed out",
		"MCP request timed out waiting for response",
	}
	for _, msg := range cases {
		if !IsRetryable(errors.New(msg)) {
			t.Errorf("expected %q to be retryable", msg)
		}
	}
}

func TestIsRetryable_RejectsUnrelatedErrors(t *testing.T) {
	if IsRetryable(errors.New("HTTP 404")) {
		t.Error("expected a plain 404 to not be retryable")
	}
}

func TestLikelyProductLinks_FiltersToProductShapedURLs(t *testing.T) {
	html := `
		<html><body>
			<a href="/dp/B000123">Acme Laptop 14 inch</a>
			<a href="/best-laptops-2026">Best laptops</a>
			<a href="/help/contact-us">Contact</a>
		</body></html>`

	links := likelyProductLinks(html, "https://example.com/s?k=laptop", []string{"laptop"}, 8)
	if len(links) != 1 || links[0] != "https://example.com/dp/B000123" {
		t.Errorf("expected only the product link to survive, got %+v", links)
	}
}
