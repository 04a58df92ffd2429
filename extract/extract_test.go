package extract

import (
	"testing"

	"github.com/use-agent/shopscout/models"
)

func TestExtract_JSONLDOnly(t *testing.T) {
	html := `<html><body><script type="application/ld+json">
	{"@type":"Product","name":"X1","offers":{"price":"49.99","priceCurrency":"USD","availability":"https://schema.org/InStock"},"brand":{"name":"Acme"}}
	</script></body></html>`

	got := Extract(models.PageContent{URL: "https://example.com/p/x1", HTML: html, Text: ""})

	if got.Name != "X1" {
		t.Errorf("Name = %q, want X1", got.Name)
	}
	if !got.HasPrice || got.Price != 49.99 {
		t.Errorf("Price = %v (has=%v), want 49.99", got.Price, got.HasPrice)
	}
	if got.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", got.Currency)
	}
	if got.Availability != "in_stock" {
		t.Errorf("Availability = %q, want in_stock", got.Availability)
	}
	if got.Brand != "Acme" {
		t.Errorf("Brand = %q, want Acme", got.Brand)
	}
	if got.Confidence < 0.75 {
		t.Errorf("Confidence = %v, want >= 0.75", got.Confidence)
	}
}

func TestExtract_AlwaysReturnsRecordOnEmptyInput(t *testing.T) {
	got := Extract(models.PageContent{URL: "https://example.com/", HTML: "", Text: ""})
	if got.Confidence < 0 || got.Confidence > 1 {
		t.Errorf("Confidence out of range: %v", got.Confidence)
	}
	if got.Name != "" {
		t.Errorf("expected empty name on empty input, got %q", got.Name)
	}
}

func TestExtract_BoundsOnCollections(t *testing.T) {
	text := ""
	for i := 0; i < 40; i++ {
		text += "- distinct feature line number " + string(rune('A'+i%26)) + " long enough to pass\n"
	}
	got := Extract(models.PageContent{URL: "https://example.com/p", HTML: "", Text: text})
	if len(got.KeyFeatures) > 10 {
		t.Errorf("KeyFeatures exceeded 10: %d", len(got.KeyFeatures))
	}
}

func TestExtract_PriceWithoutCurrencyCapsConfidenceLower(t *testing.T) {
	html := `<html><body><div itemprop="price">42</div></body></html>`
	got := Extract(models.PageContent{URL: "https://example.com/p", HTML: html})
	if !got.HasPrice {
		t.Fatalf("expected price to be recovered from microdata")
	}
	if got.Currency != "" {
		t.Fatalf("expected no currency recovered, got %q", got.Currency)
	}
	withCurrency := Extract(models.PageContent{URL: "https://example.com/p", HTML: `<html><body><div itemprop="price">42</div><div itemprop="priceCurrency">USD</div></body></html>`})
	if got.Confidence >= withCurrency.Confidence {
		t.Errorf("Confidence without currency = %v, want below %v (same price with currency)", got.Confidence, withCurrency.Confidence)
	}
}
