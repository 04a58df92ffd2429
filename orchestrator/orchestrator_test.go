package orchestrator

import (
	"testing"

	"github.com/use-agent/shopscout/models"
)

func budgetOf(v float64) *float64 { return &v }

func TestFinalFilter_StrictPassDropsOverBudgetAndOutOfStock(t *testing.T) {
	o := &Orchestrator{}
	candidates := []models.ProductCandidate{
		{Name: "A", HasPrice: true, Price: 50, Currency: "USD", Confidence: 0.5, Availability: models.AvailabilityInStock},
		{Name: "B", HasPrice: true, Price: 500, Currency: "USD", Confidence: 0.5, Availability: models.AvailabilityInStock},
		{Name: "C", HasPrice: true, Price: 60, Currency: "USD", Confidence: 0.5, Availability: models.AvailabilityOutOfStock},
	}
	out := o.finalFilter(candidates, models.QueryConstraints{Currency: "USD", MaxBudget: budgetOf(100)})
	if len(out) != 1 || out[0].Name != "A" {
		t.Errorf("expected only A to survive, got %+v", out)
	}
}

func TestFinalFilter_FallsBackToTierTwoWhenStrictEmpty(t *testing.T) {
	o := &Orchestrator{}
	candidates := []models.ProductCandidate{
		{Name: "A", HasPrice: true, Price: 500, Currency: "USD", Confidence: 0.05},
		{Name: "B", HasPrice: true, Price: 600, Currency: "USD", Confidence: 0.12},
	}
	out := o.finalFilter(candidates, models.QueryConstraints{Currency: "USD", MaxBudget: budgetOf(100)})
	if len(out) != 1 || out[0].Name != "B" {
		t.Errorf("expected tier-2 fallback to keep only B (confidence>=0.08, named), got %+v", out)
	}
}

func TestFinalFilter_FallsBackToTierThreeWhenAllLowConfidence(t *testing.T) {
	o := &Orchestrator{}
	candidates := []models.ProductCandidate{
		{Name: "A", HasPrice: true, Price: 500, Currency: "USD", Confidence: 0.02},
		{Name: "", HasPrice: true, Price: 500, Currency: "USD", Confidence: 0.5},
	}
	out := o.finalFilter(candidates, models.QueryConstraints{Currency: "USD", MaxBudget: budgetOf(100)})
	if len(out) != 1 || out[0].Name != "A" {
		t.Errorf("expected tier-3 fallback to keep only the named candidate, got %+v", out)
	}
}

func TestTopByConfidence_OrdersDescendingAndCaps(t *testing.T) {
	in := []models.ProductCandidate{
		{Name: "low", Confidence: 0.1},
		{Name: "high", Confidence: 0.9},
		{Name: "mid", Confidence: 0.5},
	}
	out := topByConfidence(in, 2)
	if len(out) != 2 || out[0].Name != "high" || out[1].Name != "mid" {
		t.Errorf("expected [high, mid], got %+v", out)
	}
}

func TestToProductOption_MapsRankAndFields(t *testing.T) {
	c := models.ProductCandidate{Name: "Widget", URL: "https://example.com/dp/1", Price: 19.99, Currency: "USD", KeyFeatures: []string{"light", "durable"}}
	entry := models.RankedEntry{Name: "Widget", Score: 80, Pros: []string{"Lowest price"}, Reason: "Score 80/100"}

	opt := toProductOption(1, c, entry)
	if opt.Rank != 1 || opt.URL != c.URL || opt.Price != c.Price {
		t.Errorf("expected rank/url/price carried over, got %+v", opt)
	}
	if opt.Description != "light; durable" {
		t.Errorf("expected joined key features as description, got %q", opt.Description)
	}
}
