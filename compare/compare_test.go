package compare

import (
	"testing"

	"github.com/use-agent/shopscout/models"
)

func budget(v float64) *float64 { return &v }

func TestCompare_BudgetGate(t *testing.T) {
	a := models.ProductCandidate{Name: "A", HasPrice: true, Price: 50, Currency: "USD", Specs: map[string]string{"a": "1"}, KeyFeatures: []string{"f"}}
	b := models.ProductCandidate{Name: "B", HasPrice: true, Price: 200, Currency: "USD", Specs: map[string]string{"a": "1", "b": "2"}, KeyFeatures: []string{"f", "g"}}

	criteria := models.CompareCriteria{MaxBudget: budget(100), Currency: "USD", UseCase: "home"}
	ranked := Compare([]models.ProductCandidate{a, b}, criteria)

	if ranked[0].Name != "A" {
		t.Fatalf("expected A ranked first, got %+v", ranked)
	}
	found := false
	for _, c := range ranked[1].Cons {
		if c == "Over budget" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected B to carry 'Over budget' in cons, got %+v", ranked[1].Cons)
	}
}

func TestCompare_ScoresAreBoundedIntegers(t *testing.T) {
	products := []models.ProductCandidate{
		{Name: "A", HasPrice: true, Price: 10, Currency: "USD"},
		{Name: "B"},
	}
	ranked := Compare(products, models.CompareCriteria{})
	if len(ranked) != len(products) {
		t.Fatalf("expected %d entries, got %d", len(products), len(ranked))
	}
	for _, r := range ranked {
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("score out of range: %d", r.Score)
		}
	}
}

func TestCompare_StableOrderOnTie(t *testing.T) {
	products := []models.ProductCandidate{
		{Name: "First"},
		{Name: "Second"},
	}
	ranked := Compare(products, models.CompareCriteria{})
	if ranked[0].Name != "First" || ranked[1].Name != "Second" {
		t.Errorf("expected insertion order preserved on tie, got %+v", ranked)
	}
}

func TestCompare_NoBudgetGivesFifteen(t *testing.T) {
	products := []models.ProductCandidate{{Name: "A", HasPrice: true, Price: 99}}
	ranked := Compare(products, models.CompareCriteria{})
	if ranked[0].Score < 15 {
		t.Errorf("expected at least the 15-point no-budget bucket, got %d", ranked[0].Score)
	}
}

func TestRank_KeepsProductAndEntryAligned(t *testing.T) {
	a := models.ProductCandidate{Name: "A", URL: "https://a.example/x", HasPrice: true, Price: 50, Currency: "USD"}
	b := models.ProductCandidate{Name: "B", URL: "https://b.example/y", HasPrice: true, Price: 200, Currency: "USD"}

	criteria := models.CompareCriteria{MaxBudget: budget(100), Currency: "USD"}
	products, entries := Rank([]models.ProductCandidate{b, a}, criteria)

	if len(products) != 2 || len(entries) != 2 {
		t.Fatalf("expected 2 products and entries, got %d/%d", len(products), len(entries))
	}
	if products[0].Name != entries[0].Name || products[1].Name != entries[1].Name {
		t.Fatalf("product/entry misaligned: products=%+v entries=%+v", products, entries)
	}
	if products[0].URL != "https://a.example/x" {
		t.Errorf("expected A (under budget) ranked first with its own URL intact, got %+v", products[0])
	}
}
