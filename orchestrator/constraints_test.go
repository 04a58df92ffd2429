package orchestrator

import "testing"

func TestParseConstraints_GBPSymbolSetsRegion(t *testing.T) {
	c := ParseConstraints("looking for a laptop under £500")
	if c.Currency != "GBP" {
		t.Errorf("expected GBP, got %q", c.Currency)
	}
	if c.Region != "uk-en" {
		t.Errorf("expected uk-en region, got %q", c.Region)
	}
	if c.MaxBudget == nil || *c.MaxBudget != 500 {
		t.Errorf("expected budget 500, got %+v", c.MaxBudget)
	}
}

func TestParseConstraints_BareDollarBudget(t *testing.T) {
	c := ParseConstraints("need headphones $80")
	if c.Currency != "USD" {
		t.Errorf("expected USD, got %q", c.Currency)
	}
	if c.MaxBudget == nil || *c.MaxBudget != 80 {
		t.Errorf("expected budget 80, got %+v", c.MaxBudget)
	}
	if c.Region != "us-en" {
		t.Errorf("expected us-en default region, got %q", c.Region)
	}
}

func TestParseConstraints_EuroWordSetsRegion(t *testing.T) {
	c := ParseConstraints("a vacuum cleaner max budget 150 euro")
	if c.Currency != "EUR" {
		t.Errorf("expected EUR, got %q", c.Currency)
	}
	if c.Region != "de-de" {
		t.Errorf("expected de-de region, got %q", c.Region)
	}
}

func TestParseConstraints_NoSignalsLeavesZeroValues(t *testing.T) {
	c := ParseConstraints("a good pair of running shoes")
	if c.Currency != "" {
		t.Errorf("expected no currency, got %q", c.Currency)
	}
	if c.MaxBudget != nil {
		t.Errorf("expected no budget, got %+v", c.MaxBudget)
	}
	if c.Region != "us-en" {
		t.Errorf("expected us-en fallback, got %q", c.Region)
	}
}
