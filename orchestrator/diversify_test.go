package orchestrator

import (
	"testing"

	"github.com/use-agent/shopscout/models"
)

func TestDiversify_RoundRobinsAcrossHosts(t *testing.T) {
	results := []models.SearchResult{
		{URL: "https://amazon.com/1", Title: "a1"},
		{URL: "https://amazon.com/2", Title: "a2"},
		{URL: "https://amazon.com/3", Title: "a3"},
		{URL: "https://walmart.com/1", Title: "w1"},
	}
	out := Diversify(results)

	if len(out) != 4 {
		t.Fatalf("expected all 4 urls retained, got %+v", out)
	}
	if out[0] != "https://amazon.com/1" || out[1] != "https://amazon.com/2" || out[2] != "https://walmart.com/1" {
		t.Errorf("expected the first pass to take two per host before moving to the next host, got %+v", out)
	}
}

func TestDiversify_CapsAtTwentyAndIgnoresUnparsableURLs(t *testing.T) {
	var results []models.SearchResult
	for i := 0; i < 30; i++ {
		results = append(results, models.SearchResult{URL: "https://host.example/p" + string(rune('a'+i%26))})
	}
	results = append(results, models.SearchResult{URL: "not-a-url"})

	out := Diversify(results)
	if len(out) > maxCandidates {
		t.Errorf("expected cap at %d, got %d", maxCandidates, len(out))
	}
}
