package search

import (
	"context"
	"net/url"

	"github.com/use-agent/shopscout/models"
)

// fallbackHosts are the synthetic merchant seeds used when every live
// provider has failed or is cooling down. Order is fixed; seeds are
// never shuffled so results stay deterministic for tests.
var fallbackHosts = []string{
	"amazon.com",
	"bestbuy.com",
	"walmart.com",
	"target.com",
	"newegg.com",
	"ebay.com",
}

// fallbackProvider always succeeds; it fabricates a `<host>/search?q=`
// link per seeded merchant rather than calling the network.
type fallbackProvider struct{}

func (f *fallbackProvider) name() string { return "fallback" }

func (f *fallbackProvider) search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	limit := len(fallbackHosts)
	if maxResults < limit {
		limit = maxResults
	}
	results := make([]models.SearchResult, 0, limit)
	for _, host := range fallbackHosts[:limit] {
		link := "https://" + host + "/search?q=" + url.QueryEscape(query)
		results = append(results, models.SearchResult{
			Title:   "Search " + host + " for \"" + query + "\"",
			URL:     link,
			Snippet: "",
			Source:  host,
		})
	}
	return results, nil
}
