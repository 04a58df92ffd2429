// Package search implements the Search Fallback Engine: a chain of
// public search providers tried in order, each skipped while cooling
// down after a rate-limit signal, falling through to synthetic
// merchant links that never fail.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/use-agent/shopscout/models"
)

// Attempt records the outcome of one provider call, including attempts
// skipped because the provider is cooling down.
type Attempt struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Count    int    `json:"count,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is the uniform output of a search call.
type Result struct {
	Results  []models.SearchResult `json:"results"`
	Provider string                `json:"provider"`
	Attempts []Attempt             `json:"attempts"`
}

// provider is the capability every search backend implements. live
// providers hit a real HTTP endpoint; the synthetic fallback never
// touches the network and never fails.
type provider interface {
	name() string
	search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// Engine runs the provider chain with per-provider cooldown tracking.
type Engine struct {
	client     *http.Client
	cooldowns  *cooldownStore
	providers  []provider
	logger     *slog.Logger
}

// NewEngine builds the default provider chain: DDG HTML, DDG Lite
// (sharing the DDG cooldown pool), Bing HTML (independent cooldown),
// and the synthetic fallback.
func NewEngine(timeout time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	client := &http.Client{Timeout: timeout}
	cooldowns := newCooldownStore()
	return &Engine{
		client:    client,
		cooldowns: cooldowns,
		logger:    logger,
		providers: []provider{
			&ddgHTMLProvider{client: client, cooldowns: cooldowns},
			&ddgLiteProvider{client: client, cooldowns: cooldowns},
			&bingProvider{client: client, cooldowns: cooldowns},
			&fallbackProvider{},
		},
	}
}

// rateLimitPattern matches error strings that indicate the provider is
// throttling us; any match triggers a cooldown for that provider pool.
var rateLimitPattern = regexp.MustCompile(`(?i)HTTP 403|HTTP 429|rate.?limit|too many requests`)

var blockedHostPattern = regexp.MustCompile(`(?i)duckduckgo\.com$|bing\.com$|doubleclick|googleadservices|googleads|taboola|outbrain|coldest\.com`)

// Search queries providers in order until one yields results, honoring
// cooldowns, and caps that provider's results to maxResults. The operation never
// returns an error: the synthetic fallback always produces results.
func (e *Engine) Search(ctx context.Context, query string, maxResults int, region string) *Result {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 20 {
		maxResults = 20
	}

	out := &Result{}
	for _, p := range e.providers {
		if cd, ok := p.(coolable); ok && cd.coolingDown() {
			out.Attempts = append(out.Attempts, Attempt{Provider: p.name(), OK: false, Error: "skipped (rate-limited)"})
			continue
		}

		results, err := p.search(ctx, query, maxResults)
		if err != nil {
			e.logger.Warn("search provider failed", "provider", p.name(), "error", err)
			if rateLimitPattern.MatchString(err.Error()) {
				if cd, ok := p.(coolable); ok {
					cd.startCooldown()
				}
			}
			out.Attempts = append(out.Attempts, Attempt{Provider: p.name(), OK: false, Error: err.Error()})
			continue
		}

		filtered := filterResults(results)
		out.Attempts = append(out.Attempts, Attempt{Provider: p.name(), OK: true, Count: len(filtered)})
		if len(filtered) > 0 {
			out.Provider = p.name()
			out.Results = capResults(filtered, maxResults)
			return out
		}
	}

	// Every provider, including the synthetic fallback, yielded nothing
	// (should not happen in practice since fallback never fails).
	out.Provider = "none"
	return out
}

// coolable is implemented by providers backed by a shared cooldown pool.
type coolable interface {
	coolingDown() bool
	startCooldown()
}

func filterResults(in []models.SearchResult) []models.SearchResult {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.SearchResult, 0, len(in))
	for _, r := range in {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if blockedHostPattern.MatchString(r.Source) || blockedHostPattern.MatchString(hostOf(r.URL)) {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

func capResults(in []models.SearchResult, maxResults int) []models.SearchResult {
	if len(in) > maxResults {
		return in[:maxResults]
	}
	return in
}
