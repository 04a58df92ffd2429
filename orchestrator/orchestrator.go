package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/compare"
	"github.com/use-agent/shopscout/fetch"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/search"
)

// searchMaxResults is the Search Fallback Engine call size before the
// Amazon site-search follow-up.
const searchMaxResults = 10

// progressBuffer bounds the research-updates channel so a slow or
// abandoned consumer never blocks the Orchestrator's own progress.
const progressBuffer = 64

// Orchestrator composes the Search Fallback Engine, Page Fetcher,
// Driven Browser, Product Extractor, and Comparison Engine into the
// single Research() operation.
type Orchestrator struct {
	searchEngine *search.Engine
	fetcher      *fetch.Fetcher
	browserRt    *browser.Runtime
	logger       *slog.Logger
	visitCache   *visitCache
	domains      *domainMemory

	navigationTimeout time.Duration
	opTimeout         time.Duration
}

// New builds an Orchestrator. browserRt may be nil to disable the
// Driven Browser fallback entirely (fetch failures become terminal).
func New(searchEngine *search.Engine, fetcher *fetch.Fetcher, browserRt *browser.Runtime, navigationTimeout, opTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		searchEngine:      searchEngine,
		fetcher:           fetcher,
		browserRt:         browserRt,
		logger:            logger,
		visitCache:        newVisitCache(),
		domains:           newDomainMemory(),
		navigationTimeout: navigationTimeout,
		opTimeout:         opTimeout,
	}
}

// Research runs one user request to completion. It returns a
// research-updates progress channel, closed when the background work
// finishes, and a wait function that blocks for the final ranked
// options. Per-candidate failures are reported on the progress channel,
// not returned; the wait function's error is always nil.
func (o *Orchestrator) Research(ctx context.Context, prompt string) (<-chan string, func() ([]models.ProductOption, error)) {
	updates := make(chan string, progressBuffer)
	done := make(chan struct{})

	var result []models.ProductOption
	var resultErr error

	emit := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		select {
		case updates <- line:
		default:
			o.logger.Warn("research-updates channel full, dropping progress line", "line", line)
		}
	}

	go func() {
		defer close(updates)
		defer close(done)
		result, resultErr = o.run(ctx, prompt, emit)
	}()

	wait := func() ([]models.ProductOption, error) {
		<-done
		return result, resultErr
	}
	return updates, wait
}

func (o *Orchestrator) run(ctx context.Context, prompt string, emit func(string, ...any)) ([]models.ProductOption, error) {
	runStart := time.Now()
	var timing models.ResearchTiming

	constraints := ParseConstraints(prompt)
	cleanedQuery := CleanQuery(prompt)
	emit("parsed request: query=%q currency=%s region=%s", cleanedQuery, orEmpty(constraints.Currency, "any"), constraints.Region)

	searchStart := time.Now()
	candidates := o.buildCandidateList(ctx, prompt, cleanedQuery, constraints, emit)
	timing.SearchMs = time.Since(searchStart).Milliseconds()
	if len(candidates) == 0 {
		emit("no candidates found")
		return nil, nil
	}

	visitor := NewVisitor(o.fetcher, o.browserRt, o.visitCache, o.domains, cleanedQuery, o.navigationTimeout, o.opTimeout, emit)
	queryTerms := strings.Fields(cleanedQuery)

	visitStart := time.Now()
	extracted := o.visitCandidates(ctx, candidates, visitor, queryTerms, emit)
	timing.VisitMs = time.Since(visitStart).Milliseconds()
	emit("extracted %d product record(s) from %d candidate(s)", len(extracted), len(candidates))

	accepted := o.finalFilter(extracted, constraints)
	emit("%d record(s) survived the final filter", len(accepted))

	compareStart := time.Now()
	sorted, entries := compare.Rank(accepted, models.CompareCriteria{MaxBudget: constraints.MaxBudget, Currency: constraints.Currency})
	timing.CompareMs = time.Since(compareStart).Milliseconds()

	top := minInt(3, len(sorted))
	options := make([]models.ProductOption, top)
	for i := 0; i < top; i++ {
		options[i] = toProductOption(i+1, sorted[i], entries[i])
	}

	timing.TotalMs = time.Since(runStart).Milliseconds()
	o.logger.Info("research completed",
		"query", cleanedQuery, "candidates", len(candidates), "extracted", len(extracted),
		"options", len(options), "total_ms", timing.TotalMs, "search_ms", timing.SearchMs,
		"visit_ms", timing.VisitMs, "compare_ms", timing.CompareMs)
	emit("returning top %d option(s) (total %dms)", len(options), timing.TotalMs)

	return options, nil
}

// buildCandidateList gathers explicit URLs, runs the primary search
// (plus the Amazon follow-up when thin), and diversifies by host.
func (o *Orchestrator) buildCandidateList(ctx context.Context, prompt, cleanedQuery string, constraints models.QueryConstraints, emit func(string, ...any)) []string {
	explicit := ExplicitURLs(prompt)

	result := o.searchEngine.Search(ctx, cleanedQuery, searchMaxResults, constraints.Region)
	emit("search via %s returned %d result(s)", orEmpty(result.Provider, "none"), len(result.Results))

	all := append([]models.SearchResult{}, result.Results...)
	if len(all) < 5 {
		tld := "com"
		if constraints.Region == "uk-en" {
			tld = "co.uk"
		} else if constraints.Region == "de-de" {
			tld = "de"
		}
		followUp := o.searchEngine.Search(ctx, fmt.Sprintf("%s site:amazon.%s", cleanedQuery, tld), searchMaxResults, constraints.Region)
		emit("thin results, amazon site-search follow-up returned %d result(s)", len(followUp.Results))
		all = append(all, followUp.Results...)
	}

	diversified := Diversify(all)

	candidates := make([]string, 0, len(explicit)+len(diversified))
	seen := make(map[string]struct{}, len(candidates))
	for _, u := range explicit {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		candidates = append(candidates, u)
	}
	for _, u := range diversified {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		candidates = append(candidates, u)
	}
	return candidates
}

// visitCandidates walks the candidate list sequentially (the Driven
// Browser's single-page constraint forbids concurrent visits),
// retrying a candidate on a retryable transport error when nothing has
// been extracted yet, and stopping early once at least one product has
// been found and a retryable error recurs.
func (o *Orchestrator) visitCandidates(ctx context.Context, candidates []string, visitor *Visitor, queryTerms []string, emit func(string, ...any)) []models.ProductCandidate {
	var extracted []models.ProductCandidate
	backoffs := []time.Duration{2 * time.Second, 3 * time.Second}

	for _, url := range candidates {
		candidate, err := visitor.Visit(ctx, url, 0)
		if err != nil {
			if err == errVisitBudgetExhausted {
				emit("visit budget exhausted, stopping")
				break
			}
			if !IsRetryable(err) {
				emit("skipping %s: %v", url, err)
				continue
			}
			if len(extracted) > 0 {
				emit("retryable error after %d product(s) found, stopping early: %v", len(extracted), err)
				break
			}

			var retryErr error
			for _, backoff := range backoffs {
				select {
				case <-ctx.Done():
					return extracted
				case <-time.After(backoff):
				}
				candidate, retryErr = visitor.Visit(ctx, url, 0)
				if retryErr == nil {
					break
				}
			}
			if retryErr != nil {
				emit("giving up on %s after retries: %v", url, retryErr)
				continue
			}
		}

		if PassesRelevanceGate(candidate, url, queryTerms) {
			extracted = append(extracted, candidate)
			emit("accepted %s (%s)", candidate.Name, url)
		} else {
			emit("rejected %s: failed relevance gate", url)
		}

		if ctx.Err() != nil {
			break
		}
	}
	return extracted
}

// finalFilter applies spec's drop rules, with the two named fallback
// tiers when the strict filter would empty the pool.
func (o *Orchestrator) finalFilter(candidates []models.ProductCandidate, constraints models.QueryConstraints) []models.ProductCandidate {
	strict := filterCandidates(candidates, func(c models.ProductCandidate) bool {
		if constraints.Currency != "" && c.Currency != "" && c.Currency != constraints.Currency {
			return false
		}
		if constraints.MaxBudget != nil && c.HasPrice && c.Price > *constraints.MaxBudget {
			return false
		}
		if c.Availability == models.AvailabilityOutOfStock {
			return false
		}
		if c.Confidence < 0.10 {
			return false
		}
		return true
	})
	if len(strict) > 0 {
		return strict
	}

	tier2 := filterCandidates(candidates, func(c models.ProductCandidate) bool {
		return c.Confidence >= 0.08 && c.Name != ""
	})
	if len(tier2) > 0 {
		return topByConfidence(tier2, 3)
	}

	tier3 := filterCandidates(candidates, func(c models.ProductCandidate) bool {
		return c.Name != ""
	})
	return topByConfidence(tier3, 3)
}

func filterCandidates(in []models.ProductCandidate, keep func(models.ProductCandidate) bool) []models.ProductCandidate {
	out := make([]models.ProductCandidate, 0, len(in))
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func topByConfidence(in []models.ProductCandidate, n int) []models.ProductCandidate {
	sorted := append([]models.ProductCandidate{}, in...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Confidence > sorted[j-1].Confidence; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func toProductOption(rank int, c models.ProductCandidate, entry models.RankedEntry) models.ProductOption {
	why := entry.Reason
	if len(entry.Pros) > 0 {
		why = fmt.Sprintf("%s. %s", strings.Join(entry.Pros, ", "), entry.Reason)
	}
	return models.ProductOption{
		Rank:        rank,
		Name:        c.Name,
		URL:         c.URL,
		Price:       c.Price,
		Currency:    c.Currency,
		WhyPicked:   why,
		Description: strings.Join(c.KeyFeatures, "; "),
	}
}

func orEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
