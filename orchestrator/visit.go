package orchestrator

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/use-agent/shopscout/browser"
	"github.com/use-agent/shopscout/extract"
	"github.com/use-agent/shopscout/fetch"
	"github.com/use-agent/shopscout/models"
)

// maxVisitBudget is the hard cap on total page visits across one
// Research call, spanning both fetch attempts and browser fallbacks.
const maxVisitBudget = 15

var (
	listingPattern = regexp.MustCompile(`(?i)best|top|review|under-|list|guide|comparison|vs|category|blog|amazon\.[a-z.]+/s\?|walmart\.com/search|target\.com/s\?|bestbuy\.com/site/searchpage|ebay\.[a-z.]+/sch|newegg\.com/p/pl|[?&](q|k|query|search|searchTerm|keyword)=`)

	productLinkPattern = regexp.MustCompile(`(?i)/dp/|/gp/product/|/product/|/products/|/shop/p/|/p/[a-z0-9-]+|sku|item=|pid=|asin=|/ip/\d|\.html$`)

	irrelevantNamePattern = regexp.MustCompile(`(?i)^(home|search results?|page not found|404|error|sign in|log ?in|cart|checkout|account|shopping cart)$`)

	searchBoilerplatePattern = regexp.MustCompile(`(?i)search results|sort by|filter by|refine by|browse all|showing results`)

	// retryablePattern matches error strings the Orchestrator treats as
	// transient transport failures rather than a dead candidate.
	retryablePattern = regexp.MustCompile(`(?i)session not found|SSE .* not established|failed to fetch|ECONNRESET|disconnected|timed out|MCP request timed`)

	cookieDismissSelectors = []string{
		"#onetrust-accept-btn-handler",
		"button#accept-cookies",
		"button[id*='accept' i]",
		"button[class*='accept' i]",
		".cookie-consent button",
		"#sp-cc-accept",
	}

	searchInputSelectors = []string{
		"input#twotabsearchtextbox",
		"input[name='q']",
		"input[type='search']",
		"input[aria-label*='Search' i]",
	}
)

var errVisitBudgetExhausted = errors.New("orchestrator: visit budget exhausted")

// IsRetryable reports whether err should trigger the Orchestrator's
// retry-or-early-stop handling rather than a plain skip-and-continue.
func IsRetryable(err error) bool {
	return err != nil && retryablePattern.MatchString(err.Error())
}

func isListingPage(rawURL string) bool {
	return listingPattern.MatchString(rawURL)
}

// isWeak matches spec's "weak candidate" rule: the Orchestrator treats a
// weak but successfully-extracted candidate as worth a second look
// (listing scan) rather than accepting it outright.
func isWeak(c models.ProductCandidate, rawURL string) bool {
	if c.Name == "" || irrelevantNamePattern.MatchString(c.Name) {
		return true
	}
	if !c.HasPrice {
		return true
	}
	if c.Confidence < 0.2 {
		return true
	}
	if isListingPage(rawURL) {
		return true
	}
	return false
}

// PassesRelevanceGate applies the final per-candidate admission rule.
func PassesRelevanceGate(c models.ProductCandidate, rawURL string, queryTerms []string) bool {
	if c.Name == "" || irrelevantNamePattern.MatchString(c.Name) {
		return false
	}
	if searchBoilerplatePattern.MatchString(c.Category) || searchBoilerplatePattern.MatchString(strings.Join(c.KeyFeatures, " ")) {
		return false
	}
	haystack := strings.ToLower(c.Name + " " + c.Category + " " + strings.Join(c.KeyFeatures, " ") + " " + rawURL)
	if !containsAnyTerm(haystack, queryTerms) {
		return false
	}
	if c.Confidence < 0.10 {
		return false
	}
	if c.Availability == models.AvailabilityOutOfStock {
		return false
	}
	return true
}

func containsAnyTerm(haystack string, terms []string) bool {
	for _, t := range terms {
		if t == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(t)) {
			return true
		}
	}
	return len(terms) == 0
}

// Visitor implements the per-candidate visit protocol: Page Fetcher
// first, listing-page anchor scan with one level of recursion, Driven
// Browser fallback on fetch failure.
type Visitor struct {
	fetcher *fetch.Fetcher
	rt      *browser.Runtime
	cache   *visitCache
	domains *domainMemory

	cleanedQuery string
	queryTerms   []string

	navigationTimeout time.Duration
	opTimeout         time.Duration

	browserStarted bool
	visits         int

	// emit posts a human-readable research-update line. Defaults to a
	// no-op so tests that build a Visitor directly don't need to supply
	// one.
	emit func(string, ...any)
}

// NewVisitor builds a Visitor. rt may be nil, meaning Driven Browser
// tools are not available for this request and fetch failures are
// terminal for that candidate. cache may be nil to disable the
// visited-URL cache entirely. domains may be nil to disable the
// needs-browser host memory. emit may be nil to disable research-update
// logging (a no-op is substituted).
func NewVisitor(fetcher *fetch.Fetcher, rt *browser.Runtime, cache *visitCache, domains *domainMemory, cleanedQuery string, navigationTimeout, opTimeout time.Duration, emit func(string, ...any)) *Visitor {
	if emit == nil {
		emit = func(string, ...any) {}
	}
	return &Visitor{
		fetcher:           fetcher,
		rt:                rt,
		cache:             cache,
		domains:           domains,
		cleanedQuery:      cleanedQuery,
		queryTerms:        strings.Fields(cleanedQuery),
		navigationTimeout: navigationTimeout,
		opTimeout:         opTimeout,
		emit:              emit,
	}
}

// Visit runs the protocol for one candidate URL. depth is 0 for
// top-level candidates and 1 for links recursed into from a listing
// page; recursion stops at depth 1 per spec.
func (v *Visitor) Visit(ctx context.Context, candidateURL string, depth int) (models.ProductCandidate, error) {
	if v.cache != nil {
		if cached, ok := v.cache.get(candidateURL); ok {
			return cached, nil
		}
	}

	candidate, err := v.visitUncached(ctx, candidateURL, depth)
	if err == nil && v.cache != nil {
		v.cache.set(candidateURL, candidate)
	}
	return candidate, err
}

func (v *Visitor) visitUncached(ctx context.Context, candidateURL string, depth int) (models.ProductCandidate, error) {
	if v.visits >= maxVisitBudget {
		return models.ProductCandidate{}, errVisitBudgetExhausted
	}
	v.visits++

	if v.rt != nil && v.domains != nil && v.domains.needsBrowser(hostOf(candidateURL)) {
		return v.browserFallback(ctx, candidateURL)
	}

	page, err := v.fetcher.Fetch(ctx, candidateURL)
	if err != nil {
		if v.rt == nil {
			return models.ProductCandidate{}, err
		}
		return v.browserFallback(ctx, candidateURL)
	}

	candidate := extract.Extract(models.PageContent{URL: page.URL, HTML: page.HTML, Text: page.Text})
	if !isWeak(candidate, page.URL) {
		return candidate, nil
	}

	// A weak candidate whose body doesn't read like an article either
	// (readability's density check failed) is one more hint this is a
	// listing page worth scanning for product links, even when the URL
	// itself doesn't match the listing-page regex.
	if depth == 0 && (isListingPage(page.URL) || !page.LooksLikeArticle) {
		if recursed, ok := v.recurseListing(ctx, page.HTML, page.URL); ok {
			return recursed, nil
		}
	}

	return candidate, nil
}

// recurseListing scans a listing page for up to 8 likely product links
// and visits up to 5 of them, returning the first non-weak extraction.
func (v *Visitor) recurseListing(ctx context.Context, rawHTML, baseURL string) (models.ProductCandidate, bool) {
	links := likelyProductLinks(rawHTML, baseURL, v.queryTerms, 8)

	visited := 0
	for _, link := range links {
		if visited >= 5 || v.visits >= maxVisitBudget {
			break
		}
		visited++
		candidate, err := v.Visit(ctx, link, 1)
		if err != nil {
			continue
		}
		if !isWeak(candidate, link) {
			return candidate, true
		}
	}
	return models.ProductCandidate{}, false
}

// likelyProductLinks filters a listing page's anchors to those that look
// like product detail pages and are relevant to the query, capped at max.
func likelyProductLinks(rawHTML, baseURL string, queryTerms []string, max int) []string {
	anchors := scanAnchors(rawHTML, baseURL)

	var out []string
	for _, a := range anchors {
		if len(out) >= max {
			break
		}
		if isListingPage(a.url) {
			continue
		}
		strongProductLink := productLinkPattern.MatchString(a.url)
		if !strongProductLink {
			continue
		}
		haystack := strings.ToLower(a.url + " " + a.text)
		if !containsAnyTerm(haystack, queryTerms) && !isStrongRetailerLink(a.url) {
			continue
		}
		out = append(out, a.url)
	}
	return out
}

// isStrongRetailerLink lets an obviously-product-shaped URL on a known
// retailer host skip the query-term requirement, per spec's "strong
// product link on a preferred retailer host" carve-out.
func isStrongRetailerLink(rawURL string) bool {
	host := hostOf(rawURL)
	for _, retailer := range preferredRetailerHosts {
		if strings.Contains(host, retailer) {
			return true
		}
	}
	return false
}

var preferredRetailerHosts = []string{
	"amazon.", "walmart.com", "target.com", "bestbuy.com", "ebay.", "newegg.com",
}

// browserFallback implements the driven-browser protocol used when the
// Page Fetcher fails: start once, open, dismiss cookies, search on
// listing pages, scroll, snapshot, extract.
func (v *Visitor) browserFallback(ctx context.Context, candidateURL string) (models.ProductCandidate, error) {
	if !v.browserStarted {
		if _, err := v.rt.Start("", true, v.navigationTimeout); err != nil {
			return models.ProductCandidate{}, err
		}
		v.browserStarted = true
	}

	if err := v.rt.Open(candidateURL, v.navigationTimeout); err != nil {
		return models.ProductCandidate{}, err
	}

	v.dismissCookieBanner(ctx)

	if isListingPage(candidateURL) {
		v.submitListingSearch(ctx)
	}

	_ = v.rt.Scroll(ctx, "by", 0, 900, v.opTimeout)

	snapshot, err := v.rt.Snapshot(ctx, true, 100_000, v.opTimeout)
	if err != nil {
		return models.ProductCandidate{}, err
	}

	if v.domains != nil {
		v.domains.rememberNeedsBrowser(hostOf(candidateURL))
	}

	v.emit("browser snapshot of %s: %s", candidateURL, summarizeForLog(snapshot.HTML, candidateURL))

	return extract.Extract(snapshot), nil
}

func (v *Visitor) dismissCookieBanner(ctx context.Context) {
	for _, sel := range cookieDismissSelectors {
		if err := v.rt.Click(ctx, sel, false, 2*time.Second); err == nil {
			return
		}
	}
}

func (v *Visitor) submitListingSearch(ctx context.Context) {
	for _, sel := range searchInputSelectors {
		if err := v.rt.Type(ctx, sel, v.cleanedQuery, false, true, 3*time.Second); err == nil {
			return
		}
	}
}
