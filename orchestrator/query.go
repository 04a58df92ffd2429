package orchestrator

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// stopWords mirrors the pruning scorer's keyword-list style: a fixed set
// of low-signal tokens dropped before the cleaned query is built, grouped
// by why they're noise rather than alphabetically.
var stopWords = map[string]struct{}{
	// articles / prepositions
	"a": {}, "an": {}, "the": {}, "of": {}, "for": {}, "to": {}, "in": {},
	"on": {}, "at": {}, "with": {}, "by": {}, "from": {}, "into": {},
	"about": {}, "that": {}, "this": {}, "these": {}, "those": {},

	// conversational verbs / filler
	"i": {}, "me": {}, "im": {}, "want": {}, "wanna": {}, "need": {},
	"looking": {}, "look": {}, "find": {}, "help": {}, "please": {},
	"can": {}, "could": {}, "would": {}, "should": {}, "is": {}, "are": {},
	"am": {}, "be": {}, "get": {}, "got": {}, "buying": {}, "shopping": {},
	"recommend": {}, "recommendation": {}, "suggest": {}, "suggestion": {},

	// budget / price vocabulary (budget clauses are stripped before this
	// runs, but the bare words still need dropping if they survive)
	"budget": {}, "price": {}, "cost": {}, "cheap": {}, "cheapest": {},
	"under": {}, "below": {}, "less": {}, "than": {}, "max": {}, "maximum": {},
	"around": {}, "roughly": {}, "approximately": {},

	// quality adjectives
	"good": {}, "best": {}, "great": {}, "nice": {}, "decent": {}, "solid": {},
	"quality": {}, "reliable": {}, "new": {}, "latest": {},

	// gender terms (the recommendation shouldn't carry these into the query)
	"men": {}, "mens": {}, "man": {}, "women": {}, "womens": {}, "woman": {},
	"boys": {}, "girls": {}, "unisex": {},
}

var (
	urlPattern         = regexp.MustCompile(`https?://\S+`)
	nonAlphanumPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// ExplicitURLs returns every literal http(s) URL found in the prompt, in
// the order they appear, trimmed of trailing punctuation a sentence might
// attach to them.
func ExplicitURLs(prompt string) []string {
	matches := urlPattern.FindAllString(prompt, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimRight(m, ".,;:!?)\"'"))
	}
	return urls
}

// CleanQuery tokenizes the prompt, strips budget clauses first so bare
// numbers never leak into the query, drops stop words and pure-numeric or
// too-short tokens, and appends "buy" as spec'd.
func CleanQuery(prompt string) string {
	p := strings.ToLower(prompt)
	p = urlPattern.ReplaceAllString(p, " ")
	p = budgetClausePattern.ReplaceAllString(p, " ")
	p = bareBudgetPattern.ReplaceAllString(p, " ")

	tokens := nonAlphanumPattern.Split(p, -1)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if len(tok) < 2 {
			continue
		}
		if isPureNumeric(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	kept = append(kept, "buy")
	return strings.Join(kept, " ")
}

func isPureNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// logConverter renders a browser_snapshot's HTML down to Markdown for the
// human-readable research-update log line only; it never feeds the
// Product Extractor, which stays heuristic/JSON-LD against raw HTML.
// Built once and reused since converter.Converter is goroutine-safe.
var logConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// maxLogSummaryRunes bounds summarizeForLog's output so one noisy page
// snapshot can't dominate the research-updates stream.
const maxLogSummaryRunes = 600

// summarizeForLog renders rawHTML to Markdown and truncates it for a
// single research-update log line, falling back to a fixed placeholder
// if the conversion fails (a log line is never worth failing a visit over).
func summarizeForLog(rawHTML, pageURL string) string {
	md, err := logConverter.ConvertString(rawHTML, converter.WithDomain(pageURL))
	if err != nil || strings.TrimSpace(md) == "" {
		return "(snapshot body unavailable for summary)"
	}
	md = strings.Join(strings.Fields(md), " ")
	runes := []rune(md)
	if len(runes) > maxLogSummaryRunes {
		return string(runes[:maxLogSummaryRunes]) + "…"
	}
	return md
}
