package fetch

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minArticleTextLen is the TextContent length below which readability's
// extraction is treated as having failed to find a main body, matching
// purify's own ExtractContent fallback threshold.
const minArticleTextLen = 200

// articleSignal runs the Mozilla Readability algorithm as a secondary,
// best-effort signal. It is never the primary extraction path (spec's
// Product Extractor stays heuristic/JSON-LD) — it exists only to (1) tell
// the Orchestrator's visit protocol whether a fetched page reads like a
// single-article/product body rather than a thin listing page, and (2)
// hand back a better body of text when our own tag-stripping reduction
// came back too short to be useful.
func articleSignal(rawHTML, sourceURL string) (text string, looksLikeArticle bool) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		return "", false
	}

	content := strings.TrimSpace(article.TextContent)
	if len(content) < minArticleTextLen {
		return "", false
	}
	return content, true
}
