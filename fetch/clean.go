package fetch

import (
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

// noiseTagPattern strips script/style/noscript/iframe elements including
// their contents before any further reduction.
var noiseTagPattern = regexp.MustCompile(`(?is)<(script|style|noscript|iframe)\b[^>]*>.*?</\s*\1\s*>`)

func stripNoiseTags(raw string) string {
	return noiseTagPattern.ReplaceAllString(raw, "")
}

// blockTagPattern matches the closing tag of every block-level element
// that should introduce a newline during text reduction.
var blockTagPattern = regexp.MustCompile(`(?i)</\s*(p|div|section|article|header|footer|li|ul|ol|h[1-6]|tr|table)\s*>`)
var brTagPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
var anyTagPattern = regexp.MustCompile(`(?s)<[^>]*>`)
var multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
var multiSpacePattern = regexp.MustCompile(`[ \t]+`)

// reduceToText turns cleaned HTML into whitespace-collapsed plain text,
// inserting newlines at block-element and <br> boundaries so visual
// structure survives tag removal.
func reduceToText(cleanedHTML string) string {
	s := blockTagPattern.ReplaceAllString(cleanedHTML, "\n")
	s = brTagPattern.ReplaceAllString(s, "\n")
	s = anyTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = multiSpacePattern.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// extractTitle uses the Go HTML tokenizer to find the first <title>
// element, HTML-entity-decoded and whitespace-normalized.
func extractTitle(rawHTML string) string {
	tokenizer := xhtml.NewTokenizer(strings.NewReader(rawHTML))
	inTitle := false
	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return ""
		case xhtml.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case xhtml.TextToken:
			if inTitle {
				text := html.UnescapeString(string(tokenizer.Text()))
				return strings.Join(strings.Fields(text), " ")
			}
		case xhtml.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}
