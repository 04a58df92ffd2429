package orchestrator

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// anchorSelector is parsed once; every anchor tag carrying an href is a
// candidate for the listing-page link scan.
var anchorSelector = cascadia.MustParse("a[href]")

type anchor struct {
	url  string
	text string
}

// scanAnchors parses rawHTML and returns every anchor's resolved absolute
// URL and visible text, grounded on cleaner.ApplyCSSSelector's
// parse-then-cascadia-query shape but collecting attributes instead of
// rendering matched nodes back to HTML.
func scanAnchors(rawHTML, baseURL string) []anchor {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var out []anchor
	for _, node := range cascadia.QueryAll(doc, anchorSelector) {
		href := attrValue(node, "href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		out = append(out, anchor{url: resolved.String(), text: nodeText(node)})
	}
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			sb.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
