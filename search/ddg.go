package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/shopscout/models"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ddgHTMLProvider scrapes DuckDuckGo's no-JS HTML results page.
type ddgHTMLProvider struct {
	client    *http.Client
	cooldowns *cooldownStore
}

func (d *ddgHTMLProvider) name() string           { return "ddg-html" }
func (d *ddgHTMLProvider) coolingDown() bool       { return d.cooldowns.ddgCoolingDown() }
func (d *ddgHTMLProvider) startCooldown()          { d.cooldowns.startDDGCooldown() }

func (d *ddgHTMLProvider) search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	endpoint := fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(query))
	return fetchAndParse(ctx, d.client, endpoint, maxResults, parseDDGDocument)
}

// ddgLiteProvider scrapes DuckDuckGo Lite, sharing the DDG cooldown pool.
type ddgLiteProvider struct {
	client    *http.Client
	cooldowns *cooldownStore
}

func (d *ddgLiteProvider) name() string     { return "ddg-lite" }
func (d *ddgLiteProvider) coolingDown() bool { return d.cooldowns.ddgCoolingDown() }
func (d *ddgLiteProvider) startCooldown()    { d.cooldowns.startDDGCooldown() }

func (d *ddgLiteProvider) search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	endpoint := fmt.Sprintf("https://lite.duckduckgo.com/lite/?q=%s", url.QueryEscape(query))
	return fetchAndParse(ctx, d.client, endpoint, maxResults, parseDDGDocument)
}

// fetchAndParse performs the common GET + goquery-parse + generic-anchor
// fallback sequence shared by every live provider.
func fetchAndParse(ctx context.Context, client *http.Client, endpoint string, maxResults int, parse func(*goquery.Document, int) []models.SearchResult) ([]models.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	results := parse(doc, maxResults)
	if len(results) == 0 {
		results = genericAnchorScan(doc, maxResults)
	}
	return results, nil
}

func parseDDGDocument(doc *goquery.Document, maxResults int) []models.SearchResult {
	var results []models.SearchResult
	doc.Find(".result, .web-result, .result__body").Each(func(i int, s *goquery.Selection) {
		if len(results) >= maxResults {
			return
		}
		titleElem := s.Find(".result__title a, h2 a, a.result__a").First()
		title := strings.TrimSpace(titleElem.Text())
		link, _ := titleElem.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet, .snippet").First().Text())

		link = unwrapDDGRedirect(link)
		if link == "" || title == "" {
			return
		}
		results = append(results, models.SearchResult{
			Title:   title,
			URL:     link,
			Snippet: snippet,
			Source:  hostOf(link),
		})
	})
	return results
}

// unwrapDDGRedirect resolves DuckDuckGo's `/l/?uddg=` redirect wrapper
// to the real destination URL, and normalizes protocol-relative links.
func unwrapDDGRedirect(link string) string {
	if link == "" {
		return ""
	}
	if strings.Contains(link, "duckduckgo.com/l/") {
		if u, err := url.Parse(link); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				if decoded, err := url.QueryUnescape(target); err == nil {
					link = decoded
				}
			}
		}
	}
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	} else if !strings.HasPrefix(link, "http") && !strings.Contains(link, "duckduckgo.com") {
		link = "https://" + link
	}
	return link
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// genericAnchorScan is the last-resort parser run when provider-specific
// selectors yield nothing: grab every anchor with absolute http(s) href
// and non-trivial text.
func genericAnchorScan(doc *goquery.Document, maxResults int) []models.SearchResult {
	var results []models.SearchResult
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if len(results) >= maxResults {
			return
		}
		href, _ := s.Attr("href")
		href = unwrapDDGRedirect(href)
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(href, "http") || len(text) < 3 {
			return
		}
		results = append(results, models.SearchResult{
			Title:  text,
			URL:    href,
			Source: hostOf(href),
		})
	})
	return results
}
