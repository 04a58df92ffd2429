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

// bingProvider scrapes Bing's HTML results page. It keeps its own
// cooldown pool, independent of the DDG family.
type bingProvider struct {
	client    *http.Client
	cooldowns *cooldownStore
}

func (b *bingProvider) name() string     { return "bing" }
func (b *bingProvider) coolingDown() bool { return b.cooldowns.bingCoolingDown() }
func (b *bingProvider) startCooldown()    { b.cooldowns.startBingCooldown() }

func (b *bingProvider) search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	endpoint := fmt.Sprintf("https://www.bing.com/search?q=%s", url.QueryEscape(query))
	return fetchAndParse(ctx, b.client, endpoint, maxResults, parseBingDocument)
}

func parseBingDocument(doc *goquery.Document, maxResults int) []models.SearchResult {
	var results []models.SearchResult
	doc.Find("li.b_algo").Each(func(i int, s *goquery.Selection) {
		if len(results) >= maxResults {
			return
		}
		titleElem := s.Find("h2 a").First()
		title := strings.TrimSpace(titleElem.Text())
		link, _ := titleElem.Attr("href")
		snippet := strings.TrimSpace(s.Find(".b_caption p, .b_lineclamp4").First().Text())

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
