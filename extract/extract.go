// Package extract implements the Product Extractor: a JSON-LD →
// microdata → text-heuristic pipeline that merges into a single
// ProductCandidate with a confidence score. The Extractor never fails;
// missing fields are left null/empty and reflected in a lower score.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/shopscout/models"
)

// candidate is the mutable working record threaded through the three
// extraction stages; later stages only fill fields still empty.
type candidate struct {
	name, brand, category, availability string
	price                                float64
	hasPrice                             bool
	currency                             string
	keyFeatures                          []string
	images                               []string
	specs                                map[string]string
	usedStructuredData                   bool
}

// Extract runs the full pipeline over a page's URL/HTML/text and always
// returns a ProductCandidate.
func Extract(page models.PageContent) models.ProductCandidate {
	c := &candidate{specs: map[string]string{}}

	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))

	if doc != nil {
		applyJSONLD(doc, c)
		applyMicrodata(doc, c)
	}
	applyTextHeuristics(page.Text, page.HTML, c)

	out := models.ProductCandidate{
		URL:                 page.URL,
		Source:              hostOf(page.URL),
		Name:                c.name,
		Brand:               c.brand,
		Category:            c.category,
		KeyFeatures:         dedupeStrings(c.keyFeatures, 10),
		Images:              dedupeStrings(c.images, 12),
		Specs:               capSpecs(c.specs, 25),
		Price:               c.price,
		HasPrice:            c.hasPrice,
		Currency:            c.currency,
		Availability:        c.availability,
		UsedStructuredData:  c.usedStructuredData,
	}
	out.Confidence = confidence(out)
	return out
}

func capSpecs(in map[string]string, max int) map[string]string {
	if len(in) <= max {
		return in
	}
	out := make(map[string]string, max)
	n := 0
	for k, v := range in {
		if n >= max {
			break
		}
		out[k] = v
		n++
	}
	return out
}

func dedupeStrings(in []string, max int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		norm := strings.Join(strings.Fields(s), " ")
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
		if len(out) >= max {
			break
		}
	}
	return out
}
