package extract

import (
	"math"
	"net/url"

	"github.com/use-agent/shopscout/models"
)

// confidence implements the §4.3 point table: an additive score per
// recovered field, clamped to [0,1] and rounded to 2 decimals. A price
// without a currency is worth less, reflecting the lower trust in an
// unqualified number.
func confidence(c models.ProductCandidate) float64 {
	var score float64
	if c.Name != "" {
		score += 0.20
	}
	if c.HasPrice {
		if c.Currency != "" {
			score += 0.25
		} else {
			score += 0.15
		}
	}
	if c.Availability != "" {
		score += 0.10
	}
	if c.Brand != "" {
		score += 0.10
	}
	if c.Category != "" {
		score += 0.05
	}
	if len(c.KeyFeatures) >= 1 {
		score += 0.10
	}
	if len(c.Images) >= 1 {
		score += 0.10
	}
	if len(c.Specs) >= 1 {
		score += 0.10
	}
	if c.UsedStructuredData {
		score += 0.10
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*100) / 100
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
