package compare

import (
	"math"
	"strings"

	"github.com/use-agent/shopscout/models"
)

// scoreCompleteness: price(8) + currency(2, only if price) + brand(3) +
// specs>=1(4) + features>=1(3). Max 20.
func scoreCompleteness(p models.ProductCandidate) int {
	score := 0
	if p.HasPrice {
		score += 8
		if p.Currency != "" {
			score += 2
		}
	}
	if p.Brand != "" {
		score += 3
	}
	if len(p.Specs) >= 1 {
		score += 4
	}
	if len(p.KeyFeatures) >= 1 {
		score += 3
	}
	return score
}

// scoreBudget: 25 if budget set and price <= budget; 0 if budget set and
// over (or price unknown); 15 if no budget constraint. Max 25.
func scoreBudget(p models.ProductCandidate, criteria models.CompareCriteria) (int, []string, []string) {
	if criteria.MaxBudget == nil {
		return 15, nil, nil
	}
	if !p.HasPrice {
		return 0, nil, []string{"Cannot verify budget fit"}
	}
	if p.Price <= *criteria.MaxBudget {
		return 25, []string{"Within budget"}, nil
	}
	return 0, nil, []string{"Over budget"}
}

// scoreRelativeValue normalizes price among products with a known
// price: round((1 - (p-min)/(max-min)) * 20). One priced product → 10;
// no priced products → 0. Max 20.
func scoreRelativeValue(p models.ProductCandidate, ctx scoringContext) int {
	if !ctx.havePriced || !p.HasPrice {
		return 0
	}
	if ctx.onlyOnePriced {
		return 10
	}
	spread := ctx.maxPrice - ctx.minPrice
	if spread <= 0 {
		return 20
	}
	normalized := 1 - (p.Price-ctx.minPrice)/spread
	return roundInt(normalized * 20)
}

// scoreSpecRichness: round((|specs| / |union of spec keys|) * 15). Max 15.
func scoreSpecRichness(p models.ProductCandidate, ctx scoringContext) int {
	if len(ctx.unionSpecKeys) == 0 {
		return 0
	}
	ratio := float64(len(p.Specs)) / float64(len(ctx.unionSpecKeys))
	return roundInt(ratio * 15)
}

// scoreFeatureRichness: round((|features| / max features across set) * 10). Max 10.
func scoreFeatureRichness(p models.ProductCandidate, ctx scoringContext) int {
	if ctx.maxFeatureCount == 0 {
		return 0
	}
	ratio := float64(len(p.KeyFeatures)) / float64(ctx.maxFeatureCount)
	return roundInt(ratio * 10)
}

// scorePreferenceMatch: round(matched/|preferences| * 10) against a
// lowercased substring search over name|brand|features|spec keys|spec
// values. No preferences given → 5. Max 10.
func scorePreferenceMatch(p models.ProductCandidate, criteria models.CompareCriteria) (int, []string, []string) {
	if len(criteria.Preferences) == 0 {
		return 5, nil, nil
	}

	haystack := strings.ToLower(searchableConcat(p))
	matched := 0
	for _, pref := range criteria.Preferences {
		if strings.Contains(haystack, strings.ToLower(pref)) {
			matched++
		}
	}
	score := roundInt(float64(matched) / float64(len(criteria.Preferences)) * 10)
	if matched > 0 {
		return score, []string{"Matches stated preferences"}, nil
	}
	return score, nil, []string{"No preferences matched"}
}

func searchableConcat(p models.ProductCandidate) string {
	parts := []string{p.Name, p.Brand, strings.Join(p.KeyFeatures, " ")}
	for k, v := range p.Specs {
		parts = append(parts, k, v)
	}
	return strings.Join(parts, "|")
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
