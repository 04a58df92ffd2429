// Package compare implements the Comparison Engine: per-product scoring
// across six buckets (completeness, budget, relative value, spec
// richness, feature richness, preference match), composed into a
// 0-100 integer score with accompanying pros/cons/reason trace.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/use-agent/shopscout/models"
)

// Compare scores every product against criteria and returns entries
// sorted by score descending, ties broken by original input order.
func Compare(products []models.ProductCandidate, criteria models.CompareCriteria) []models.RankedEntry {
	ctx := buildScoringContext(products, criteria)

	entries := make([]models.RankedEntry, len(products))
	for i, p := range products {
		entries[i] = scoreOne(p, criteria, ctx)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// Rank scores every product like Compare but also returns the products
// themselves reordered to match, so a caller that needs the winning
// product's own fields (URL, price, ...) alongside its RankedEntry
// doesn't have to re-match on the entry's Name.
func Rank(products []models.ProductCandidate, criteria models.CompareCriteria) ([]models.ProductCandidate, []models.RankedEntry) {
	ctx := buildScoringContext(products, criteria)

	type paired struct {
		product models.ProductCandidate
		entry   models.RankedEntry
	}

	pairs := make([]paired, len(products))
	for i, p := range products {
		pairs[i] = paired{product: p, entry: scoreOne(p, criteria, ctx)}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].entry.Score > pairs[j].entry.Score
	})

	sortedProducts := make([]models.ProductCandidate, len(pairs))
	sortedEntries := make([]models.RankedEntry, len(pairs))
	for i, pr := range pairs {
		sortedProducts[i] = pr.product
		sortedEntries[i] = pr.entry
	}
	return sortedProducts, sortedEntries
}

// scoringContext holds cross-product aggregates needed by the relative
// value, spec richness, and feature richness buckets.
type scoringContext struct {
	minPrice, maxPrice   float64
	havePriced           bool
	onlyOnePriced        bool
	unionSpecKeys        map[string]struct{}
	maxFeatureCount      int
}

func buildScoringContext(products []models.ProductCandidate, _ models.CompareCriteria) scoringContext {
	ctx := scoringContext{unionSpecKeys: map[string]struct{}{}}
	pricedCount := 0
	first := true
	for _, p := range products {
		if p.HasPrice {
			pricedCount++
			if first {
				ctx.minPrice, ctx.maxPrice = p.Price, p.Price
				first = false
			} else {
				if p.Price < ctx.minPrice {
					ctx.minPrice = p.Price
				}
				if p.Price > ctx.maxPrice {
					ctx.maxPrice = p.Price
				}
			}
		}
		for k := range p.Specs {
			ctx.unionSpecKeys[k] = struct{}{}
		}
		if len(p.KeyFeatures) > ctx.maxFeatureCount {
			ctx.maxFeatureCount = len(p.KeyFeatures)
		}
	}
	ctx.havePriced = pricedCount > 0
	ctx.onlyOnePriced = pricedCount == 1
	return ctx
}

func scoreOne(p models.ProductCandidate, criteria models.CompareCriteria, ctx scoringContext) models.RankedEntry {
	var total int
	var pros, cons, trace []string

	addTrace := func(delta int, label string) {
		sign := "+"
		if delta < 0 {
			sign = ""
		}
		trace = append(trace, fmt.Sprintf("%s%d %s", sign, delta, label))
	}

	completeness := scoreCompleteness(p)
	total += completeness
	addTrace(completeness, "data completeness")
	if !p.HasPrice || p.Brand == "" {
		cons = append(cons, "Missing data")
	}

	budget, budgetPros, budgetCons := scoreBudget(p, criteria)
	total += budget
	addTrace(budget, "budget fit")
	pros = append(pros, budgetPros...)
	cons = append(cons, budgetCons...)

	relValue := scoreRelativeValue(p, ctx)
	total += relValue
	addTrace(relValue, "relative value")
	if p.HasPrice && ctx.havePriced {
		if p.Price == ctx.minPrice {
			pros = append(pros, "Lowest price")
		} else if p.Price == ctx.maxPrice && ctx.maxPrice > ctx.minPrice {
			cons = append(cons, "Highest price")
		}
	}

	specRichness := scoreSpecRichness(p, ctx)
	total += specRichness
	addTrace(specRichness, "spec richness")
	if specRichness >= 10 {
		pros = append(pros, "Detailed specs")
	}

	featureRichness := scoreFeatureRichness(p, ctx)
	total += featureRichness
	addTrace(featureRichness, "feature richness")
	if featureRichness >= 7 {
		pros = append(pros, "Feature-rich")
	}

	prefScore, prefPros, prefCons := scorePreferenceMatch(p, criteria)
	total += prefScore
	addTrace(prefScore, "preference match")
	pros = append(pros, prefPros...)
	cons = append(cons, prefCons...)

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	reason := fmt.Sprintf("Score %d/100: %s", total, strings.Join(trace, "; "))

	return models.RankedEntry{
		Name:   p.Name,
		Score:  total,
		Pros:   pros,
		Cons:   cons,
		Reason: reason,
	}
}
