// Package orchestrator implements the Research Orchestrator: the
// top-level Research() operation composing constraint parsing, query
// cleaning, the Search Fallback Engine, diversification, the
// per-candidate visit protocol, and the Comparison Engine.
package orchestrator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/shopscout/models"
)

var (
	gbpPattern = regexp.MustCompile(`£|\bgbp\b|\bpound`)
	usdPattern = regexp.MustCompile(`\$|\busd\b|\bdollar`)
	eurPattern = regexp.MustCompile(`€|\beur\b|\beuro`)

	budgetClausePattern = regexp.MustCompile(`(?i)(?:under|below|less than|max(?:imum)?(?:\s+budget)?)\D{0,10}([£$€]?\s?\d[\d,]*(?:\.\d+)?)`)
	bareBudgetPattern   = regexp.MustCompile(`[£$€](\d[\d,]*(?:\.\d+)?)`)
)

// ParseConstraints derives currency, budget, and search region from a
// lowercased free-form prompt, following the priority order and
// fallback region mapping spec'd for the Research Orchestrator.
func ParseConstraints(prompt string) models.QueryConstraints {
	p := strings.ToLower(prompt)

	var constraints models.QueryConstraints
	switch {
	case gbpPattern.MatchString(p):
		constraints.Currency = "GBP"
	case usdPattern.MatchString(p):
		constraints.Currency = "USD"
	case eurPattern.MatchString(p):
		constraints.Currency = "EUR"
	}

	if budget, ok := parseBudget(p); ok {
		constraints.MaxBudget = &budget
	}

	switch constraints.Currency {
	case "GBP":
		constraints.Region = "uk-en"
	case "EUR":
		constraints.Region = "de-de"
	default:
		constraints.Region = "us-en"
	}

	return constraints
}

func parseBudget(p string) (float64, bool) {
	if m := budgetClausePattern.FindStringSubmatch(p); m != nil {
		if v, ok := parseMoney(m[1]); ok {
			return v, true
		}
	}
	if m := bareBudgetPattern.FindStringSubmatch(p); m != nil {
		if v, ok := parseMoney(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

func parseMoney(s string) (float64, bool) {
	cleaned := strings.NewReplacer("£", "", "$", "", "€", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
