package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var boilerplateNamePattern = regexp.MustCompile(`(?i)^(home|cart|sign in|log ?in|register|menu|search|subscribe|newsletter|cookie)`)

// applyTextHeuristics fills whatever fields JSON-LD and microdata left
// empty, scanning the reduced text and (for images) the raw HTML.
func applyTextHeuristics(text, rawHTML string, c *candidate) {
	if c.name == "" {
		c.name = heuristicName(text)
	}
	if !c.hasPrice {
		if price, currency, ok := heuristicPrice(text); ok {
			c.price = price
			c.hasPrice = true
			if c.currency == "" {
				c.currency = currency
			}
		}
	}
	if c.availability == "" {
		c.availability = heuristicAvailability(text)
	}
	if c.brand == "" {
		c.brand = heuristicColonPair(text, `(?i)brand\s*[:\-]\s*(.{2,60})`)
	}
	if c.category == "" {
		c.category = heuristicColonPair(text, `(?i)category\s*[:\-]\s*(.{2,80})`)
	}
	if len(c.keyFeatures) == 0 {
		c.keyFeatures = heuristicFeatures(text)
	}
	if len(c.specs) == 0 {
		for k, v := range heuristicSpecs(text) {
			c.specs[k] = v
		}
	}
	if len(c.images) == 0 {
		c.images = heuristicImages(rawHTML)
	}
}

var navBoilerplatePattern = regexp.MustCompile(`(?i)shopping cart|sign in|create account|skip to content|your cart is empty`)

// heuristicName picks the first line in the first 30 non-empty lines
// that is 6-140 chars and does not look like nav/cart/cookie chrome.
func heuristicName(text string) string {
	lines := strings.Split(text, "\n")
	checked := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		if checked > 30 {
			break
		}
		if len(line) < 6 || len(line) > 140 {
			continue
		}
		if boilerplateNamePattern.MatchString(line) || navBoilerplatePattern.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}

var pricePattern = regexp.MustCompile(`(?i)([$£€]|USD|GBP|EUR)\s?([0-9][0-9,]*\.?[0-9]*)|([0-9][0-9,]*\.?[0-9]*)\s?(USD|GBP|EUR|\$|£|€)`)
var priceBoostPattern = regexp.MustCompile(`(?i)price|our price|now|sale|buy`)
var pricePenaltyPattern = regexp.MustCompile(`(?i)list price|msrp|was`)

// heuristicPrice scans for CURRENCY NUMBER or NUMBER CURRENCY pairs,
// preferring matches near "sale/buy/now" wording over "list price/msrp".
func heuristicPrice(text string) (float64, string, bool) {
	matches := pricePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return 0, "", false
	}

	type found struct {
		amount   string
		symbol   string
		score    int
		position int
	}
	var candidates []found

	for _, m := range matches {
		whole := text[m[0]:m[1]]
		var symbol, amount string
		if m[2] >= 0 {
			symbol = text[m[2]:m[3]]
			amount = text[m[4]:m[5]]
		} else {
			amount = text[m[6]:m[7]]
			symbol = text[m[8]:m[9]]
		}

		windowStart := m[0] - 50
		if windowStart < 0 {
			windowStart = 0
		}
		windowEnd := m[1] + 50
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		window := text[windowStart:windowEnd]

		score := 0
		if priceBoostPattern.MatchString(window) {
			score += 2
		}
		if pricePenaltyPattern.MatchString(window) {
			score -= 1
		}
		_ = whole
		candidates = append(candidates, found{amount: amount, symbol: symbol, score: score, position: m[0]})
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.score > best.score {
			best = cand
		}
	}

	cleaned := nonNumericPricePattern.ReplaceAllString(strings.ReplaceAll(best.amount, ",", ""), "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, "", false
	}
	return amount, currencyFromSymbol(best.symbol), true
}

func currencyFromSymbol(symbol string) string {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "$":
		return "USD"
	case "£":
		return "GBP"
	case "€":
		return "EUR"
	case "USD", "GBP", "EUR":
		return strings.ToUpper(symbol)
	default:
		return ""
	}
}

var inStockPattern = regexp.MustCompile(`(?i)in stock`)
var outOfStockPattern = regexp.MustCompile(`(?i)out of stock`)
var preorderPattern = regexp.MustCompile(`(?i)pre-order`)
var unavailablePattern = regexp.MustCompile(`(?i)currently unavailable`)

func heuristicAvailability(text string) string {
	switch {
	case outOfStockPattern.MatchString(text):
		return "out_of_stock"
	case preorderPattern.MatchString(text):
		return "preorder"
	case unavailablePattern.MatchString(text):
		return "unavailable"
	case inStockPattern.MatchString(text):
		return "in_stock"
	default:
		return ""
	}
}

func heuristicColonPair(text, pattern string) string {
	re := regexp.MustCompile(pattern)
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	value := strings.TrimSpace(m[1])
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

var featureBulletPattern = regexp.MustCompile(`^[-*•]\s*(.+)`)
var reviewLikePattern = regexp.MustCompile(`(?i)\bi \b|\bmy \b|\bwe \b|love it`)
var promoPattern = regexp.MustCompile(`(?i)free shipping|add to cart`)

// heuristicFeatures picks bullet-prefixed lines 8-180 chars, dropping
// review-like and promotional text, up to 8 entries.
func heuristicFeatures(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		m := featureBulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if len(candidate) < 8 || len(candidate) > 180 {
			continue
		}
		if reviewLikePattern.MatchString(candidate) || promoPattern.MatchString(candidate) {
			continue
		}
		out = append(out, candidate)
		if len(out) >= 8 {
			break
		}
	}
	return out
}

var specLinePattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9 /\-]{0,39})\s*:\s*(.{1,200})$`)

// heuristicSpecs matches "Label: Value" lines, up to 25 entries.
func heuristicSpecs(text string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		m := specLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if label == "" || value == "" {
			continue
		}
		if _, exists := out[label]; !exists {
			out[label] = value
		}
		if len(out) >= 25 {
			break
		}
	}
	return out
}

var productContextPattern = regexp.MustCompile(`(?i)product|hero|main|gallery|primary|detail`)
var junkImagePattern = regexp.MustCompile(`(?i)logo|icon|sprite|pixel|tracking|banner|avatar|\.gif|\.svg|data:image|1x1|placeholder`)

// heuristicImages prefers OpenGraph/Twitter meta images, then <img> tags
// with product-ish surrounding context or meaningful alt text, falling
// back to any non-junk <img>, capped at 12.
func heuristicImages(rawHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var out []string
	add := func(src string) bool {
		if src == "" || junkImagePattern.MatchString(src) {
			return false
		}
		out = append(out, src)
		return len(out) >= 12
	}

	doc.Find(`meta[property="og:image"], meta[name="twitter:image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, _ := s.Attr("content")
		return !add(content)
	})
	if len(out) >= 12 {
		return out
	}

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src == "" {
			return true
		}
		alt, _ := s.Attr("alt")
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		context := class + " " + id
		if productContextPattern.MatchString(context) || len(strings.TrimSpace(alt)) > 3 {
			return !add(src)
		}
		return true
	})
	if len(out) >= 12 {
		return out
	}

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		return !add(src)
	})

	return out
}
