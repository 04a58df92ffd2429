package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// applyJSONLD scans every <script type="application/ld+json"> block,
// walks @graph, and picks the highest-scoring object whose @type is
// (case-insensitively) Product. Fields are only filled if still empty,
// per the "earlier stage wins" merge order.
func applyJSONLD(doc *goquery.Document, c *candidate) {
	var best map[string]any
	bestScore := -1

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := s.Text()
		for _, obj := range parseJSONLDObjects(raw) {
			if !isProductType(obj) {
				continue
			}
			score := jsonldScore(obj)
			if score > bestScore {
				bestScore = score
				best = obj
			}
		}
	})

	if best == nil {
		return
	}
	c.usedStructuredData = true
	fillFromStructured(c, best)
}

// parseJSONLDObjects decodes one <script> block's JSON and flattens any
// @graph array into a list of candidate objects (the document itself,
// an array of documents, or a @graph-wrapped array all normalize here).
func parseJSONLDObjects(raw string) []map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil
	}

	var out []map[string]any
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			if graph, ok := t["@graph"]; ok {
				walk(graph)
				return
			}
			out = append(out, t)
		case []any:
			for _, item := range t {
				walk(item)
			}
		}
	}
	walk(generic)
	return out
}

func isProductType(obj map[string]any) bool {
	t, _ := obj["@type"].(string)
	if strings.EqualFold(t, "Product") {
		return true
	}
	if arr, ok := obj["@type"].([]any); ok {
		for _, item := range arr {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Product") {
				return true
			}
		}
	}
	return false
}

// jsonldScore implements the presence-weighted scoring used to pick
// among multiple Product objects in one document: name(+3) offers(+3)
// brand(+1) image(+1) category(+1).
func jsonldScore(obj map[string]any) int {
	score := 0
	if _, ok := obj["name"]; ok {
		score += 3
	}
	if _, ok := obj["offers"]; ok {
		score += 3
	}
	if _, ok := obj["brand"]; ok {
		score += 1
	}
	if _, ok := obj["image"]; ok {
		score += 1
	}
	if _, ok := obj["category"]; ok {
		score += 1
	}
	return score
}

func fillFromStructured(c *candidate, obj map[string]any) {
	if c.name == "" {
		if name, ok := obj["name"].(string); ok {
			c.name = strings.TrimSpace(name)
		}
	}
	if c.brand == "" {
		c.brand = stringOrNamedObject(obj["brand"])
	}
	if c.category == "" {
		if cat, ok := obj["category"].(string); ok {
			c.category = strings.TrimSpace(cat)
		}
	}
	if len(c.keyFeatures) == 0 {
		if desc, ok := obj["description"].(string); ok {
			c.keyFeatures = append(c.keyFeatures, splitFeatures(desc, 6)...)
		}
	}
	if len(c.images) == 0 {
		c.images = append(c.images, imagesFromAny(obj["image"])...)
	}
	if props, ok := obj["additionalProperty"].([]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				name, _ := pm["name"].(string)
				value := stringOrAny(pm["value"])
				if name != "" && value != "" {
					if _, exists := c.specs[name]; !exists {
						c.specs[name] = value
					}
				}
			}
		}
	}

	offer := firstOffer(obj["offers"])
	if offer != nil {
		if !c.hasPrice {
			if price, ok := parsePrice(offer["price"]); ok {
				c.price = price
				c.hasPrice = true
			}
		}
		if c.currency == "" {
			if cur, ok := offer["priceCurrency"].(string); ok {
				c.currency = strings.ToUpper(strings.TrimSpace(cur))
			}
		}
		if c.availability == "" {
			if avail, ok := offer["availability"].(string); ok {
				c.availability = normalizeAvailability(avail)
			}
		}
	}
}

// firstOffer normalizes offers (object or array) and prefers the first
// entry that actually carries a price, falling back to the first entry.
func firstOffer(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		var first map[string]any
		for i, item := range t {
			om, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if i == 0 {
				first = om
			}
			if _, hasPrice := om["price"]; hasPrice {
				return om
			}
		}
		return first
	}
	return nil
}

func stringOrNamedObject(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func stringOrAny(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func imagesFromAny(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else if m, ok := item.(map[string]any); ok {
				if url, ok := m["url"].(string); ok {
					out = append(out, url)
				}
			}
		}
		return out
	}
	return nil
}

var nonNumericPricePattern = regexp.MustCompile(`[^0-9.]`)

// parsePrice accepts either a JSON number or a string price, stripping
// thousands separators and any non-numeric characters before parsing.
func parsePrice(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		cleaned := nonNumericPricePattern.ReplaceAllString(strings.ReplaceAll(t, ",", ""), "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// normalizeAvailability maps schema.org availability URIs/strings to the
// availability values the rest of the pipeline expects; an unrecognized
// value is returned unchanged.
func normalizeAvailability(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "instock"):
		return "in_stock"
	case strings.Contains(lower, "outofstock"):
		return "out_of_stock"
	case strings.Contains(lower, "preorder"):
		return "preorder"
	case strings.Contains(lower, "limitedavailability"):
		return "limited"
	case strings.Contains(lower, "discontinued") || strings.Contains(lower, "soldout"):
		return "unavailable"
	default:
		return raw
	}
}

// splitFeatures breaks a description into short feature lines on `.` or
// `•` boundaries, up to max entries.
func splitFeatures(desc string, max int) []string {
	fields := regexp.MustCompile(`[.•]`).Split(desc, -1)
	out := make([]string, 0, max)
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, f)
		if len(out) >= max {
			break
		}
	}
	return out
}
