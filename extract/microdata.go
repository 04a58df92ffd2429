package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// applyMicrodata walks every itemprop-annotated tag as a fallback when
// JSON-LD left fields empty, using the attribute precedence content >
// value > href > src > inner text.
func applyMicrodata(doc *goquery.Document, c *candidate) {
	props := map[string]string{}
	var offerPrice, offerCurrency, offerAvailability string

	doc.Find("[itemprop]").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("itemprop")
		value := microdataValue(s)
		if value == "" {
			return
		}
		switch prop {
		case "price":
			if offerPrice == "" {
				offerPrice = value
			}
		case "priceCurrency":
			if offerCurrency == "" {
				offerCurrency = value
			}
		case "availability":
			if offerAvailability == "" {
				offerAvailability = value
			}
		default:
			if _, exists := props[prop]; !exists {
				props[prop] = value
			}
		}
	})

	if c.name == "" && props["name"] != "" {
		c.name = props["name"]
		c.usedStructuredData = true
	}
	if c.brand == "" && props["brand"] != "" {
		c.brand = props["brand"]
		c.usedStructuredData = true
	}
	if c.category == "" && props["category"] != "" {
		c.category = props["category"]
		c.usedStructuredData = true
	}
	if len(c.keyFeatures) == 0 && props["description"] != "" {
		c.keyFeatures = append(c.keyFeatures, splitFeatures(props["description"], 6)...)
		c.usedStructuredData = true
	}
	if len(c.images) == 0 && props["image"] != "" {
		c.images = append(c.images, props["image"])
		c.usedStructuredData = true
	}
	if !c.hasPrice && offerPrice != "" {
		if price, ok := parsePrice(offerPrice); ok {
			c.price = price
			c.hasPrice = true
			c.usedStructuredData = true
		}
	}
	if c.currency == "" && offerCurrency != "" {
		c.currency = strings.ToUpper(offerCurrency)
		c.usedStructuredData = true
	}
	if c.availability == "" && offerAvailability != "" {
		c.availability = normalizeAvailability(offerAvailability)
		c.usedStructuredData = true
	}
}

func microdataValue(s *goquery.Selection) string {
	if v, ok := s.Attr("content"); ok && v != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := s.Attr("value"); ok && v != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := s.Attr("href"); ok && v != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := s.Attr("src"); ok && v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(s.Text())
}
