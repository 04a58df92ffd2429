package models

// ProductCandidate is the normalized output of the Product Extractor.
// Incomplete fields are left at their zero value; the Extractor always
// returns a record, never an error.
type ProductCandidate struct {
	URL    string `json:"url"`
	Source string `json:"source"`

	Name        string            `json:"name,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Category    string            `json:"category,omitempty"`
	KeyFeatures []string          `json:"key_features,omitempty"`
	Images      []string          `json:"images,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`

	Price        float64 `json:"price,omitempty"`
	HasPrice     bool    `json:"-"`
	Currency     string  `json:"currency,omitempty"`
	Availability string  `json:"availability,omitempty"`

	Confidence float64 `json:"confidence"`

	// UsedStructuredData records whether JSON-LD or microdata contributed
	// any field, used both for the confidence bonus and observability.
	UsedStructuredData bool `json:"-"`
}

// Availability values recognized by the Extractor and Comparison Engine.
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
	AvailabilityPreorder   = "preorder"
	AvailabilityLimited    = "limited"
	AvailabilityUnavailable = "unavailable"
)

// PageContent is the input to the Product Extractor: a fetched or
// snapshotted page reduced to URL, raw HTML, and cleaned text.
type PageContent struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	HTML  string `json:"html,omitempty"`
	Text  string `json:"text"`
}

// RankedEntry is one scored, ordered output of the Comparison Engine.
type RankedEntry struct {
	Name   string   `json:"name"`
	Score  int      `json:"score"`
	Pros   []string `json:"pros"`
	Cons   []string `json:"cons"`
	Reason string   `json:"reason"`
}

// CompareCriteria is the user-stated comparison context.
type CompareCriteria struct {
	MaxBudget   *float64 `json:"max_budget,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	UseCase     string   `json:"use_case,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// ProductOption is the Orchestrator's final, display-ready output.
type ProductOption struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Price       float64 `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
	WhyPicked   string `json:"why_picked"`
	Description string `json:"description"`
}

// ResearchTiming breaks down one Research() call's duration by stage,
// mirroring purify's TimingInfo for the orchestrator's own multi-stage
// pipeline instead of a single scrape-and-clean pass.
type ResearchTiming struct {
	TotalMs   int64 `json:"total_ms"`
	SearchMs  int64 `json:"search_ms"`
	VisitMs   int64 `json:"visit_ms"`
	CompareMs int64 `json:"compare_ms"`
}

// QueryConstraints is derived from a user's free-form research prompt.
type QueryConstraints struct {
	MaxBudget *float64
	Currency  string
	Region    string
}

// CartItem is a single entry in the in-memory Cart.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Category string  `json:"category,omitempty"`
}
