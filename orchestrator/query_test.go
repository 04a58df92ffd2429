package orchestrator

import (
	"strings"
	"testing"
)

func TestCleanQuery_DropsStopWordsAndAppendsBuy(t *testing.T) {
	q := CleanQuery("I want a good cheap laptop under £500 please")
	if !strings.Contains(q, "laptop") {
		t.Errorf("expected laptop to survive, got %q", q)
	}
	if strings.Contains(q, "500") {
		t.Errorf("expected budget number stripped before tokenizing, got %q", q)
	}
	if strings.Contains(q, "good") || strings.Contains(q, "cheap") || strings.Contains(q, "please") {
		t.Errorf("expected stop words dropped, got %q", q)
	}
	if !strings.HasSuffix(q, "buy") {
		t.Errorf("expected query to end with 'buy', got %q", q)
	}
}

func TestCleanQuery_DropsShortAndNumericTokens(t *testing.T) {
	q := CleanQuery("a 4k tv 55 inch")
	if strings.Contains(q, " 55 ") || strings.HasPrefix(q, "55") {
		t.Errorf("expected pure-numeric token dropped, got %q", q)
	}
}

func TestExplicitURLs_PromotesLiteralURL(t *testing.T) {
	urls := ExplicitURLs("is this a good deal? https://example.com/product/123 thanks")
	if len(urls) != 1 || urls[0] != "https://example.com/product/123" {
		t.Errorf("expected one trimmed URL, got %+v", urls)
	}
}

func TestExplicitURLs_NoneFound(t *testing.T) {
	urls := ExplicitURLs("just a plain shopping request")
	if len(urls) != 0 {
		t.Errorf("expected no URLs, got %+v", urls)
	}
}
