package fetch

import (
	"strings"
	"testing"
)

func TestStripNoiseTags_RemovesScriptAndStyle(t *testing.T) {
	in := `<html><head><style>.a{color:red}</style></head><body><script>alert(1)</script><p>hello</p></body></html>`
	out := stripNoiseTags(in)
	if containsAny(out, "<script", "<style", "alert(1)", "color:red") {
		t.Errorf("expected noise tags stripped, got %q", out)
	}
	if !containsAny(out, "<p>hello</p>") {
		t.Errorf("expected content preserved, got %q", out)
	}
}

func TestReduceToText_InsertsNewlinesAtBlockBoundaries(t *testing.T) {
	in := `<div>first</div><div>second</div>`
	out := reduceToText(in)
	want := "first\nsecond"
	if out != want {
		t.Errorf("reduceToText() = %q, want %q", out, want)
	}
}

func TestReduceToText_CollapsesExcessNewlines(t *testing.T) {
	in := "<p>a</p><p></p><p></p><p></p><p>b</p>"
	out := reduceToText(in)
	if containsAny(out, "\n\n\n") {
		t.Errorf("expected at most 2 consecutive newlines, got %q", out)
	}
}

func TestExtractTitle_DecodesEntitiesAndTrims(t *testing.T) {
	in := "<html><head><title>  Widgets &amp; Gadgets  </title></head></html>"
	got := extractTitle(in)
	want := "Widgets & Gadgets"
	if got != want {
		t.Errorf("extractTitle() = %q, want %q", got, want)
	}
}

func TestExtractTitle_AbsentReturnsEmpty(t *testing.T) {
	if got := extractTitle("<html><body>no title here</body></html>"); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}

func TestIsChallengeBody_DetectsKnownPhrases(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"Please enable JavaScript and cookies to continue", true},
		{"Checking your browser before accessing", true},
		{"<html><body>Welcome to our store</body></html>", false},
	}
	for _, c := range cases {
		if got := isChallengeBody(c.body); got != c.want {
			t.Errorf("isChallengeBody(%q) = %v, want %v", c.body, got, c.want)
		}
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
