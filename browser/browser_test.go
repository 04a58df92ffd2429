package browser

import (
	"strings"
	"testing"

	"github.com/use-agent/shopscout/config"
)

func TestRuntime_HasSessionFalseInitially(t *testing.T) {
	r := New(config.BrowserConfig{}, nil)
	if r.HasSession() {
		t.Errorf("expected no session before Start")
	}
}

func TestRuntime_CloseIsIdempotent(t *testing.T) {
	r := New(config.BrowserConfig{}, nil)
	r.Close()
	r.Close()
	if r.HasSession() {
		t.Errorf("expected no session after Close")
	}
}

func TestTruncateToBytes_RespectsLimit(t *testing.T) {
	s := strings.Repeat("a", 100)
	out := truncateToBytes(s, 10)
	if len(out) != 10 {
		t.Errorf("expected 10 bytes, got %d", len(out))
	}
}

func TestTruncateToBytes_StopsOnRuneBoundary(t *testing.T) {
	// Each "é" is 2 bytes in UTF-8; a cut mid-sequence must back off.
	s := strings.Repeat("é", 10)
	out := truncateToBytes(s, 7)
	for i, r := range out {
		_ = i
		if r == '�' {
			t.Fatalf("truncation produced an invalid rune: %q", out)
		}
	}
	if !strings.HasPrefix(s, out) {
		t.Errorf("expected truncated output to be a prefix of the original")
	}
}

func TestTruncateToBytes_NoopUnderLimit(t *testing.T) {
	s := "short"
	if out := truncateToBytes(s, 100); out != s {
		t.Errorf("expected unchanged string, got %q", out)
	}
}

func TestTruncateToRunes_CountsRunesNotBytes(t *testing.T) {
	s := strings.Repeat("é", 10) // 20 bytes, 10 runes
	out := truncateToRunes(s, 5)
	if n := len([]rune(out)); n != 5 {
		t.Errorf("expected 5 runes, got %d", n)
	}
}

func TestSetupHijack_NilWhenNothingBlocked(t *testing.T) {
	if router := setupHijack(nil, nil); router != nil {
		t.Errorf("expected nil router when no resource types configured")
	}
}
