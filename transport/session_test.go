package transport

import (
	"net/http/httptest"
	"testing"
)

func TestSessionManager_ReplaceClosesPrior(t *testing.T) {
	m := newSessionManager()
	w1 := httptest.NewRecorder()
	s1, err := m.Replace(w1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w2 := httptest.NewRecorder()
	s2, err := m.Replace(w2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-s1.closed:
	default:
		t.Errorf("expected prior session to be closed after Replace")
	}

	active, ok := m.Active()
	if !ok || active != s2 {
		t.Errorf("expected the newest session to be active")
	}
}

func TestSessionManager_ClearIfCurrentIgnoresStaleSession(t *testing.T) {
	m := newSessionManager()
	w1 := httptest.NewRecorder()
	s1, _ := m.Replace(w1)
	w2 := httptest.NewRecorder()
	s2, _ := m.Replace(w2)

	// A stale session's own cleanup must not clobber the one that
	// replaced it.
	m.ClearIfCurrent(s1)

	active, ok := m.Active()
	if !ok || active != s2 {
		t.Errorf("expected s2 to remain active after s1's stale ClearIfCurrent")
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	w := httptest.NewRecorder()
	s, err := newSession(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Close()
	s.Close()
}

func TestSession_SendEndpointWritesExpectedFrame(t *testing.T) {
	w := httptest.NewRecorder()
	s, err := newSession(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.sendEndpoint(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := w.Body.String()
	want := "event: endpoint\ndata: /messages?sessionId=" + s.id + "\n\n"
	if body != want {
		t.Errorf("got %q, want %q", body, want)
	}
}
