// Package transport implements the MCP Transport: a single-session
// JSON-RPC-over-SSE protocol with a companion HTTP POST endpoint for
// client-to-server messages.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errNoFlusher = errors.New("response writer does not support streaming flush")

// keepaliveInterval is the SSE comment-line period that keeps
// intermediary proxies from closing an idle connection.
const keepaliveInterval = 5 * time.Second

// session is one active SSE stream: a response writer the server keeps
// writing JSON-RPC response frames to, plus a keepalive ticker.
type session struct {
	id        string
	w         http.ResponseWriter
	flusher   http.Flusher
	keepalive *time.Ticker
	closed    chan struct{}
	closeOnce sync.Once
}

func newSession(w http.ResponseWriter) (*session, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errNoFlusher
	}
	return &session{
		id:      uuid.NewString(),
		w:       w,
		flusher: flusher,
		closed:  make(chan struct{}),
	}, nil
}

// sendEndpoint writes the mandatory first SSE event, per spec §4.8: the
// client must learn its POST URL before any JSON-RPC frame arrives.
func (s *session) sendEndpoint() error {
	return s.write("endpoint", fmt.Sprintf("/messages?sessionId=%s", s.id))
}

// sendFrame delivers one JSON-RPC response frame, keyed by id on the
// client side.
func (s *session) sendFrame(data []byte) error {
	return s.write("message", string(data))
}

func (s *session) write(event, data string) error {
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// startKeepalive emits a comment-only SSE line every keepaliveInterval
// until the session closes. Comment lines are invisible to JSON-RPC
// frame parsing on the client side.
func (s *session) startKeepalive() {
	s.keepalive = time.NewTicker(keepaliveInterval)
	go func() {
		for {
			select {
			case <-s.keepalive.C:
				if _, err := fmt.Fprint(s.w, ":keepalive\n\n"); err != nil {
					return
				}
				s.flusher.Flush()
			case <-s.closed:
				return
			}
		}
	}()
}

// Close tears the session down. Idempotent and safe to call from both
// the HTTP handler's defer and an explicit DELETE /mcp.
func (s *session) Close() {
	s.closeOnce.Do(func() {
		if s.keepalive != nil {
			s.keepalive.Stop()
		}
		close(s.closed)
	})
}

// sessionManager holds the single process-wide active session. Every
// mutation first tears down whatever session currently exists — the
// "single-session" invariant from spec §5.
type sessionManager struct {
	mu      sync.Mutex
	current *session
}

func newSessionManager() *sessionManager {
	return &sessionManager{}
}

// Replace closes any existing session and installs a new one bound to
// w, returning the new session.
func (m *sessionManager) Replace(w http.ResponseWriter) (*session, error) {
	s, err := newSession(w)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	prev := m.current
	m.current = s
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return s, nil
}

// Active returns the current session, if one exists and has not closed
// out from under the manager.
func (m *sessionManager) Active() (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	select {
	case <-m.current.closed:
		return nil, false
	default:
		return m.current, true
	}
}

// ClearIfCurrent removes s as the active session only if it is still
// the one installed — an older, already-replaced session's own cleanup
// must not clobber a newer session that took its place.
func (m *sessionManager) ClearIfCurrent(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == s {
		m.current = nil
	}
}
