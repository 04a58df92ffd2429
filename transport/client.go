package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// clientRequestTimeout is how long the client waits for a pending
// request's response frame before failing it locally.
const clientRequestTimeout = 60 * time.Second

// Client is a minimal SSE/POST client implementing the §4.8 contract:
// monotone request ids, a pending table keyed by string(id), and an
// initial handshake scan for the `endpoint` event before any JSON-RPC
// frame is processed.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	nextID    int64
	sessionID string
	pending   map[string]chan rpcResponse

	ready chan struct{}
}

// NewClient dials baseURL's GET /mcp stream in the background and
// returns once the endpoint handshake has captured a session id.
func NewClient(ctx context.Context, baseURL string) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		pending:    map[string]chan rpcResponse{},
		ready:      make(chan struct{}),
	}

	resp, err := c.openStream(ctx)
	if err != nil {
		return nil, err
	}
	go c.readLoop(resp.Body)

	select {
	case <-c.ready:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) openStream(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/mcp", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	return c.httpClient.Do(req)
}

// readLoop scans raw bytes for the endpoint handshake line before
// switching to SSE frame processing, per spec §4.8.
func (c *Client) readLoop(body io.ReadCloser) {
	defer body.Close()
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	handshakeDone := false
	var dataLine string

	for scanner.Scan() {
		line := scanner.Text()

		if !handshakeDone {
			if strings.HasPrefix(line, "data: /messages?sessionId=") {
				c.mu.Lock()
				c.sessionID = strings.TrimPrefix(line, "data: /messages?sessionId=")
				c.mu.Unlock()
				handshakeDone = true
				close(c.ready)
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue // keepalive comment
		}
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
			continue
		}
		if line == "" && dataLine != "" {
			c.deliver(dataLine)
			dataLine = ""
		}
	}
}

func (c *Client) deliver(raw string) {
	var frame rpcResponse
	if err := json.Unmarshal([]byte(raw), &frame); err != nil {
		return
	}
	key := string(frame.ID)

	c.mu.Lock()
	ch, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.mu.Unlock()

	if ok {
		ch <- frame
	}
}

// Call sends a JSON-RPC request and waits for its response frame on the
// SSE stream, rejecting after clientRequestTimeout.
func (c *Client) Call(ctx context.Context, method string, params any) (any, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	sessionID := c.sessionID
	c.mu.Unlock()

	idBytes := []byte(strconv.FormatInt(id, 10))
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	req := rpcRequest{JSONRPC: "2.0", ID: idBytes, Method: method, Params: paramsBytes}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	respCh := make(chan rpcResponse, 1)
	key := string(idBytes)
	c.mu.Lock()
	c.pending[key] = respCh
	c.mu.Unlock()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/messages?sessionId=%s", c.baseURL, sessionID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		return nil, err
	}
	resp.Body.Close()

	timer := time.NewTimer(clientRequestTimeout)
	defer timer.Stop()

	select {
	case frame := <-respCh:
		if frame.Error != nil {
			return nil, fmt.Errorf("%s", frame.Error.Message)
		}
		return frame.Result, nil
	case <-timer.C:
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		return nil, fmt.Errorf("json-rpc call %q timed out after %s", method, clientRequestTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ListTools calls tools/list.
func (c *Client) ListTools(ctx context.Context) (any, error) {
	return c.Call(ctx, "tools/list", map[string]any{})
}

// CallTool calls tools/call with the given name and arguments.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	return c.Call(ctx, "tools/call", map[string]any{"name": name, "arguments": args})
}
