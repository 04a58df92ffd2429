package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/shopscout/models"
)

// ToolDispatcher is the subset of tools.Registry the transport needs.
// Declared locally so transport has no compile-time dependency on the
// tools package's construction details.
type ToolDispatcher interface {
	List() []mcp.Tool
	Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
}

// reconnectGrace bounds how long POST /messages waits for a session to
// reappear before failing NoActiveSession.
const reconnectGrace = 5 * time.Second
const reconnectPoll = 500 * time.Millisecond

// Server wires the gin engine exposing GET/DELETE /mcp, POST /messages,
// and GET /health.
type Server struct {
	engine     *gin.Engine
	sessions   *sessionManager
	dispatcher ToolDispatcher
	logger     *slog.Logger
	startTime  time.Time
}

// NewServer builds a configured gin engine. mode is gin's run mode
// ("debug", "release", "test").
func NewServer(dispatcher ToolDispatcher, mode string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(mode)

	s := &Server{
		engine:     gin.New(),
		sessions:   newSessionManager(),
		dispatcher: dispatcher,
		logger:     logger,
		startTime:  time.Now(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(gin.Logger())
	s.engine.Use(corsMiddleware())

	s.engine.GET("/mcp", s.handleSSE)
	s.engine.DELETE("/mcp", s.handleDelete)
	s.engine.POST("/messages", rateLimitMiddleware(20, 40), s.handleMessage)
	s.engine.GET("/health", s.handleHealth)

	return s
}

// Engine exposes the underlying gin engine for http.Server wiring.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// corsMiddleware matches spec §4.8's fixed CORS policy: any origin,
// the four verbs this API exposes, and the two headers a JSON-RPC
// client needs to set.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS,DELETE")
		c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// handleSSE opens a new SSE stream, replacing any existing session,
// and blocks until the client disconnects or the session is closed
// (replaced by a newer GET /mcp or torn down by DELETE /mcp).
func (s *Server) handleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sess, err := s.sessions.Replace(c.Writer)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	defer func() {
		sess.Close()
		s.sessions.ClearIfCurrent(sess)
	}()

	if err := sess.sendEndpoint(); err != nil {
		return
	}
	sess.startKeepalive()

	select {
	case <-c.Request.Context().Done():
	case <-sess.closed:
	}
}

// handleDelete tears down the active session. 404 if none exists.
func (s *Server) handleDelete(c *gin.Context) {
	active, ok := s.sessions.Active()
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	active.Close()
	s.sessions.ClearIfCurrent(active)
	c.Status(http.StatusOK)
}

// handleMessage accepts a JSON-RPC request, dispatches it, and delivers
// the response over the active SSE stream, not in the POST body. The one
// exception is the no-active-session failure: with no stream to carry
// it, that error frame is written as the POST response body.
func (s *Server) handleMessage(c *gin.Context) {
	requestedSessionID := c.Query("sessionId")

	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON-RPC request body"})
		return
	}

	active, ok := s.awaitSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, errorFrame(req.ID, -32002, "no active session"))
		return
	}
	if active.id != requestedSessionID {
		s.logger.Warn("session id mismatch on POST /messages, routing to active session anyway",
			"requested", requestedSessionID, "active", active.id)
	}

	go s.dispatch(c.Request.Context(), active, req)
	c.Status(http.StatusAccepted)
}

// awaitSession polls for up to reconnectGrace for a session to exist,
// covering the brief window after a client reconnects where GET /mcp
// hasn't yet replaced the session the POST references.
func (s *Server) awaitSession(ctx context.Context) (*session, bool) {
	if active, ok := s.sessions.Active(); ok {
		return active, true
	}

	deadline := time.Now().Add(reconnectGrace)
	ticker := time.NewTicker(reconnectPoll)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, false
		case <-ticker.C:
			if active, ok := s.sessions.Active(); ok {
				return active, true
			}
		}
	}
	return nil, false
}

func (s *Server) dispatch(ctx context.Context, sess *session, req rpcRequest) {
	var frame rpcResponse

	switch req.Method {
	case "tools/list":
		frame = resultFrame(req.ID, map[string]any{"tools": s.dispatcher.List()})
	case "tools/call":
		var params toolsCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			frame = errorFrame(req.ID, -32602, "invalid params")
			break
		}
		result, err := s.dispatcher.Call(ctx, params.Name, params.Arguments)
		if err != nil {
			frame = toolErrorFrame(req.ID, err)
			break
		}
		frame = resultFrame(req.ID, result)
	default:
		frame = errorFrame(req.ID, -32601, fmt.Sprintf("unknown method: %s", req.Method))
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	_ = sess.sendFrame(data)
}

// toolErrorFrame maps a tool call's ToolError onto a JSON-RPC error
// using its closed error-code set; an error of any other shape is
// treated as an opaque internal failure.
func toolErrorFrame(id json.RawMessage, err error) rpcResponse {
	var toolErr *models.ToolError
	if te, ok := err.(*models.ToolError); ok {
		toolErr = te
	}
	if toolErr == nil {
		return errorFrame(id, -32000, err.Error())
	}
	return errorFrame(id, toolErr.ToJSONRPCCode(), toolErr.ToDetail().Message)
}

// serverVersion is bumped by hand on release; there's no build-stamping
// step in this module yet.
const serverVersion = "0.1.0"

func (s *Server) handleHealth(c *gin.Context) {
	active, hasActive := s.sessions.Active()
	resp := gin.H{
		"ok":                 true,
		"activeSessionId":    nil,
		"hasActiveTransport": hasActive,
		"sseConnectionAlive": hasActive,
		"uptime":             time.Since(s.startTime).String(),
		"version":            serverVersion,
	}
	if active != nil {
		resp["activeSessionId"] = active.id
	}
	c.JSON(http.StatusOK, resp)
}
