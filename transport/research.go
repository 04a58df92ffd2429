package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/shopscout/models"
)

// ResearchRunner is the subset of orchestrator.Orchestrator the transport
// needs. Declared locally, same as ToolDispatcher, so transport has no
// compile-time dependency on the orchestrator package.
type ResearchRunner interface {
	Research(ctx context.Context, prompt string) (<-chan string, func() ([]models.ProductOption, error))
}

type researchRequest struct {
	Prompt string `json:"prompt"`
}

// RegisterResearch wires POST /research, the runtime's own top-level
// entrypoint for a user's shopping prompt — distinct from the MCP tool
// surface, since the Research Orchestrator composes tool-equivalent
// operations itself rather than being called as a tool.
func (s *Server) RegisterResearch(runner ResearchRunner) {
	s.engine.POST("/research", func(c *gin.Context) {
		var req researchRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		updates, wait := runner.Research(c.Request.Context(), req.Prompt)
		for line := range updates {
			writeResearchSSE(c, "research-update", line)
		}

		options, err := wait()
		if err != nil {
			writeResearchSSE(c, "research-failed", gin.H{"error": err.Error()})
			return
		}
		writeResearchSSE(c, "research-completed", gin.H{"options": options})
	})
}

func writeResearchSSE(c *gin.Context, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
	c.Writer.Flush()
}
