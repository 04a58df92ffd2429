package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	Search       SearchConfig
	Fetch        FetchConfig
	Browser      BrowserConfig
	Orchestrator OrchestratorConfig
	Log          LogConfig
}

// ServerConfig controls the MCP Transport's HTTP listener.
type ServerConfig struct {
	Host string // default: "127.0.0.1"
	Port int    // default: 8787
	Mode string // "debug", "release", "test"; default: "release"
}

// SearchConfig controls the Search Fallback Engine.
type SearchConfig struct {
	// ProviderTimeout is the per-provider HTTP abort deadline.
	ProviderTimeout time.Duration // default: 20s

	// CooldownDuration is loaded from SHOPSCOUT_SEARCH_COOLDOWN but not
	// read by the search package, whose cooldown store always skips a
	// rate-limited provider for 60s.
	CooldownDuration time.Duration // default: 60s
}

// FetchConfig controls the Page Fetcher.
type FetchConfig struct {
	// Timeout is the per-fetch abort deadline.
	Timeout time.Duration // default: 12s

	// MaxBodyBytes caps the response body size read into memory.
	MaxBodyBytes int64 // default: 10MB
}

// BrowserConfig controls the Driven Browser Runtime.
type BrowserConfig struct {
	// Headless is loaded from SHOPSCOUT_HEADLESS but not read: browser_start
	// takes headless as a tool argument (default true), and the
	// orchestrator's browser fallback always starts headless.
	Headless bool // default: true

	// DefaultOpTimeout is the default per-operation timeout.
	DefaultOpTimeout time.Duration // default: 15s

	// NavigationTimeout bounds start/open navigation.
	NavigationTimeout time.Duration // default: 30s

	// BlockedResourceTypes lists resource types hijacked and dropped
	// to speed up rendering. default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string

	// NoSandbox disables Chrome's sandbox (needed in containers).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// OrchestratorConfig controls the Research Orchestrator.
type OrchestratorConfig struct {
	// VisitBudget is loaded from SHOPSCOUT_VISIT_BUDGET but not read: the
	// orchestrator caps page visits per request with its own constant (15).
	VisitBudget int // default: 15

	// MaxResults is loaded from SHOPSCOUT_MAX_RESULTS but not read: the
	// orchestrator always returns at most 3 ProductOptions.
	MaxResults int // default: 3

	// SSEReconnectGrace is loaded from SHOPSCOUT_SSE_RECONNECT_GRACE but
	// not read: POST /messages waits for a session to reappear for the
	// transport's own fixed 5s before failing NoActiveSession.
	SSEReconnectGrace time.Duration // default: 5s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MCP_HOST", "127.0.0.1"),
			Port: envIntOr("MCP_PORT", 8787),
			Mode: envOr("SHOPSCOUT_MODE", "release"),
		},
		Search: SearchConfig{
			ProviderTimeout:   envDurationOr("SHOPSCOUT_SEARCH_TIMEOUT", 20*time.Second),
			CooldownDuration:  envDurationOr("SHOPSCOUT_SEARCH_COOLDOWN", 60*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("SHOPSCOUT_FETCH_TIMEOUT", 12*time.Second),
			MaxBodyBytes: int64(envIntOr("SHOPSCOUT_FETCH_MAX_BYTES", 10*1024*1024)),
		},
		Browser: BrowserConfig{
			Headless:          envBoolOr("SHOPSCOUT_HEADLESS", true),
			DefaultOpTimeout:  envDurationOr("SHOPSCOUT_BROWSER_OP_TIMEOUT", 15*time.Second),
			NavigationTimeout: envDurationOr("SHOPSCOUT_BROWSER_NAV_TIMEOUT", 30*time.Second),
			BlockedResourceTypes: envSliceOr("SHOPSCOUT_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
			NoSandbox:  envBoolOr("SHOPSCOUT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("SHOPSCOUT_BROWSER_BIN"),
		},
		Orchestrator: OrchestratorConfig{
			VisitBudget:       envIntOr("SHOPSCOUT_VISIT_BUDGET", 15),
			MaxResults:        envIntOr("SHOPSCOUT_MAX_RESULTS", 3),
			SSEReconnectGrace: envDurationOr("SHOPSCOUT_SSE_RECONNECT_GRACE", 5*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("SHOPSCOUT_LOG_LEVEL", "info"),
			Format: envOr("SHOPSCOUT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
