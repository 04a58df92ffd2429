// Package fetch implements the Page Fetcher: a plain HTTP GET with a
// Chrome-like TLS fingerprint, anti-bot challenge detection, and HTML
// cleaning down to reduced text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/shopscout/models"
)

// Page is the output of a fetch: URL, title, raw HTML, and reduced text.
type Page struct {
	URL   string
	Title string
	HTML  string
	Text  string

	// LooksLikeArticle is a weak, readability-density-based signal that
	// this page reads like a single article/product body rather than a
	// thin listing or search-results page. The Orchestrator's visit
	// protocol treats it as one more listing-page hint, never as the
	// primary extraction path.
	LooksLikeArticle bool
}

// minReducedTextLen is the length below which our own tag-stripping text
// reduction is considered too thin to be useful, triggering the
// readability fallback for Text (not for extraction — just for a better
// body to hand the Product Extractor and the relevance gate).
const minReducedTextLen = 200

// Fetcher performs GET requests with a desktop-browser fingerprint.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
}

// chromeH1Spec pins utls to a Chrome ClientHello with ALPN forced to
// http/1.1, so Go's http.Transport (which cannot speak utls-negotiated
// HTTP/2 framing) never sees an h2 connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// New builds a Fetcher with the given per-request timeout and body cap.
func New(timeout time.Duration, maxBodyBytes int64) *Fetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetch: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch performs the GET, following redirects, and returns the cleaned
// page. Errors are wrapped in models.ToolError with the appropriate kind
// so callers (the Orchestrator's visit protocol) can branch without
// regexing messages.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, models.NewToolError(models.ErrBadInput, "invalid URL", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.NewToolError(models.ErrTimeout, "fetch timed out", err)
		}
		return nil, models.NewToolError(models.ErrHTTPError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewToolError(models.ErrHTTPError, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, models.NewToolError(models.ErrHTTPError, "read body failed", err)
	}
	raw := string(body)

	if isChallengeBody(raw) {
		return nil, models.NewToolError(models.ErrBlockedByChallenge, "anti-bot challenge detected", nil)
	}

	cleaned := stripNoiseTags(raw)
	text := reduceToText(cleaned)
	title := extractTitle(raw)
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	articleText, looksLikeArticle := articleSignal(raw, finalURL)
	if len(strings.TrimSpace(text)) < minReducedTextLen && articleText != "" {
		text = articleText
	}

	return &Page{URL: finalURL, Title: title, HTML: raw, Text: text, LooksLikeArticle: looksLikeArticle}, nil
}

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
