// Package browser implements the Driven Browser Runtime: a single-page,
// single-session go-rod driver exposing start/open/click/type/select/
// scroll/waitFor/snapshot/close. At most one browser process, context,
// and page exist at a time; starting a new session tears down the old
// one, ignoring cleanup failures.
package browser

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/stealth"
	"github.com/use-agent/shopscout/config"
	"github.com/use-agent/shopscout/models"
)

// Runtime owns the single active browser/page pair and serializes every
// operation through mu, matching the spec's single-threaded cooperative
// scheduling model for browser interactions.
type Runtime struct {
	mu      sync.Mutex
	cfg     config.BrowserConfig
	browser *rod.Browser
	page    *rod.Page
	hijack  *rod.HijackRouter
	logger  *slog.Logger
}

// New returns a Runtime with no active session.
func New(cfg config.BrowserConfig, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{cfg: cfg, logger: logger}
}

// HasSession reports whether start() has been called without a
// subsequent close().
func (r *Runtime) HasSession() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page != nil
}

// Start launches a fresh browser, tearing down any prior session first,
// and optionally navigates to startURL.
func (r *Runtime) Start(startURL string, headless bool, timeout time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked()

	l := launcher.New().Headless(headless).NoSandbox(r.cfg.NoSandbox)
	if r.cfg.BrowserBin != "" {
		l = l.Bin(r.cfg.BrowserBin)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("disable-dev-shm-usage"))

	controlURL, err := l.Launch()
	if err != nil {
		return "", models.NewToolError(models.ErrGeneric, "failed to launch browser", err)
	}

	br := rod.New().ControlURL(controlURL)
	if err := br.Connect(); err != nil {
		return "", models.NewToolError(models.ErrGeneric, "failed to connect to browser", err)
	}

	stealthPage, err := stealth.Page(br)
	if err != nil {
		br.MustClose()
		return "", models.NewToolError(models.ErrGeneric, "failed to create stealth page", err)
	}

	r.browser = br
	r.page = stealthPage
	r.hijack = setupHijack(r.page, r.cfg.BlockedResourceTypes)

	if startURL == "" {
		return "", nil
	}

	if err := r.navigateLocked(startURL, timeout); err != nil {
		return "", err
	}
	return startURL, nil
}

// Open navigates the current page. Fails NoSession if Start was never
// called.
func (r *Runtime) Open(url string, timeout time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.page == nil {
		return models.NewToolError(models.ErrNoSession, "browser_open called before browser_start", nil)
	}
	return r.navigateLocked(url, timeout)
}

func (r *Runtime) navigateLocked(url string, timeout time.Duration) error {
	p := r.page.Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return models.NewToolError(models.ErrGeneric, "navigation failed", err)
	}
	if err := p.WaitDOMStable(500*time.Millisecond, 0); err != nil {
		r.logger.Warn("dom-stable wait failed, continuing", "url", url, "error", err)
	}
	removeOverlays(p)
	return nil
}

// Close tears down the session. Idempotent: calling it twice, or on a
// Runtime that never started, never fails.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *Runtime) closeLocked() {
	if r.hijack != nil {
		_ = r.hijack.Stop()
		r.hijack = nil
	}
	if r.page != nil {
		_ = r.page.Close()
		r.page = nil
	}
	if r.browser != nil {
		_ = r.browser.Close()
		r.browser = nil
	}
}
