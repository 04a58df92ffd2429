package browser

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/shopscout/models"
)

// whitespaceBeforeNewline and excessBlankLines implement the snapshot
// text-cleaning pass required by spec: collapse trailing whitespace
// before a line break, then collapse runs of 3+ newlines to a single
// blank line.
var (
	whitespaceBeforeNewline = regexp.MustCompile(`\s+\n`)
	excessBlankLines        = regexp.MustCompile(`\n{3,}`)
)

func cleanSnapshotText(s string) string {
	s = whitespaceBeforeNewline.ReplaceAllString(s, "\n")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return s
}

// Click clicks the first element matching selector, optionally waiting
// for a subsequent navigation to settle.
func (r *Runtime) Click(ctx context.Context, selector string, waitForNavigation bool, timeout time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pageLocked()
	if err != nil {
		return err
	}
	p = p.Context(ctx).Timeout(timeout)
	el, err := p.Element(selector)
	if err != nil {
		return models.NewToolError(models.ErrGeneric, fmt.Sprintf("element not found: %s", selector), err)
	}

	var wait func()
	if waitForNavigation {
		wait = p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return models.NewToolError(models.ErrGeneric, "click failed", err)
	}
	if wait != nil {
		wait()
	}
	removeOverlays(p)
	return nil
}

// Type focuses the first element matching selector and inputs text,
// clearing any existing value first unless appendText is set, then
// optionally presses Enter to submit.
func (r *Runtime) Type(ctx context.Context, selector, text string, appendText, pressEnter bool, timeout time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pageLocked()
	if err != nil {
		return err
	}
	p = p.Context(ctx).Timeout(timeout)
	el, err := p.Element(selector)
	if err != nil {
		return models.NewToolError(models.ErrGeneric, fmt.Sprintf("element not found: %s", selector), err)
	}

	if !appendText {
		if err := el.SelectAllText(); err == nil {
			_ = el.Input("")
		}
	}
	if err := el.Input(text); err != nil {
		return models.NewToolError(models.ErrGeneric, "type failed", err)
	}
	if pressEnter {
		if err := el.Type(input.Enter); err != nil {
			return models.NewToolError(models.ErrGeneric, "enter key press failed", err)
		}
	}
	return nil
}

// SelectOption holds the tool-level contract: exactly one of Value,
// Label, Index is non-nil.
type SelectOption struct {
	Value *string
	Label *string
	Index *int
}

// Select sets a <select> element's chosen option by value, visible
// label, or zero-based index.
func (r *Runtime) Select(ctx context.Context, selector string, opt SelectOption, timeout time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pageLocked()
	if err != nil {
		return err
	}
	p = p.Context(ctx).Timeout(timeout)
	el, err := p.Element(selector)
	if err != nil {
		return models.NewToolError(models.ErrGeneric, fmt.Sprintf("element not found: %s", selector), err)
	}

	switch {
	case opt.Value != nil:
		err = el.Select([]string{*opt.Value}, true, rod.SelectorTypeCSSSector)
	case opt.Label != nil:
		err = el.Select([]string{*opt.Label}, true, rod.SelectorTypeText)
	case opt.Index != nil:
		_, evalErr := el.Eval(fmt.Sprintf(`() => {
			this.selectedIndex = %d;
			this.dispatchEvent(new Event('change', { bubbles: true }));
		}`, *opt.Index))
		err = evalErr
	default:
		return models.NewToolError(models.ErrBadInput, "exactly one of value, label, index must be set", nil)
	}
	if err != nil {
		return models.NewToolError(models.ErrGeneric, "select failed", err)
	}
	return nil
}

// Scroll moves the viewport either relatively ("by", default 0,700) or
// to an absolute document position ("to").
func (r *Runtime) Scroll(ctx context.Context, mode string, x, y float64, timeout time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pageLocked()
	if err != nil {
		return err
	}
	p = p.Context(ctx).Timeout(timeout)

	if mode == "to" {
		_, err := p.Eval(fmt.Sprintf(`() => window.scrollTo(%f, %f)`, x, y))
		if err != nil {
			return models.NewToolError(models.ErrGeneric, "scroll-to failed", err)
		}
		return nil
	}
	if err := p.Mouse.Scroll(x, y, 1); err != nil {
		return models.NewToolError(models.ErrGeneric, "scroll failed", err)
	}
	return nil
}

// WaitFor blocks until selector appears, or timeout elapses.
func (r *Runtime) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pageLocked()
	if err != nil {
		return err
	}
	_, err = p.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return models.NewToolError(models.ErrTimeout, fmt.Sprintf("selector did not appear: %s", selector), err)
	}
	return nil
}

// maxSnapshotBytes bounds snapshot HTML so a single pathological page
// cannot blow the MCP response frame; truncation lands on a rune
// boundary, never mid-codepoint.
const maxSnapshotBytes = 2_000_000

// Snapshot returns the current page's URL, title, cleaned text (capped
// at maxTextChars runes), and optionally the raw HTML.
func (r *Runtime) Snapshot(ctx context.Context, includeHTML bool, maxTextChars int, timeout time.Duration) (models.PageContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.pageLocked()
	if err != nil {
		return models.PageContent{}, err
	}
	p = p.Context(ctx).Timeout(timeout)

	info, err := p.Info()
	if err != nil {
		return models.PageContent{}, models.NewToolError(models.ErrGeneric, "failed to read page info", err)
	}

	html, err := p.HTML()
	if err != nil {
		return models.PageContent{}, models.NewToolError(models.ErrGeneric, "failed to read page HTML", err)
	}
	html = truncateToBytes(html, maxSnapshotBytes)

	var text string
	if res, err := p.Eval(`() => document.body.innerText`); err == nil {
		text = res.Value.Str()
	}
	text = cleanSnapshotText(text)
	text = truncateToRunes(text, maxTextChars)

	out := models.PageContent{URL: info.URL, Title: info.Title, Text: text}
	if includeHTML {
		out.HTML = html
	}
	return out, nil
}

func truncateToBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !isRuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func truncateToRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}

func (r *Runtime) pageLocked() (*rod.Page, error) {
	if r.page == nil {
		return nil, models.NewToolError(models.ErrNoSession, "no active browser session; call browser_start first", nil)
	}
	return r.page, nil
}
