package browser

import "github.com/go-rod/rod"

// removeOverlaysJS strips fixed/sticky high-z-index elements and common
// cookie/consent/popup/gdpr markup, clearing the page for a clean
// snapshot or a click that would otherwise land on a banner.
const removeOverlaysJS = `() => {
	const els = document.querySelectorAll('*');
	for (const el of els) {
		const style = window.getComputedStyle(el);
		const pos = style.position;
		if (pos === 'fixed' || pos === 'sticky') {
			const z = parseInt(style.zIndex, 10);
			if (z >= 900 || style.zIndex === 'auto') {
				el.remove();
			}
		}
	}
	const selectors = [
		'[class*="cookie"]', '[class*="consent"]', '[class*="overlay"]',
		'[id*="cookie"]', '[id*="consent"]', '[id*="overlay"]',
		'[class*="popup"]', '[id*="popup"]',
		'[class*="gdpr"]', '[id*="gdpr"]',
	];
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => {
			const s = window.getComputedStyle(el);
			if (s.position === 'fixed' || s.position === 'sticky' || s.position === 'absolute') {
				el.remove();
			}
		});
	}
	document.body.style.overflow = 'auto';
	document.documentElement.style.overflow = 'auto';
}`

func removeOverlays(p *rod.Page) {
	_, _ = p.Eval(removeOverlaysJS)
}
