// Package scaffold inspects a live screen and writes the Go source of a
// locator builder for it.
package scaffold

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/v0xg/pageobj/internal/driver/roddriver"
)

// Element is one visible interactive element found on a screen
type Element struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

// Screen is the inspected structure of one page
type Screen struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Elements []Element `json:"elements"`
}

// Path returns the part of the screen URL after the host, fragment included,
// which is what page objects navigate to.
func (s *Screen) Path() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return ""
	}
	p := u.EscapedPath()
	if f := u.EscapedFragment(); f != "" {
		p += "#" + f
	}
	return p
}

// inspectJS lists visible interactive elements under scope. It runs with the
// resolver helpers (roleSelectors, accessibleName, isVisible) in scope.
const inspectJS = `(scope) => {
	const root = scope ? document.querySelector(scope) : document.body;
	if (!root) return {url: location.href, title: document.title, elements: []};

	function isValidIdent(s) {
		if (!s) return false;
		if (/^-?[0-9]/.test(s)) return false;
		return !/[.:#\[\]()>~+*\/\\]/.test(s);
	}

	function getSelector(el) {
		if (el.id && isValidIdent(el.id)) return '#' + el.id;
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
		if (el.className && typeof el.className === 'string') {
			const classes = el.className.trim().split(/\s+/).filter(isValidIdent).slice(0, 2);
			if (classes.length > 0) {
				const sel = el.tagName.toLowerCase() + '.' + classes.join('.');
				try {
					if (document.querySelectorAll(sel).length === 1) return sel;
				} catch (e) {}
			}
		}
		return '';
	}

	const roles = ['button', 'link', 'textbox', 'checkbox', 'radio', 'combobox', 'heading', 'table'];
	const seen = new Set();
	const elements = [];
	for (const role of roles) {
		for (const el of root.querySelectorAll(roleSelectors[role])) {
			if (seen.has(el) || !isVisible(el)) continue;
			seen.add(el);
			elements.push({role: role, name: accessibleName(el).slice(0, 50), selector: getSelector(el)});
		}
	}
	return {url: location.href, title: document.title, elements: elements};
}`

// Inspect opens url, waits for the screen to settle and lists the visible
// interactive elements inside scope (a CSS selector; empty means the body).
func Inspect(ctx context.Context, doc *roddriver.Document, url, scope string) (*Screen, error) {
	if err := doc.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	doc.Settle(ctx, 500*time.Millisecond, 5*time.Second)

	var s Screen
	if err := doc.Evaluate(ctx, inspectJS, &s, scope); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", url, err)
	}
	return &s, nil
}
