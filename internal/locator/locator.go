// Package locator provides lazily-resolved element handles and the ordered
// maps that page objects use to name them.
//
// Building a Locator never touches the browser. Only the action methods
// (WaitVisible, Click, Fill, ...) resolve the query against the Document.
package locator

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Locator pairs a Document with a Query
type Locator struct {
	doc   Document
	query Query
}

// Root returns the locator for the whole document
func Root(doc Document) Locator {
	return Locator{doc: doc}
}

// New returns a locator for q on doc
func New(doc Document, q Query) Locator {
	return Locator{doc: doc, query: q}
}

// Document returns the document this locator resolves against
func (l Locator) Document() Document { return l.doc }

// Query returns the step chain of l
func (l Locator) Query() Query { return l.query }

func (l Locator) String() string { return l.query.String() }

func (l Locator) with(s Step) Locator {
	return Locator{doc: l.doc, query: l.query.Append(s)}
}

// Locator narrows l to descendants matching a CSS selector
func (l Locator) Locator(css string) Locator {
	return l.with(Step{Kind: StepCSS, Selector: css})
}

// RoleOption refines a GetByRole step
type RoleOption func(*Step)

// Name restricts the role match to elements whose accessible name contains s
func Name(s string) RoleOption {
	return func(st *Step) { st.Name = Substring(s) }
}

// NameMatching restricts the role match by regular expression on the accessible name
func NameMatching(re *regexp.Regexp) RoleOption {
	return func(st *Step) { st.Name = Matching(re) }
}

// Exact makes a preceding Name option compare the whole accessible name
func Exact() RoleOption {
	return func(st *Step) {
		if st.Name != nil {
			st.Name.Exact = true
		}
	}
}

// Checked restricts the role match to checkable elements in the given state
func Checked(v bool) RoleOption {
	return func(st *Step) { st.Checked = &v }
}

// GetByRole narrows l to descendants with an ARIA role (explicit or implicit)
func (l Locator) GetByRole(role string, opts ...RoleOption) Locator {
	st := Step{Kind: StepRole, Role: role}
	for _, opt := range opts {
		opt(&st)
	}
	return l.with(st)
}

// GetByText narrows l to descendants whose text contains text
func (l Locator) GetByText(text string) Locator {
	return l.GetByTextMatch(Substring(text))
}

// GetByTextMatch narrows l to descendants whose text satisfies m
func (l Locator) GetByTextMatch(m *TextMatch) Locator {
	return l.with(Step{Kind: StepText, Text: m})
}

// FilterOptions keeps or drops matched elements by their text content
type FilterOptions struct {
	HasText    *TextMatch
	HasNotText *TextMatch
}

// Filter keeps the currently matched elements that satisfy opts
func (l Locator) Filter(opts FilterOptions) Locator {
	return l.with(Step{Kind: StepFilter, HasText: opts.HasText, HasNot: opts.HasNotText})
}

// Nth keeps the i-th matched element (zero based; negative counts from the end)
func (l Locator) Nth(i int) Locator {
	return l.with(Step{Kind: StepNth, Index: i})
}

// First keeps the first matched element
func (l Locator) First() Locator { return l.with(Step{Kind: StepFirst}) }

// Last keeps the last matched element
func (l Locator) Last() Locator { return l.with(Step{Kind: StepLast}) }

// WaitVisible blocks until the element is visible. A positive timeout bounds
// the wait in addition to ctx.
func (l Locator) WaitVisible(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := l.doc.WaitVisible(ctx, l.query); err != nil {
		return fmt.Errorf("wait visible %s: %w", l, err)
	}
	return nil
}

// IsVisible reports whether the element is currently visible
func (l Locator) IsVisible(ctx context.Context) (bool, error) {
	return l.doc.Visible(ctx, l.query)
}

// IsEnabled reports whether the element is enabled
func (l Locator) IsEnabled(ctx context.Context) (bool, error) {
	return l.doc.Enabled(ctx, l.query)
}

// IsChecked reports whether the element is checked
func (l Locator) IsChecked(ctx context.Context) (bool, error) {
	return l.doc.Checked(ctx, l.query)
}

// Count returns how many elements currently match
func (l Locator) Count(ctx context.Context) (int, error) {
	return l.doc.Count(ctx, l.query)
}

// Text returns the trimmed text content of the element
func (l Locator) Text(ctx context.Context) (string, error) {
	return l.doc.Text(ctx, l.query)
}

// Fill replaces the value of an input element
func (l Locator) Fill(ctx context.Context, value string) error {
	return l.doc.Fill(ctx, l.query, value)
}

// Click clicks the element
func (l Locator) Click(ctx context.Context) error {
	return l.doc.Click(ctx, l.query)
}

// All returns one locator per currently matched element, each pinned with Nth.
func (l Locator) All(ctx context.Context) ([]Locator, error) {
	n, err := l.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Locator, n)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}
