// Package locatortest provides an in-memory locator.Document for tests.
package locatortest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/v0xg/pageobj/internal/locator"
)

// ErrNotFound is returned by interactions on queries with no element
var ErrNotFound = errors.New("locatortest: element not found")

// Element describes how the fake resolves one query
type Element struct {
	// Hidden elements never become visible; WaitVisible blocks until ctx ends.
	Hidden bool
	// Delay postpones visibility, measured from each WaitVisible call.
	Delay time.Duration
	// Err is returned by WaitVisible immediately.
	Err      error
	Disabled bool
	Checked  bool
	Text     string
	Count    int
	Box      locator.Box
}

// Document is a fake browser page keyed by Query.String()
type Document struct {
	// AllVisible makes unknown queries resolve to one visible element.
	AllVisible bool
	// NavigateErr is returned by Navigate when set.
	NavigateErr error
	// Shot is returned by Screenshot.
	Shot []byte

	mu          sync.Mutex
	elements    map[string]Element
	onClick     map[string]func(*Document)
	url         string
	navigations []string
	filled      map[string]string
	clicks      []string
	pointer     [][2]float64
	saved       []string
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

// New returns an empty document
func New() *Document {
	return &Document{
		elements: make(map[string]Element),
		onClick:  make(map[string]func(*Document)),
		filled:   make(map[string]string),
	}
}

// Set registers the element resolved by l
func (d *Document) Set(l locator.Locator, el Element) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[l.Query().String()] = el
	return d
}

// OnClick runs fn after a click on l
func (d *Document) OnClick(l locator.Locator, fn func(*Document)) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClick[l.Query().String()] = fn
	return d
}

// SetURL changes the current URL without recording a navigation
func (d *Document) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// Navigations returns every URL passed to Navigate
func (d *Document) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// Filled returns the value last filled into l
func (d *Document) Filled(l locator.Locator) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.filled[l.Query().String()]
	return v, ok
}

// Clicks returns the queries clicked, in order
func (d *Document) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// PointerClicks returns coordinates passed to ClickAt
func (d *Document) PointerClicks() [][2]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][2]float64(nil), d.pointer...)
}

// SavedStates returns every path passed to SaveState
func (d *Document) SavedStates() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.saved...)
}

// InFlight returns the number of WaitVisible calls currently blocked
func (d *Document) InFlight() int { return int(d.inFlight.Load()) }

// MaxInFlight returns the highest number of concurrent WaitVisible calls seen
func (d *Document) MaxInFlight() int { return int(d.maxInFlight.Load()) }

func (d *Document) lookup(q locator.Query) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[q.String()]
	if !ok && d.AllVisible {
		return Element{Count: 1}, true
	}
	return el, ok
}

func (d *Document) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigations = append(d.navigations, url)
	d.url = url
	return nil
}

func (d *Document) URL(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Document) WaitVisible(ctx context.Context, q locator.Query) error {
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		m := d.maxInFlight.Load()
		if n <= m || d.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	el, ok := d.lookup(q)
	if ok && el.Err != nil {
		return el.Err
	}
	if !ok || el.Hidden {
		<-ctx.Done()
		return ctx.Err()
	}
	if el.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(el.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Document) Visible(_ context.Context, q locator.Query) (bool, error) {
	el, ok := d.lookup(q)
	return ok && !el.Hidden && el.Delay <= 0, nil
}

func (d *Document) Enabled(_ context.Context, q locator.Query) (bool, error) {
	el, ok := d.lookup(q)
	if !ok {
		return false, ErrNotFound
	}
	return !el.Disabled, nil
}

func (d *Document) Checked(_ context.Context, q locator.Query) (bool, error) {
	el, ok := d.lookup(q)
	if !ok {
		return false, ErrNotFound
	}
	return el.Checked, nil
}

func (d *Document) Count(_ context.Context, q locator.Query) (int, error) {
	el, ok := d.lookup(q)
	if !ok {
		return 0, nil
	}
	if el.Count == 0 && !el.Hidden {
		return 1, nil
	}
	return el.Count, nil
}

func (d *Document) Text(_ context.Context, q locator.Query) (string, error) {
	el, ok := d.lookup(q)
	if !ok {
		return "", ErrNotFound
	}
	return el.Text, nil
}

func (d *Document) Fill(_ context.Context, q locator.Query, value string) error {
	el, ok := d.lookup(q)
	if !ok || el.Disabled {
		return ErrNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filled[q.String()] = value
	return nil
}

func (d *Document) Click(_ context.Context, q locator.Query) error {
	el, ok := d.lookup(q)
	if !ok || el.Disabled {
		return ErrNotFound
	}
	d.mu.Lock()
	d.clicks = append(d.clicks, q.String())
	fn := d.onClick[q.String()]
	d.mu.Unlock()
	if fn != nil {
		fn(d)
	}
	return nil
}

func (d *Document) ClickAt(_ context.Context, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pointer = append(d.pointer, [2]float64{x, y})
	return nil
}

func (d *Document) SaveState(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saved = append(d.saved, path)
	return nil
}

func (d *Document) Screenshot(context.Context) ([]byte, error) {
	if d.Shot == nil {
		return nil, locator.ErrUnsupported
	}
	return d.Shot, nil
}

func (d *Document) Box(_ context.Context, q locator.Query) (locator.Box, error) {
	el, ok := d.lookup(q)
	if !ok {
		return locator.Box{}, ErrNotFound
	}
	return el.Box, nil
}

var (
	_ locator.Document       = (*Document)(nil)
	_ locator.StateSaver     = (*Document)(nil)
	_ locator.Screenshotter  = (*Document)(nil)
	_ locator.BoxReader      = (*Document)(nil)
	_ locator.PointerClicker = (*Document)(nil)
)
