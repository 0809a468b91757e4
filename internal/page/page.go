// Package page composes Components into navigable Pages.
package page

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
)

// State tracks the last navigation of a Page
type State int

const (
	Unattached State = iota
	Loading
	Verifying
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Loading:
		return "loading"
	case Verifying:
		return "verifying"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Precedence decides which side wins when the page and a component declare
// the same locator key. Components always override each other in order.
type Precedence int

const (
	// ComponentsOverride merges the page's own map first, then each component.
	ComponentsOverride Precedence = iota
	// PageOverrides merges every component first and the page's own map last.
	PageOverrides
)

func (p Precedence) String() string {
	if p == PageOverrides {
		return "page-overrides"
	}
	return "components-override"
}

const pageSource = "page"

// Page is a navigable screen made of zero or more Components
type Page struct {
	doc        locator.Document
	url        string
	components []Component
	onLoadB    locator.Builder
	extraB     locator.Builder
	precedence Precedence
	timeout    time.Duration
	logger     *zap.Logger

	onLoad     *locator.Map
	locators   *locator.Map
	collisions []locator.Collision

	mu          sync.Mutex
	dynamicPath string
	state       State
}

// Option configures a Page at construction
type Option func(*Page)

// WithLocators declares the page's own locator builders, evaluated against
// the document root. extra may be nil.
func WithLocators(onLoad, extra locator.Builder) Option {
	return func(p *Page) {
		p.onLoadB = onLoad
		p.extraB = extra
	}
}

// WithComponents appends components in merge order
func WithComponents(cs ...Component) Option {
	return func(p *Page) { p.components = append(p.components, cs...) }
}

// WithPrecedence selects the page/component merge order
func WithPrecedence(pr Precedence) Option {
	return func(p *Page) { p.precedence = pr }
}

// WithTimeout sets the visibility timeout used when a call passes zero
func WithTimeout(d time.Duration) Option {
	return func(p *Page) { p.timeout = d }
}

// WithLogger sets the logger; the default discards everything
func WithLogger(l *zap.Logger) Option {
	return func(p *Page) { p.logger = l }
}

// New builds a Page for url on doc and merges the locator maps of the page
// and its components.
func New(doc locator.Document, url string, opts ...Option) *Page {
	p := &Page{
		doc:     doc,
		url:     url,
		onLoadB: locator.Empty,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.onLoadB == nil {
		p.onLoadB = locator.Empty
	}

	root := locator.Root(doc)
	var onLoadCollisions []locator.Collision
	p.onLoad, onLoadCollisions = p.merge(p.onLoadB(root), Component.OnLoadLocators)
	p.locators, p.collisions = p.merge(locator.Expand(p.onLoadB, p.extraB)(root), Component.Locators)
	for _, c := range onLoadCollisions {
		if !containsCollision(p.collisions, c) {
			p.collisions = append(p.collisions, c)
		}
	}
	for _, c := range p.collisions {
		p.logger.Debug("locator key shadowed",
			zap.String("url", url),
			zap.String("key", c.Key),
			zap.String("shadowed", c.Shadowed),
			zap.String("winner", c.Winner),
			zap.Stringer("precedence", p.precedence))
	}
	return p
}

func containsCollision(cs []locator.Collision, c locator.Collision) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

func (p *Page) merge(base *locator.Map, pick func(Component) *locator.Map) (*locator.Map, []locator.Collision) {
	sources := make([]locator.Source, 0, len(p.components)+1)
	own := locator.Source{Label: pageSource, Map: base}
	if p.precedence == ComponentsOverride {
		sources = append(sources, own)
	}
	for i, c := range p.components {
		sources = append(sources, locator.Source{
			Label: fmt.Sprintf("component[%d] %T", i, c),
			Map:   pick(c),
		})
	}
	if p.precedence == PageOverrides {
		sources = append(sources, own)
	}
	return locator.Merge(sources...)
}

// MergeLocators folds base with every component's full locator map using the
// page's precedence.
func (p *Page) MergeLocators(base *locator.Map) *locator.Map {
	m, _ := p.merge(base, Component.Locators)
	return m
}

// MergeOnLoadLocators folds base with every component's on-load map using
// the page's precedence.
func (p *Page) MergeOnLoadLocators(base *locator.Map) *locator.Map {
	m, _ := p.merge(base, Component.OnLoadLocators)
	return m
}

// Document returns the document the page is bound to
func (p *Page) Document() locator.Document { return p.doc }

// Root returns a locator for the whole document
func (p *Page) Root() locator.Locator { return locator.Root(p.doc) }

// URL returns the declared base URL
func (p *Page) URL() string { return p.url }

// Components returns the child components in merge order
func (p *Page) Components() []Component {
	return append([]Component(nil), p.components...)
}

// OnLoadLocators returns the merged on-load map
func (p *Page) OnLoadLocators() *locator.Map { return p.onLoad }

// Locators returns the merged full map
func (p *Page) Locators() *locator.Map { return p.locators }

// Collisions returns every key shadowed while merging
func (p *Page) Collisions() []locator.Collision {
	return append([]locator.Collision(nil), p.collisions...)
}

// Precedence returns the merge policy
func (p *Page) Precedence() Precedence { return p.precedence }

// DynamicPath returns the path suffix set by the last Goto that supplied one
func (p *Page) DynamicPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dynamicPath
}

// ResetDynamicPath clears the path suffix
func (p *Page) ResetDynamicPath() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dynamicPath = ""
}

// FullURL returns the base URL plus the dynamic path, if any
func (p *Page) FullURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fullURL()
}

func (p *Page) fullURL() string {
	if p.dynamicPath == "" {
		return p.url
	}
	return strings.TrimSuffix(p.url, "/") + "/" + p.dynamicPath
}

// State returns the state of the last navigation
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Page) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// WaitLoading waits until every merged on-load locator is visible.
// A zero timeout falls back to the page's WithTimeout value, then to
// locator.DefaultTimeout.
func (p *Page) WaitLoading(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = p.timeout
	}
	return locator.WaitAllVisible(ctx, p.onLoad, timeout)
}

// JoinURL appends a screen route to a base URL, e.g.
// JoinURL("http://host/", "/vue-element-admin/#/dashboard").
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
