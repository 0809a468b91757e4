package page

import (
	"context"
	"time"

	"github.com/v0xg/pageobj/internal/locator"
)

// Component is a screen fragment: a container scope plus the locators that
// live under it.
type Component interface {
	Container() locator.Locator
	OnLoadLocators() *locator.Map
	Locators() *locator.Map
	WaitLoading(ctx context.Context, timeout time.Duration) error
}

// Fragment is the stock Component implementation. Concrete components embed
// it and add their own interaction helpers.
type Fragment struct {
	container locator.Locator
	onLoad    *locator.Map
	locators  *locator.Map
}

// NewFragment builds both locator maps once against container.
// extra may be nil when the component has no interaction-revealed elements.
func NewFragment(container locator.Locator, onLoad, extra locator.Builder) *Fragment {
	if onLoad == nil {
		onLoad = locator.Empty
	}
	return &Fragment{
		container: container,
		onLoad:    onLoad(container),
		locators:  locator.Expand(onLoad, extra)(container),
	}
}

// Container returns the scope every locator of f is built from
func (f *Fragment) Container() locator.Locator { return f.container }

// OnLoadLocators returns elements expected right after the fragment appears
func (f *Fragment) OnLoadLocators() *locator.Map { return f.onLoad }

// Locators returns every known element, a superset of OnLoadLocators
func (f *Fragment) Locators() *locator.Map { return f.locators }

// WaitLoading waits until every on-load locator is visible
func (f *Fragment) WaitLoading(ctx context.Context, timeout time.Duration) error {
	return locator.WaitAllVisible(ctx, f.onLoad, timeout)
}
