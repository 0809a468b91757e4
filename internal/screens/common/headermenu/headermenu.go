// Package headermenu models the top navigation bar shown on every
// authenticated screen.
package headermenu

import (
	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
)

// Path is the route the header menu is checked on
const Path = "/vue-element-admin/#"

// OnLoad declares the elements present as soon as the navbar renders.
func OnLoad(c locator.Locator) *locator.Map {
	buttons := c.GetByRole("button")
	unlabelled := buttons.Filter(locator.FilterOptions{HasText: locator.Substring("")})
	return locator.NewMap().
		Set("breadcrumbNav", c.GetByRole("navigation", locator.Name("Breadcrumb"))).
		Set("breadcrumbDashboardLink", c.GetByRole("link", locator.Name("Dashboard"))).
		Set("searchInput", c.GetByRole("textbox", locator.Name("Search"))).
		Set("hamburgerButton", unlabelled.First()).
		Set("screenfullButton", buttons.Nth(1)).
		Set("sizeSelectButton", buttons.Nth(2)).
		Set("languageButton", buttons.Nth(3)).
		Set("avatarButton", unlabelled.Last())
}

// Extra declares dropdowns that only open after interaction.
func Extra(c locator.Locator) *locator.Map {
	return locator.NewMap().
		Set("searchDropdown", c.GetByRole("listbox")).
		Set("languageDropdown", c.GetByRole("list")).
		Set("userDropdown", c.GetByRole("menu"))
}

type Component struct {
	*page.Fragment
}

// NewComponent scopes the header menu to the .navbar element of doc.
func NewComponent(doc locator.Document) *Component {
	return &Component{page.NewFragment(locator.Root(doc).Locator(".navbar"), OnLoad, Extra)}
}

// Screen hosts the header menu on its own route so it can be navigated to.
type Screen struct {
	*page.Page
	Menu *Component
}

func New(doc locator.Document, baseURL string, opts ...page.Option) *Screen {
	menu := NewComponent(doc)
	opts = append([]page.Option{page.WithComponents(menu)}, opts...)
	return &Screen{
		Page: page.New(doc, page.JoinURL(baseURL, Path), opts...),
		Menu: menu,
	}
}
