// Package leftmenu models the sidebar navigation.
package leftmenu

import (
	"context"
	"fmt"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
)

// Path is the route the sidebar is checked on
const Path = "/vue-element-admin/#"

type entry struct {
	key, role, name string
}

// entries lists the sidebar in display order.
var entries = []entry{
	{"dashboardLink", "link", "Dashboard"},
	{"documentationLink", "link", "Documentation"},
	{"guideLink", "link", "Guide"},
	{"permissionMenu", "menuitem", "Permission"},
	{"iconsLink", "link", "Icons"},
	{"componentsMenu", "menuitem", "Components"},
	{"chartsMenu", "menuitem", "Charts"},
	{"nestedRoutesMenu", "menuitem", "Nested Routes"},
	{"tableMenu", "menuitem", "Table"},
	{"exampleMenu", "menuitem", "Example"},
	{"tabLink", "link", "Tab"},
	{"errorPagesMenu", "menuitem", "Error Pages"},
	{"errorLogLink", "link", "Error Log"},
	{"excelMenu", "menuitem", "Excel"},
	{"zipMenu", "menuitem", "Zip"},
	{"pdfLink", "link", "PDF"},
	{"themeLink", "link", "Theme"},
	{"clipboardLink", "link", "Clipboard"},
	{"i18nLink", "link", "I18n"},
	{"externalLink", "link", "External Link"},
	{"donateLink", "link", "Donate"},
}

func OnLoad(c locator.Locator) *locator.Map {
	m := locator.NewMap()
	for _, e := range entries {
		m.Set(e.key, c.GetByRole(e.role, locator.Name(e.name)))
	}
	return m
}

func Extra(c locator.Locator) *locator.Map {
	return locator.NewMap().Set("menubar", c.GetByRole("menubar"))
}

type Component struct {
	*page.Fragment
}

// NewComponent scopes the sidebar to .sidebar-container.
func NewComponent(doc locator.Document) *Component {
	return &Component{page.NewFragment(locator.Root(doc).Locator(".sidebar-container"), OnLoad, Extra)}
}

// AllMenuItems resolves every menuitem currently rendered in the menubar.
func (c *Component) AllMenuItems(ctx context.Context) ([]locator.Locator, error) {
	items, err := c.Locators().MustGet("menubar").GetByRole("menuitem").All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

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
