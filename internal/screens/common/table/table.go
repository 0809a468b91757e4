// Package table is a reusable fragment for data tables whose first row is
// the header.
package table

import (
	"context"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
)

// Keys names the entries a Table contributes to its page's locator maps.
type Keys struct {
	Table   string
	Headers string
	Rows    string
}

type Table struct {
	*page.Fragment
	keys Keys
}

// New builds a table fragment on container. headerText is the rendered text
// of the header row, used to exclude it from the body rows.
func New(container locator.Locator, keys Keys, headerText string) *Table {
	onLoad := func(c locator.Locator) *locator.Map {
		return locator.NewMap().
			Set(keys.Table, c).
			Set(keys.Headers, c.GetByRole("row").First())
	}
	extra := func(c locator.Locator) *locator.Map {
		return locator.NewMap().
			Set(keys.Rows, c.GetByRole("row").Filter(locator.FilterOptions{HasNotText: locator.Substring(headerText)}))
	}
	return &Table{Fragment: page.NewFragment(container, onLoad, extra), keys: keys}
}

// Headers returns the header row
func (t *Table) Headers() locator.Locator { return t.Locators().MustGet(t.keys.Headers) }

// Rows resolves every body row currently rendered.
func (t *Table) Rows(ctx context.Context) ([]locator.Locator, error) {
	return t.Locators().MustGet(t.keys.Rows).All(ctx)
}

func (t *Table) RowCount(ctx context.Context) (int, error) {
	return t.Locators().MustGet(t.keys.Rows).Count(ctx)
}
