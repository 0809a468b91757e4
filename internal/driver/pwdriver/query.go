package pwdriver

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/v0xg/pageobj/internal/locator"
)

// matchArg converts a TextMatch into the string or *regexp.Regexp Playwright
// accepts for names and text. The bool reports whether an exact comparison
// was requested.
func matchArg(m *locator.TextMatch) (any, bool) {
	switch {
	case m.Pattern != nil:
		return m.Pattern, false
	case m.Exact:
		return m.Value, true
	default:
		return m.Value, false
	}
}

// filterArg builds a HasText/HasNotText value. Playwright has no exact flag
// for filters, so exact text becomes an anchored expression.
func filterArg(m *locator.TextMatch) any {
	if m == nil {
		return nil
	}
	if m.Pattern == nil && m.Exact {
		return regexp.MustCompile("^" + regexp.QuoteMeta(m.Value) + "$")
	}
	v, _ := matchArg(m)
	return v
}

// build applies every step of q to the page root.
func build(p playwright.Page, q locator.Query) playwright.Locator {
	loc := p.Locator(":root")
	for _, s := range q.Steps() {
		loc = apply(loc, s)
	}
	return loc
}

func apply(loc playwright.Locator, s locator.Step) playwright.Locator {
	switch s.Kind {
	case locator.StepCSS:
		return loc.Locator(s.Selector)
	case locator.StepRole:
		opts := playwright.LocatorGetByRoleOptions{Checked: s.Checked}
		if s.Name != nil {
			name, exact := matchArg(s.Name)
			opts.Name = name
			if exact {
				opts.Exact = playwright.Bool(true)
			}
		}
		return loc.GetByRole(playwright.AriaRole(s.Role), opts)
	case locator.StepText:
		text, exact := matchArg(s.Text)
		return loc.GetByText(text, playwright.LocatorGetByTextOptions{Exact: playwright.Bool(exact)})
	case locator.StepFilter:
		opts := playwright.LocatorFilterOptions{}
		if v := filterArg(s.HasText); v != nil {
			opts.HasText = v
		}
		if v := filterArg(s.HasNot); v != nil {
			opts.HasNotText = v
		}
		return loc.Filter(opts)
	case locator.StepNth:
		return loc.Nth(s.Index)
	case locator.StepFirst:
		return loc.First()
	case locator.StepLast:
		return loc.Last()
	default:
		panic(fmt.Sprintf("pwdriver: unknown step %v", s.Kind))
	}
}
