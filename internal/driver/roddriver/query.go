package roddriver

import (
	_ "embed"

	"github.com/v0xg/pageobj/internal/locator"
)

//go:embed resolver.js
var resolverLib string

// resolveJS returns the elements matched by a step list.
var resolveJS = "(steps) => {\n" + resolverLib + "\nreturn resolve(steps);\n}"

// probeJS reads the state of the first matched element in one round trip.
var probeJS = "(steps) => {\n" + resolverLib + `
const els = resolve(steps);
const el = els[0];
return {
	count: els.length,
	visible: !!el && isVisible(el),
	enabled: !!el && isEnabled(el),
	checked: !!el && isChecked(el),
	text: el ? textOf(el) : '',
};
}`

type jsMatch struct {
	Value   string `json:"value"`
	Pattern string `json:"pattern,omitempty"`
	Exact   bool   `json:"exact,omitempty"`
}

type jsStep struct {
	Kind       string   `json:"kind"`
	Selector   string   `json:"selector,omitempty"`
	Role       string   `json:"role,omitempty"`
	Name       *jsMatch `json:"name,omitempty"`
	Checked    *bool    `json:"checked,omitempty"`
	Text       *jsMatch `json:"text,omitempty"`
	HasText    *jsMatch `json:"hasText,omitempty"`
	HasNotText *jsMatch `json:"hasNotText,omitempty"`
	Index      int      `json:"index"`
}

type probe struct {
	Count   int    `json:"count"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Checked bool   `json:"checked"`
	Text    string `json:"text"`
}

func toJSMatch(m *locator.TextMatch) *jsMatch {
	if m == nil {
		return nil
	}
	out := &jsMatch{Value: m.Value, Exact: m.Exact}
	if m.Pattern != nil {
		out.Pattern = m.Pattern.String()
	}
	return out
}

// encodeSteps converts a Query into the resolver's input. Regular
// expressions are passed through as source text; the subset used by
// locators (anchors, classes, alternation) means the same in both engines.
func encodeSteps(q locator.Query) []jsStep {
	steps := q.Steps()
	out := make([]jsStep, len(steps))
	for i, s := range steps {
		js := jsStep{Kind: s.Kind.String(), Index: s.Index}
		switch s.Kind {
		case locator.StepCSS:
			js.Selector = s.Selector
		case locator.StepRole:
			js.Role = s.Role
			js.Name = toJSMatch(s.Name)
			js.Checked = s.Checked
		case locator.StepText:
			js.Text = toJSMatch(s.Text)
		case locator.StepFilter:
			js.HasText = toJSMatch(s.HasText)
			js.HasNotText = toJSMatch(s.HasNot)
		}
		out[i] = js
	}
	return out
}

// withResolver wraps fn so it can call the resolver helpers (resolve,
// accessibleName, isVisible, roleSelectors).
func withResolver(fn string) string {
	return "(...args) => {\n" + resolverLib + "\nreturn (" + fn + ")(...args);\n}"
}
