package scaffold

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

// Options controls the generated source
type Options struct {
	Package string
	// Func names the builder; defaults to OnLoad.
	Func string
}

// Entry is one generated locator map entry
type Entry struct {
	Key  string
	Expr string
}

var sourceTmpl = template.Must(template.New("builder").Parse(`// Code generated by pageobj scaffold from {{.URL}}; review before use.

package {{.Package}}

import "github.com/v0xg/pageobj/internal/locator"

{{if .Path}}// Path is the route the screen was inspected at
const Path = {{printf "%q" .Path}}

{{end}}// {{.Func}} returns the locators expected visible once {{printf "%q" .Title}} has loaded.
func {{.Func}}(root locator.Locator) *locator.Map {
	return locator.NewMap(){{range .Entries}}.
		Set({{printf "%q" .Key}}, {{.Expr}}){{end}}
}
`))

// Generate renders a gofmt'ed locator builder for s.
func Generate(s *Screen, opts Options) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "screen"
	}
	if opts.Func == "" {
		opts.Func = "OnLoad"
	}
	var buf bytes.Buffer
	err := sourceTmpl.Execute(&buf, map[string]any{
		"URL":     s.URL,
		"Path":    s.Path(),
		"Title":   s.Title,
		"Package": opts.Package,
		"Func":    opts.Func,
		"Entries": Entries(s.Elements),
	})
	if err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// Entries turns elements into map entries with unique keys. Named elements
// are located by role and name, the rest by their CSS selector; elements
// with neither are dropped.
func Entries(elements []Element) []Entry {
	used := make(map[string]int)
	var out []Entry
	for _, el := range elements {
		var expr string
		switch {
		case el.Name != "":
			expr = fmt.Sprintf("root.GetByRole(%q, locator.Name(%q))", el.Role, el.Name)
		case el.Selector != "":
			expr = fmt.Sprintf("root.Locator(%q)", el.Selector)
		default:
			continue
		}
		key := KeyFor(el)
		used[key]++
		if n := used[key]; n > 1 {
			key += strconv.Itoa(n)
		}
		out = append(out, Entry{Key: key, Expr: expr})
	}
	return out
}

var roleSuffix = map[string]string{
	"button":   "Button",
	"link":     "Link",
	"textbox":  "Input",
	"checkbox": "Checkbox",
	"radio":    "Radio",
	"combobox": "Select",
	"heading":  "Title",
	"table":    "Table",
}

// KeyFor derives a camelCase key from the element's name and role, e.g.
// "Login" button becomes loginButton.
func KeyFor(el Element) string {
	suffix, ok := roleSuffix[el.Role]
	if !ok {
		suffix = camel(el.Role, true)
	}
	source := el.Name
	if source == "" {
		source = strings.TrimLeft(el.Selector, "#.")
	}
	base := camel(source, false)
	if base == "" {
		return camel(suffix, false)
	}
	if strings.HasSuffix(strings.ToLower(base), strings.ToLower(suffix)) {
		return base
	}
	return base + suffix
}

// camel joins the alphanumeric words of s, capitalizing all but the first
// unless upperFirst is set.
func camel(s string, upperFirst bool) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, w := range words {
		if len(words) > 4 && i == 4 {
			break
		}
		rs := []rune(strings.ToLower(w))
		if i > 0 || upperFirst {
			rs[0] = unicode.ToUpper(rs[0])
		}
		b.WriteString(string(rs))
	}
	out := b.String()
	if out != "" && unicode.IsDigit([]rune(out)[0]) {
		out = "n" + out
	}
	return out
}
