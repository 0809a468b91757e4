package locator

import (
	"fmt"
	"regexp"
	"strings"
)

// StepKind identifies one narrowing step of a Query
type StepKind int

const (
	StepCSS StepKind = iota
	StepRole
	StepText
	StepFilter
	StepNth
	StepFirst
	StepLast
)

func (k StepKind) String() string {
	switch k {
	case StepCSS:
		return "css"
	case StepRole:
		return "role"
	case StepText:
		return "text"
	case StepFilter:
		return "filter"
	case StepNth:
		return "nth"
	case StepFirst:
		return "first"
	case StepLast:
		return "last"
	default:
		return fmt.Sprintf("step(%d)", int(k))
	}
}

// TextMatch describes how element text (or an accessible name) is compared.
// A nil Pattern means Value is matched as a case-insensitive substring, or as
// an exact string when Exact is set.
type TextMatch struct {
	Value   string
	Pattern *regexp.Regexp
	Exact   bool
}

// Substring matches text containing s, ignoring case
func Substring(s string) *TextMatch {
	return &TextMatch{Value: s}
}

// ExactText matches text equal to s after whitespace trimming
func ExactText(s string) *TextMatch {
	return &TextMatch{Value: s, Exact: true}
}

// Matching matches text against a regular expression
func Matching(re *regexp.Regexp) *TextMatch {
	return &TextMatch{Pattern: re}
}

// Match reports whether text satisfies m.
func (m *TextMatch) Match(text string) bool {
	if m == nil {
		return true
	}
	text = strings.TrimSpace(text)
	if m.Pattern != nil {
		return m.Pattern.MatchString(text)
	}
	if m.Exact {
		return text == m.Value
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(m.Value))
}

func (m *TextMatch) String() string {
	switch {
	case m == nil:
		return "*"
	case m.Pattern != nil:
		return "/" + m.Pattern.String() + "/"
	case m.Exact:
		return fmt.Sprintf("%q!", m.Value)
	default:
		return fmt.Sprintf("%q", m.Value)
	}
}

// Step is one element of a Query chain. Only the fields relevant to Kind are set.
type Step struct {
	Kind     StepKind
	Selector string
	Role     string
	Name     *TextMatch
	Checked  *bool
	Text     *TextMatch
	HasText  *TextMatch
	HasNot   *TextMatch
	Index    int
}

func (s Step) String() string {
	switch s.Kind {
	case StepCSS:
		return s.Selector
	case StepRole:
		var b strings.Builder
		b.WriteString("role=")
		b.WriteString(s.Role)
		if s.Name != nil {
			b.WriteString("[name=")
			b.WriteString(s.Name.String())
			b.WriteString("]")
		}
		if s.Checked != nil {
			fmt.Fprintf(&b, "[checked=%t]", *s.Checked)
		}
		return b.String()
	case StepText:
		return "text=" + s.Text.String()
	case StepFilter:
		var parts []string
		if s.HasText != nil {
			parts = append(parts, "hasText="+s.HasText.String())
		}
		if s.HasNot != nil {
			parts = append(parts, "hasNotText="+s.HasNot.String())
		}
		return "filter(" + strings.Join(parts, ",") + ")"
	case StepNth:
		return fmt.Sprintf("nth=%d", s.Index)
	case StepFirst:
		return "first"
	case StepLast:
		return "last"
	default:
		return s.Kind.String()
	}
}

// Query is an immutable chain of steps, resolved left to right starting at
// the document root. The empty Query denotes the root itself.
type Query struct {
	steps []Step
}

// Append returns a new Query with s added to the end of the chain
func (q Query) Append(s Step) Query {
	steps := make([]Step, len(q.steps), len(q.steps)+1)
	copy(steps, q.steps)
	return Query{steps: append(steps, s)}
}

// Steps returns a copy of the chain
func (q Query) Steps() []Step {
	out := make([]Step, len(q.steps))
	copy(out, q.steps)
	return out
}

// Len returns the number of steps
func (q Query) Len() int { return len(q.steps) }

// IsRoot reports whether q has no steps
func (q Query) IsRoot() bool { return len(q.steps) == 0 }

// HasPrefix reports whether p is a leading sub-chain of q.
func (q Query) HasPrefix(p Query) bool {
	if len(p.steps) > len(q.steps) {
		return false
	}
	for i := range p.steps {
		if p.steps[i].String() != q.steps[i].String() {
			return false
		}
	}
	return true
}

func (q Query) String() string {
	if len(q.steps) == 0 {
		return ":root"
	}
	parts := make([]string, len(q.steps))
	for i, s := range q.steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, " >> ")
}
