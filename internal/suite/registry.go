// Package suite registers end-to-end cases and runs them against the
// application's screens.
package suite

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/tags"
)

// Body is the code of one case
type Body func(ctx context.Context, app *screens.App) error

type Case struct {
	Name string
	Tags []string
	Body Body
	// Setup cases run before every other case; a failing setup skips the rest.
	Setup bool
}

// CaseOption customises a registered case
type CaseOption func(*Case)

// Tagged adds tags to the case. Missing "@" prefixes are added.
func Tagged(ts ...string) CaseOption {
	return func(c *Case) {
		for _, t := range ts {
			if !strings.HasPrefix(t, "@") {
				t = "@" + t
			}
			if !slices.Contains(c.Tags, t) {
				c.Tags = append(c.Tags, t)
			}
		}
	}
}

// AsSetup marks the case as setup
func AsSetup() CaseOption {
	return func(c *Case) { c.Setup = true }
}

// Registry holds cases in registration order.
type Registry struct {
	mu    sync.Mutex
	cases []Case
}

func NewRegistry() *Registry { return &Registry{} }

// Register adds a case. Names must be unique within the registry.
func (r *Registry) Register(name string, body Body, opts ...CaseOption) error {
	if name == "" {
		return fmt.Errorf("register: empty case name")
	}
	if body == nil {
		return fmt.Errorf("register %q: nil body", name)
	}
	c := Case{Name: name, Body: body}
	for _, opt := range opts {
		opt(&c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cases {
		if existing.Name == name {
			return fmt.Errorf("register %q: duplicate case name", name)
		}
	}
	r.cases = append(r.cases, c)
	return nil
}

// MustRegister is Register for package-level declarations.
func (r *Registry) MustRegister(name string, body Body, opts ...CaseOption) {
	if err := r.Register(name, body, opts...); err != nil {
		panic(err)
	}
}

// Filter selects cases. Zero value selects everything.
type Filter struct {
	// Tags must all be present on a case.
	Tags []string
	// Grep is a case-insensitive substring of the case name.
	Grep string
	// SetupOnly drops every non-setup case.
	SetupOnly bool
}

func (f Filter) matches(c Case) bool {
	if f.SetupOnly && !c.Setup {
		return false
	}
	if f.Grep != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Grep)) {
		return false
	}
	return tags.Match(c.Tags, f.Tags)
}

// Cases returns the selected cases, setup cases first. Setup cases are kept
// regardless of Tags and Grep since every other case depends on them.
func (r *Registry) Cases(f Filter) []Case {
	r.mu.Lock()
	defer r.mu.Unlock()

	var setup, rest []Case
	for _, c := range r.cases {
		switch {
		case c.Setup && !f.SetupOnly:
			setup = append(setup, c)
		case f.matches(c):
			if c.Setup {
				setup = append(setup, c)
			} else {
				rest = append(rest, c)
			}
		}
	}
	if len(rest) == 0 && !f.SetupOnly {
		return nil
	}
	return append(setup, rest...)
}

// Len returns the number of registered cases
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cases)
}
