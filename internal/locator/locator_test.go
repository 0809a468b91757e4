package locator_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/locator/locatortest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueryString(t *testing.T) {
	doc := locatortest.New()
	nav := locator.Root(doc).Locator(".navbar")

	tests := []struct {
		name string
		loc  locator.Locator
		want string
	}{
		{"root", locator.Root(doc), ":root"},
		{"css", nav, ".navbar"},
		{"role with name", nav.GetByRole("link", locator.Name("Dashboard")), `.navbar >> role=link[name="Dashboard"]`},
		{"exact name", nav.GetByRole("link", locator.Name("Tab"), locator.Exact()), `.navbar >> role=link[name="Tab"!]`},
		{"checked", nav.GetByRole("checkbox", locator.Checked(true)), ".navbar >> role=checkbox[checked=true]"},
		{"filter", nav.GetByRole("button").Filter(locator.FilterOptions{HasText: locator.Matching(regexp.MustCompile(`^$`))}).Last(),
			".navbar >> role=button >> filter(hasText=/^$/) >> last"},
		{"nth", nav.GetByRole("button").Nth(2), ".navbar >> role=button >> nth=2"},
		{"text", nav.GetByText("Budget").First(), `.navbar >> text="Budget" >> first`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.loc.String())
		})
	}
}

func TestLocatorBuildersDoNotMutateParent(t *testing.T) {
	doc := locatortest.New()
	parent := locator.Root(doc).Locator("#app")
	a := parent.Locator(".a")
	b := parent.Locator(".b")

	assert.Equal(t, "#app", parent.String())
	assert.Equal(t, "#app >> .a", a.String())
	assert.Equal(t, "#app >> .b", b.String())
	assert.True(t, a.Query().HasPrefix(parent.Query()))
	assert.False(t, a.Query().HasPrefix(b.Query()))
}

func TestTextMatch(t *testing.T) {
	assert.True(t, locator.Substring("dash").Match("  Dashboard "))
	assert.False(t, locator.ExactText("Dash").Match("Dashboard"))
	assert.True(t, locator.ExactText("Dashboard").Match(" Dashboard\n"))
	assert.True(t, locator.Matching(regexp.MustCompile(`^$`)).Match("   "))
	var nilMatch *locator.TextMatch
	assert.True(t, nilMatch.Match("anything"))
}

func TestMapKeepsInsertionOrder(t *testing.T) {
	doc := locatortest.New()
	root := locator.Root(doc)
	m := locator.NewMap().
		Set("b", root.Locator(".b")).
		Set("a", root.Locator(".a")).
		Set("b", root.Locator(".b2"))

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, ".b2", m.MustGet("b").String())
	assert.Panics(t, func() { m.MustGet("missing") })
}

func TestExpandIsSuperset(t *testing.T) {
	onLoad := func(scope locator.Locator) *locator.Map {
		return locator.NewMap().
			Set("input", scope.GetByRole("textbox")).
			Set("button", scope.GetByRole("button"))
	}
	extra := func(scope locator.Locator) *locator.Map {
		return locator.NewMap().Set("list", scope.GetByRole("list"))
	}
	scope := locator.Root(locatortest.New()).Locator("form")

	full := locator.Expand(onLoad, extra)(scope)
	if diff := cmp.Diff([]string{"input", "button", "list"}, full.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	for k := range onLoad(scope).All() {
		assert.True(t, full.Has(k), k)
	}
}

func TestMergeReportsCollisions(t *testing.T) {
	doc := locatortest.New()
	root := locator.Root(doc)
	page := locator.NewMap().Set("title", root.Locator("h1")).Set("chart", root.Locator(".page-chart"))
	first := locator.NewMap().Set("chart", root.Locator(".first"))
	second := locator.NewMap().Set("chart", root.Locator(".second")).Set("legend", root.Locator(".legend"))

	merged, collisions := locator.Merge(
		locator.Source{Label: "page", Map: page},
		locator.Source{Label: "first", Map: first},
		locator.Source{Label: "second", Map: second},
	)

	assert.Equal(t, []string{"title", "chart", "legend"}, merged.Keys())
	assert.Equal(t, ".second", merged.MustGet("chart").String())
	require.Len(t, collisions, 2)
	assert.Equal(t, locator.Collision{Key: "chart", Shadowed: "page", Winner: "first"}, collisions[0])
	assert.Equal(t, locator.Collision{Key: "chart", Shadowed: "first", Winner: "second"}, collisions[1])
}

func TestMergeLastWinsProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		doc := locatortest.New()
		root := locator.Root(doc)
		n := rapid.IntRange(1, 5).Draw(rt, "sources")
		keyGen := rapid.SampledFrom([]string{"a", "b", "c", "d", "e"})

		sources := make([]locator.Source, n)
		want := map[string]string{}
		for i := range sources {
			m := locator.NewMap()
			for _, k := range rapid.SliceOfN(keyGen, 0, 5).Draw(rt, "keys") {
				sel := k + "-" + string(rune('0'+i))
				m.Set(k, root.Locator(sel))
				want[k] = sel
			}
			sources[i] = locator.Source{Label: string(rune('0' + i)), Map: m}
		}

		merged, _ := locator.Merge(sources...)
		if merged.Len() != len(want) {
			rt.Fatalf("merged has %d keys, want %d", merged.Len(), len(want))
		}
		for k, sel := range want {
			if got := merged.MustGet(k).String(); got != sel {
				rt.Fatalf("key %s: got %s want %s", k, got, sel)
			}
		}
	})
}

func TestWaitAllVisible(t *testing.T) {
	t.Run("all visible", func(t *testing.T) {
		doc := locatortest.New()
		root := locator.Root(doc)
		m := locator.NewMap().
			Set("a", root.Locator(".a")).
			Set("b", root.Locator(".b"))
		doc.Set(m.MustGet("a"), locatortest.Element{})
		doc.Set(m.MustGet("b"), locatortest.Element{Delay: 20 * time.Millisecond})

		require.NoError(t, locator.WaitAllVisible(context.Background(), m, time.Second))
	})

	t.Run("concurrent not sequential", func(t *testing.T) {
		doc := locatortest.New()
		root := locator.Root(doc)
		m := locator.NewMap()
		for _, k := range []string{"a", "b", "c", "d"} {
			l := root.Locator("." + k)
			m.Set(k, l)
			doc.Set(l, locatortest.Element{Delay: 100 * time.Millisecond})
		}

		start := time.Now()
		require.NoError(t, locator.WaitAllVisible(context.Background(), m, 2*time.Second))
		assert.Less(t, time.Since(start), 350*time.Millisecond)
		assert.Equal(t, 4, doc.MaxInFlight())
	})

	t.Run("one never visible fails within timeout", func(t *testing.T) {
		doc := locatortest.New()
		root := locator.Root(doc)
		m := locator.NewMap().
			Set("ok", root.Locator(".ok")).
			Set("missing", root.Locator(".missing"))
		doc.Set(m.MustGet("ok"), locatortest.Element{})
		doc.Set(m.MustGet("missing"), locatortest.Element{Hidden: true})

		start := time.Now()
		err := locator.WaitAllVisible(context.Background(), m, 50*time.Millisecond)
		elapsed := time.Since(start)

		var verr *locator.VisibilityError
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.Equal(t, "missing", verr.Key)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, elapsed, time.Second)
	})

	t.Run("failure cancels outstanding checks", func(t *testing.T) {
		doc := locatortest.New()
		root := locator.Root(doc)
		detached := errors.New("element detached")
		m := locator.NewMap().
			Set("slow", root.Locator(".slow")).
			Set("failing", root.Locator(".failing"))
		doc.Set(m.MustGet("slow"), locatortest.Element{Delay: time.Hour})
		doc.Set(m.MustGet("failing"), locatortest.Element{Err: detached})

		start := time.Now()
		err := locator.WaitAllVisible(context.Background(), m, time.Hour)
		assert.ErrorIs(t, err, detached)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, 0, doc.InFlight())
	})

	t.Run("parent cancellation", func(t *testing.T) {
		doc := locatortest.New()
		root := locator.Root(doc)
		m := locator.NewMap().Set("hidden", root.Locator(".hidden"))
		doc.Set(m.MustGet("hidden"), locatortest.Element{Hidden: true})

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		err := locator.WaitAllVisible(ctx, m, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty map", func(t *testing.T) {
		require.NoError(t, locator.WaitAllVisible(context.Background(), locator.NewMap(), 0))
	})
}

func TestAll(t *testing.T) {
	doc := locatortest.New()
	items := locator.Root(doc).GetByRole("menuitem")
	doc.Set(items, locatortest.Element{Count: 3})

	got, err := items.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "role=menuitem >> nth=2", got[2].String())
}

func TestOptionalCapabilities(t *testing.T) {
	ctx := context.Background()
	doc := locatortest.New()
	require.NoError(t, locator.SaveState(ctx, doc, ".auth/user.json"))
	assert.Equal(t, []string{".auth/user.json"}, doc.SavedStates())

	require.NoError(t, locator.ClickAt(ctx, doc, 10, 10))
	assert.Equal(t, [][2]float64{{10, 10}}, doc.PointerClicks())

	var bare bareDocument
	assert.ErrorIs(t, locator.SaveState(ctx, bare, "x"), locator.ErrUnsupported)
	assert.ErrorIs(t, locator.ClickAt(ctx, bare, 1, 1), locator.ErrUnsupported)
}

type bareDocument struct{ locator.Document }
