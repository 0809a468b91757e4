package page_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/locator/locatortest"
	"github.com/v0xg/pageobj/internal/page"
)

const baseURL = "http://app.test/vue-element-admin/#/orders"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func chartOnLoad(scope locator.Locator) *locator.Map {
	return locator.NewMap().
		Set("chartContainer", scope).
		Set("legend", scope.GetByText("Budget"))
}

func chartExtra(scope locator.Locator) *locator.Map {
	return locator.NewMap().Set("tooltips", scope.Locator(".echarts-tooltip"))
}

func tableOnLoad(scope locator.Locator) *locator.Map {
	return locator.NewMap().
		Set("chartContainer", scope).
		Set("headers", scope.GetByRole("row").First())
}

func pageOnLoad(root locator.Locator) *locator.Map {
	return locator.NewMap().
		Set("title", root.GetByRole("heading")).
		Set("legend", root.Locator(".page-legend"))
}

func newTestPage(doc locator.Document, opts ...page.Option) (*page.Page, *page.Fragment, *page.Fragment) {
	root := locator.Root(doc)
	chart := page.NewFragment(root.GetByRole("region", locator.Name("Budget Chart")), chartOnLoad, chartExtra)
	table := page.NewFragment(root.GetByRole("table").First(), tableOnLoad, nil)
	opts = append([]page.Option{
		page.WithLocators(pageOnLoad, nil),
		page.WithComponents(chart, table),
	}, opts...)
	return page.New(doc, baseURL, opts...), chart, table
}

func TestFragmentLocatorsAreScopedToContainer(t *testing.T) {
	doc := locatortest.New()
	container := locator.Root(doc).Locator(".navbar")
	f := page.NewFragment(container, chartOnLoad, chartExtra)

	for k, l := range f.Locators().All() {
		assert.True(t, l.Query().HasPrefix(container.Query()), "%s escapes container: %s", k, l)
	}
	for k := range f.OnLoadLocators().All() {
		assert.True(t, f.Locators().Has(k), k)
	}
	assert.Equal(t, container, f.Container())
}

func TestPageOnLoadSubsetOfLocators(t *testing.T) {
	p, _, _ := newTestPage(locatortest.New())
	for k := range p.OnLoadLocators().All() {
		assert.True(t, p.Locators().Has(k), "on-load key %q missing from locators", k)
	}
	assert.True(t, p.Locators().Has("tooltips"))
	assert.False(t, p.OnLoadLocators().Has("tooltips"))
}

func TestMergePrecedence(t *testing.T) {
	t.Run("components override page by default", func(t *testing.T) {
		p, chart, table := newTestPage(locatortest.New())
		assert.Equal(t, page.ComponentsOverride, p.Precedence())

		// legend: page then chart, chart wins.
		assert.Equal(t, chart.OnLoadLocators().MustGet("legend"), p.OnLoadLocators().MustGet("legend"))
		// chartContainer: chart then table, table wins.
		assert.Equal(t, table.OnLoadLocators().MustGet("chartContainer"), p.OnLoadLocators().MustGet("chartContainer"))
		assert.Equal(t, []string{"title", "legend", "chartContainer", "headers"}, p.OnLoadLocators().Keys())

		keys := map[string]bool{}
		for _, c := range p.Collisions() {
			keys[c.Key] = true
		}
		assert.Equal(t, map[string]bool{"legend": true, "chartContainer": true}, keys)
	})

	t.Run("page overrides components", func(t *testing.T) {
		doc := locatortest.New()
		p, _, table := newTestPage(doc, page.WithPrecedence(page.PageOverrides))

		assert.Equal(t, ".page-legend", p.OnLoadLocators().MustGet("legend").String())
		assert.Equal(t, table.OnLoadLocators().MustGet("chartContainer"), p.OnLoadLocators().MustGet("chartContainer"))
	})

	t.Run("every unshadowed component key survives", func(t *testing.T) {
		p, chart, table := newTestPage(locatortest.New())
		for _, c := range []page.Component{chart, table} {
			for k, l := range c.OnLoadLocators().All() {
				got, ok := p.OnLoadLocators().Get(k)
				require.True(t, ok, k)
				if got.String() != l.String() {
					assert.True(t, shadowedLater(p, k), "%s replaced without a recorded collision", k)
				}
			}
		}
	})

	t.Run("merge helpers use the same policy", func(t *testing.T) {
		p, chart, _ := newTestPage(locatortest.New())
		base := locator.NewMap().Set("extra", p.Root().Locator(".extra"))
		merged := p.MergeLocators(base)
		assert.True(t, merged.Has("extra"))
		assert.True(t, merged.Has("tooltips"))
		assert.Equal(t, chart.Locators().MustGet("legend"), merged.MustGet("legend"))
		assert.False(t, p.MergeOnLoadLocators(base).Has("tooltips"))
	})
}

func shadowedLater(p *page.Page, key string) bool {
	for _, c := range p.Collisions() {
		if c.Key == key {
			return true
		}
	}
	return false
}

func TestCollisionsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	newTestPage(locatortest.New(), page.WithLogger(zap.New(core)))

	entries := logs.FilterMessage("locator key shadowed").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, baseURL, entries[0].ContextMap()["url"])
}

func TestGoto(t *testing.T) {
	ctx := context.Background()

	t.Run("no arguments navigates to base url without waiting", func(t *testing.T) {
		doc := locatortest.New() // nothing visible: a wait would block
		p, _, _ := newTestPage(doc)

		require.NoError(t, p.Open(ctx))
		assert.Equal(t, []string{baseURL}, doc.Navigations())
		assert.Equal(t, page.Ready, p.State())
	})

	t.Run("wait flag blocks until visible", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		p, _, _ := newTestPage(doc)

		require.NoError(t, p.OpenAndWait(ctx))
		assert.Equal(t, []string{baseURL}, doc.Navigations())
		assert.Equal(t, page.Ready, p.State())
	})

	t.Run("path segments and wait", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		p, _, _ := newTestPage(doc)

		require.NoError(t, p.OpenPath(ctx, true, "42", "edit"))
		assert.Equal(t, []string{baseURL + "/42/edit"}, doc.Navigations())
		assert.Equal(t, "42/edit", p.DynamicPath())
	})

	t.Run("single segment without wait", func(t *testing.T) {
		doc := locatortest.New()
		p, _, _ := newTestPage(doc)

		require.NoError(t, p.Goto(ctx, page.Navigation{Path: []string{"7"}}))
		assert.Equal(t, baseURL+"/7", doc.Navigations()[0])
	})

	t.Run("dynamic path persists until replaced or reset", func(t *testing.T) {
		doc := locatortest.New()
		p, _, _ := newTestPage(doc)

		require.NoError(t, p.OpenPath(ctx, false, "42"))
		require.NoError(t, p.Open(ctx))
		require.NoError(t, p.OpenPath(ctx, false, "43", "", "edit"))
		require.NoError(t, p.Goto(ctx, page.Navigation{ResetPath: true}))

		assert.Equal(t, []string{
			baseURL + "/42",
			baseURL + "/42",
			baseURL + "/43/edit",
			baseURL,
		}, doc.Navigations())
	})

	t.Run("idempotent", func(t *testing.T) {
		doc := locatortest.New()
		p, _, _ := newTestPage(doc)

		nav := page.Navigation{Path: []string{"42", "edit"}}
		require.NoError(t, p.Goto(ctx, nav))
		first := p.FullURL()
		require.NoError(t, p.Goto(ctx, nav))

		assert.Equal(t, first, p.FullURL())
		nav2 := doc.Navigations()
		assert.Equal(t, nav2[0], nav2[1])
	})

	t.Run("navigation failure", func(t *testing.T) {
		doc := locatortest.New()
		boom := errors.New("net::ERR_CONNECTION_REFUSED")
		doc.NavigateErr = boom
		p, _, _ := newTestPage(doc)

		err := p.OpenAndWait(ctx)
		var nerr *page.NavigationError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, baseURL, nerr.URL)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, page.Failed, p.State())
	})

	t.Run("visibility failure within timeout", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		p, _, table := newTestPage(doc)
		doc.Set(table.OnLoadLocators().MustGet("headers"), locatortest.Element{Hidden: true})

		start := time.Now()
		err := p.Goto(ctx, page.Navigation{WaitForLoad: true, Timeout: 50 * time.Millisecond})

		var verr *locator.VisibilityError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "headers", verr.Key)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, page.Failed, p.State())
		assert.Equal(t, 0, doc.InFlight())
	})

	t.Run("state before navigation", func(t *testing.T) {
		p, _, _ := newTestPage(locatortest.New())
		assert.Equal(t, page.Unattached, p.State())
	})
}

func TestWaitForURL(t *testing.T) {
	ctx := context.Background()
	doc := locatortest.New()
	doc.SetURL("http://app.test/#/login")

	go func() {
		time.Sleep(30 * time.Millisecond)
		doc.SetURL("http://app.test/#/dashboard")
	}()
	require.NoError(t, page.WaitForURL(ctx, doc, page.URLSuffix("#/dashboard"), time.Second))

	err := page.WaitForURL(ctx, doc, page.URLSuffix("#/never"), 50*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPageTimeoutOption(t *testing.T) {
	doc := locatortest.New()
	doc.AllVisible = true
	p, _, table := newTestPage(doc, page.WithTimeout(40*time.Millisecond))
	doc.Set(table.OnLoadLocators().MustGet("headers"), locatortest.Element{Hidden: true})

	var verr *locator.VisibilityError
	require.ErrorAs(t, p.OpenAndWait(context.Background()), &verr)
	assert.Equal(t, 40*time.Millisecond, verr.Timeout)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://app.test/vue-element-admin/#/dashboard", page.JoinURL("http://app.test/", "/vue-element-admin/#/dashboard"))
	assert.Equal(t, "http://app.test/x", page.JoinURL("http://app.test", "x"))
	assert.Equal(t, "http://app.test", page.JoinURL("http://app.test", ""))
}

func TestPageWithoutComponents(t *testing.T) {
	doc := locatortest.New()
	p := page.New(doc, "http://app.test/")
	assert.Empty(t, p.Components())
	assert.Equal(t, 0, p.OnLoadLocators().Len())
	require.NoError(t, p.OpenPath(context.Background(), true, "42"))
	assert.Equal(t, "http://app.test/42", doc.Navigations()[0])
}
