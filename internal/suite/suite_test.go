package suite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/locator/locatortest"
	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/suite"
)

const base = "http://app.test"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pass(context.Context, *screens.App) error { return nil }

func names(cases []suite.Case) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.Name
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := suite.NewRegistry()
	require.NoError(t, r.Register("check dashboard loading", pass, suite.Tagged("@dashboard")))
	require.NoError(t, r.Register("authenticate", pass, suite.AsSetup(), suite.Tagged("common", "auth")))
	require.NoError(t, r.Register("check left menu loading", pass, suite.Tagged("@leftmenu", "@smoke")))

	assert.Error(t, r.Register("authenticate", pass))
	assert.Error(t, r.Register("", pass))
	assert.Error(t, r.Register("nil body", nil))
	assert.Equal(t, 3, r.Len())

	t.Run("setup first", func(t *testing.T) {
		assert.Equal(t, []string{"authenticate", "check dashboard loading", "check left menu loading"}, names(r.Cases(suite.Filter{})))
	})
	t.Run("tag filter keeps setup", func(t *testing.T) {
		assert.Equal(t, []string{"authenticate", "check left menu loading"}, names(r.Cases(suite.Filter{Tags: []string{"smoke"}})))
	})
	t.Run("grep", func(t *testing.T) {
		assert.Equal(t, []string{"authenticate", "check dashboard loading"}, names(r.Cases(suite.Filter{Grep: "DASHBOARD"})))
	})
	t.Run("nothing selected", func(t *testing.T) {
		assert.Empty(t, r.Cases(suite.Filter{Tags: []string{"@missing"}}))
	})
	t.Run("setup only", func(t *testing.T) {
		assert.Equal(t, []string{"authenticate"}, names(r.Cases(suite.Filter{SetupOnly: true})))
	})
	t.Run("tags are normalised", func(t *testing.T) {
		cases := r.Cases(suite.Filter{SetupOnly: true})
		assert.Equal(t, []string{"@common", "@auth"}, cases[0].Tags)
	})
}

type captured struct {
	runID, name string
	failing     *locator.Locator
}

type fakeSink struct {
	calls []captured
	err   error
}

func (f *fakeSink) Capture(_ context.Context, runID, name string, _ locator.Document, failing *locator.Locator) (string, error) {
	f.calls = append(f.calls, captured{runID, name, failing})
	if f.err != nil {
		return "", f.err
	}
	return filepath.Join("artifacts", runID, name+".png"), nil
}

func TestRunner(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("results in order", func(t *testing.T) {
		app := screens.New(locatortest.New(), base)
		var seen []string
		r := suite.NewRunner(suite.OnResult(func(res suite.Result) { seen = append(seen, res.Case.Name) }))
		report := r.Run(ctx, app, []suite.Case{
			{Name: "a", Body: pass},
			{Name: "b", Body: func(context.Context, *screens.App) error { return boom }},
			{Name: "c", Body: pass},
		})

		assert.Equal(t, []string{"a", "b", "c"}, seen)
		assert.Equal(t, 2, report.Passed())
		assert.Equal(t, 1, report.Failed())
		assert.False(t, report.OK())
		assert.NotEqual(t, uuid.Nil, report.RunID)

		var cerr *suite.CaseError
		require.ErrorAs(t, report.Err(), &cerr)
		assert.Equal(t, "b", cerr.Case)
		assert.ErrorIs(t, report.Err(), boom)
	})

	t.Run("failed setup skips the rest", func(t *testing.T) {
		app := screens.New(locatortest.New(), base)
		report := suite.NewRunner().Run(ctx, app, []suite.Case{
			{Name: "authenticate", Setup: true, Body: func(context.Context, *screens.App) error { return boom }},
			{Name: "a", Body: pass},
		})
		require.Len(t, report.Results, 2)
		assert.Equal(t, suite.Failed, report.Results[0].Status)
		assert.Equal(t, suite.Skipped, report.Results[1].Status)
		assert.ErrorContains(t, report.Results[1].Err, `setup "authenticate" failed`)
	})

	t.Run("case timeout", func(t *testing.T) {
		app := screens.New(locatortest.New(), base)
		r := suite.NewRunner(suite.WithCaseTimeout(30 * time.Millisecond))
		report := r.Run(ctx, app, []suite.Case{{Name: "slow", Body: func(ctx context.Context, _ *screens.App) error {
			<-ctx.Done()
			return ctx.Err()
		}}})
		assert.ErrorIs(t, report.Results[0].Err, context.DeadlineExceeded)
	})

	t.Run("panic becomes failure", func(t *testing.T) {
		app := screens.New(locatortest.New(), base)
		report := suite.NewRunner().Run(ctx, app, []suite.Case{{Name: "p", Body: func(context.Context, *screens.App) error {
			panic("nil map")
		}}})
		assert.Equal(t, suite.Failed, report.Results[0].Status)
		assert.ErrorContains(t, report.Results[0].Err, "panic: nil map")
	})

	t.Run("cancelled run skips remaining cases", func(t *testing.T) {
		app := screens.New(locatortest.New(), base)
		cctx, cancel := context.WithCancel(ctx)
		report := suite.NewRunner().Run(cctx, app, []suite.Case{
			{Name: "a", Body: func(context.Context, *screens.App) error { cancel(); return nil }},
			{Name: "b", Body: pass},
		})
		assert.Equal(t, suite.Passed, report.Results[0].Status)
		assert.Equal(t, suite.Skipped, report.Results[1].Status)
	})

	t.Run("failure captures artifact with failing locator", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		app := screens.New(doc, base)
		hidden := app.Dashboard.OnLoadLocators().MustGet("todoInput")
		doc.Set(hidden, locatortest.Element{Hidden: true})

		sink := &fakeSink{}
		r := suite.NewRunner(suite.WithArtifacts(sink))
		report := r.Run(ctx, app, []suite.Case{
			{Name: "ok", Body: pass},
			{Name: "dash", Body: func(ctx context.Context, app *screens.App) error {
				return suite.Expect(ctx, app.Dashboard.OnLoadLocators(), 30*time.Millisecond)
			}},
		})

		require.Len(t, sink.calls, 1)
		assert.Equal(t, report.RunID.String(), sink.calls[0].runID)
		assert.Equal(t, "dash", sink.calls[0].name)
		require.NotNil(t, sink.calls[0].failing)
		assert.Equal(t, hidden.String(), sink.calls[0].failing.String())
		assert.Equal(t, filepath.Join("artifacts", report.RunID.String(), "dash.png"), report.Results[1].Artifact)
	})

	t.Run("artifact errors do not change the outcome", func(t *testing.T) {
		app := screens.New(locatortest.New(), base)
		sink := &fakeSink{err: locator.ErrUnsupported}
		report := suite.NewRunner(suite.WithArtifacts(sink)).Run(ctx, app, []suite.Case{
			{Name: "b", Body: func(context.Context, *screens.App) error { return boom }},
		})
		assert.ErrorIs(t, report.Results[0].Err, boom)
		assert.Empty(t, report.Results[0].Artifact)
	})
}

func loggedInDoc(app *screens.App, doc *locatortest.Document) {
	doc.OnClick(app.Login.Locators().MustGet("loginButton"), func(d *locatortest.Document) {
		d.SetURL(app.Dashboard.URL())
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	creds := suite.Credentials{Username: "admin", Password: "111111"}

	t.Run("saves state after dashboard appears", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		app := screens.New(doc, base)
		loggedInDoc(app, doc)
		state := filepath.Join(t.TempDir(), ".auth", "user.json")

		require.NoError(t, suite.Authenticate(ctx, app, creds, state, time.Second))
		assert.Equal(t, []string{app.Login.URL()}, doc.Navigations())
		assert.Equal(t, []string{state}, doc.SavedStates())
		assert.DirExists(t, filepath.Dir(state))
	})

	t.Run("no state when the dashboard never loads", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		app := screens.New(doc, base)
		state := filepath.Join(t.TempDir(), "user.json")

		err := suite.Authenticate(ctx, app, creds, state, 50*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, doc.SavedStates())
	})

	t.Run("no state when the dashboard heading is missing", func(t *testing.T) {
		doc := locatortest.New()
		doc.AllVisible = true
		app := screens.New(doc, base)
		loggedInDoc(app, doc)
		doc.Set(app.Root().GetByText("Dashboard").First(), locatortest.Element{Hidden: true})

		err := suite.Authenticate(ctx, app, creds, filepath.Join(t.TempDir(), "user.json"), 50*time.Millisecond)
		assert.Error(t, err)
		assert.Empty(t, doc.SavedStates())
	})

	t.Run("missing credentials", func(t *testing.T) {
		doc := locatortest.New()
		app := screens.New(doc, base)
		assert.ErrorIs(t, suite.Authenticate(ctx, app, suite.Credentials{Username: "admin"}, "", time.Second), suite.ErrNoCredentials)
		assert.Empty(t, doc.Navigations())
	})
}

func TestExpectVisible(t *testing.T) {
	doc := locatortest.New()
	l := locator.Root(doc).GetByText("Dashboard")
	doc.Set(l, locatortest.Element{Delay: 10 * time.Millisecond})
	require.NoError(t, suite.ExpectVisible(context.Background(), l, time.Second))

	doc.Set(l, locatortest.Element{Hidden: true})
	assert.ErrorIs(t, suite.ExpectVisible(context.Background(), l, 20*time.Millisecond), context.DeadlineExceeded)
}
