package login

import (
	"context"

	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/specs/env"
	"github.com/v0xg/pageobj/internal/suite"
	"github.com/v0xg/pageobj/internal/tags"
)

// Register declares the login cases. With a saved session the login route
// redirects straight to the dashboard.
func Register(r *suite.Registry, e env.Env) {
	r.MustRegister("check auth login", func(ctx context.Context, app *screens.App) error {
		if err := app.Login.Open(ctx); err != nil {
			return err
		}
		return suite.ExpectVisible(ctx, app.Root().GetByText("Dashboard").First(), e.Timeout)
	}, suite.Tagged(tags.Here()...))
}
