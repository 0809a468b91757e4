package headermenu

import (
	"context"

	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/specs/env"
	"github.com/v0xg/pageobj/internal/suite"
	"github.com/v0xg/pageobj/internal/tags"
)

func Register(r *suite.Registry, e env.Env) {
	r.MustRegister("check header menu loading", func(ctx context.Context, app *screens.App) error {
		if err := app.HeaderMenu.Open(ctx); err != nil {
			return err
		}
		return suite.Expect(ctx, app.HeaderMenu.OnLoadLocators(), e.Timeout)
	}, suite.Tagged(tags.Here()...))
}
