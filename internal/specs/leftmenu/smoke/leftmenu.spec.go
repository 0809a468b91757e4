package smoke

import (
	"context"
	"fmt"

	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/specs/env"
	"github.com/v0xg/pageobj/internal/suite"
	"github.com/v0xg/pageobj/internal/tags"
)

func Register(r *suite.Registry, e env.Env) {
	r.MustRegister("check left menu loading", func(ctx context.Context, app *screens.App) error {
		if err := app.LeftMenu.Open(ctx); err != nil {
			return err
		}
		return suite.Expect(ctx, app.LeftMenu.OnLoadLocators(), e.Timeout)
	}, suite.Tagged(tags.Here()...))

	r.MustRegister("left menu lists menu items", func(ctx context.Context, app *screens.App) error {
		if err := app.LeftMenu.OpenAndWait(ctx); err != nil {
			return err
		}
		items, err := app.LeftMenu.Menu.AllMenuItems(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("menubar has no menu items")
		}
		return nil
	}, suite.Tagged(tags.Here()...))
}
