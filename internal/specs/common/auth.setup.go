package common

import (
	"context"

	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/specs/env"
	"github.com/v0xg/pageobj/internal/suite"
	"github.com/v0xg/pageobj/internal/tags"
)

// Register declares the authentication setup every other case relies on.
func Register(r *suite.Registry, e env.Env) {
	r.MustRegister("authenticate", func(ctx context.Context, app *screens.App) error {
		return suite.Authenticate(ctx, app, e.Credentials, e.StateFile, e.Timeout)
	}, suite.AsSetup(), suite.Tagged(tags.Here()...))
}
