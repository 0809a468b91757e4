// Package specs assembles the suite's cases. Each sub-package declares its
// cases in a file whose path determines their tags.
package specs

import (
	"github.com/v0xg/pageobj/internal/specs/common"
	"github.com/v0xg/pageobj/internal/specs/dashboard"
	"github.com/v0xg/pageobj/internal/specs/env"
	"github.com/v0xg/pageobj/internal/specs/headermenu"
	"github.com/v0xg/pageobj/internal/specs/leftmenu/smoke"
	"github.com/v0xg/pageobj/internal/specs/login"
	"github.com/v0xg/pageobj/internal/suite"
)

// Env is the run-time input shared by every case
type Env = env.Env

// All returns a registry holding every case of the suite.
func All(e Env) *suite.Registry {
	r := suite.NewRegistry()
	common.Register(r, e)
	login.Register(r, e)
	dashboard.Register(r, e)
	headermenu.Register(r, e)
	smoke.Register(r, e)
	return r
}
