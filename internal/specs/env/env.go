// Package env carries run-time settings into spec packages.
package env

import (
	"time"

	"github.com/v0xg/pageobj/internal/suite"
)

type Env struct {
	Credentials suite.Credentials
	StateFile   string
	// Timeout bounds every visibility expectation.
	Timeout time.Duration
}
