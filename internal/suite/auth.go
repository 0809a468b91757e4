package suite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
	"github.com/v0xg/pageobj/internal/screens"
	"github.com/v0xg/pageobj/internal/screens/dashboard"
)

// DefaultStateFile is where the authenticated session is persisted
const DefaultStateFile = ".auth/user.json"

var ErrNoCredentials = errors.New("username and password are required")

type Credentials struct {
	Username string
	Password string
}

// Authenticate signs in through the login screen, waits for the dashboard
// and persists the session to statePath. Nothing is written unless the
// login succeeded.
func Authenticate(ctx context.Context, app *screens.App, creds Credentials, statePath string, timeout time.Duration) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrNoCredentials
	}
	if statePath == "" {
		statePath = DefaultStateFile
	}
	if err := app.Login.Open(ctx); err != nil {
		return err
	}
	if err := app.Login.Login(ctx, creds.Username, creds.Password); err != nil {
		return err
	}
	if err := page.WaitForURL(ctx, app.Document(), page.URLSuffix(dashboard.Path), timeout); err != nil {
		return fmt.Errorf("wait for dashboard: %w", err)
	}
	if err := ExpectVisible(ctx, app.Root().GetByText("Dashboard").First(), timeout); err != nil {
		return err
	}
	if dir := filepath.Dir(statePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := locator.SaveState(ctx, app.Document(), statePath); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}
