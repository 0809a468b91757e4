package suite

import (
	"context"
	"time"

	"github.com/v0xg/pageobj/internal/locator"
)

// Expect asserts that every locator in m becomes visible within timeout.
func Expect(ctx context.Context, m *locator.Map, timeout time.Duration) error {
	return locator.WaitAllVisible(ctx, m, timeout)
}

// ExpectVisible asserts that l becomes visible within timeout. Zero means
// locator.DefaultTimeout.
func ExpectVisible(ctx context.Context, l locator.Locator, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = locator.DefaultTimeout
	}
	return l.WaitVisible(ctx, timeout)
}
