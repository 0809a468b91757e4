package locator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a visibility wait when the caller passes zero
const DefaultTimeout = 10 * time.Second

// VisibilityError reports the first entry of a map that did not become visible
type VisibilityError struct {
	Key     string
	Locator Locator
	Timeout time.Duration
	Err     error
}

func (e *VisibilityError) Error() string {
	return fmt.Sprintf("%q (%s) not visible within %s: %v", e.Key, e.Locator, e.Timeout, e.Err)
}

func (e *VisibilityError) Unwrap() error { return e.Err }

// WaitAllVisible waits concurrently for every entry of m to become visible.
// The wait is all-or-nothing: the first failure cancels the checks still in
// flight and is returned as a *VisibilityError.
func WaitAllVisible(ctx context.Context, m *Map, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for key, l := range m.All() {
		g.Go(func() error {
			if err := l.doc.WaitVisible(gctx, l.query); err != nil {
				return &VisibilityError{Key: key, Locator: l, Timeout: timeout, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}
