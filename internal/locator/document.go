package locator

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when a Document lacks an optional capability
var ErrUnsupported = errors.New("locator: operation not supported by document")

// Document is a live browser page owned by the caller. Implementations live in
// internal/driver; the core only ever talks to this interface.
//
// Every method resolves its Query at call time. WaitVisible blocks until the
// first element matched by the query is visible or ctx is done.
type Document interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)

	WaitVisible(ctx context.Context, q Query) error
	Visible(ctx context.Context, q Query) (bool, error)
	Enabled(ctx context.Context, q Query) (bool, error)
	Checked(ctx context.Context, q Query) (bool, error)
	Count(ctx context.Context, q Query) (int, error)
	Text(ctx context.Context, q Query) (string, error)

	Fill(ctx context.Context, q Query, value string) error
	Click(ctx context.Context, q Query) error
}

// StateSaver persists the authenticated session of a Document to path
type StateSaver interface {
	SaveState(ctx context.Context, path string) error
}

// Screenshotter captures the visible viewport as PNG bytes
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Box is an element bounding box in viewport pixels
type Box struct {
	X, Y, Width, Height float64
}

// BoxReader reports the bounding box of the first element matched by q
type BoxReader interface {
	Box(ctx context.Context, q Query) (Box, error)
}

// PointerClicker clicks at absolute viewport coordinates
type PointerClicker interface {
	ClickAt(ctx context.Context, x, y float64) error
}

// SaveState persists doc's session when it supports StateSaver.
func SaveState(ctx context.Context, doc Document, path string) error {
	s, ok := doc.(StateSaver)
	if !ok {
		return ErrUnsupported
	}
	return s.SaveState(ctx, path)
}

// ClickAt clicks at (x, y) when doc supports PointerClicker.
func ClickAt(ctx context.Context, doc Document, x, y float64) error {
	c, ok := doc.(PointerClicker)
	if !ok {
		return ErrUnsupported
	}
	return c.ClickAt(ctx, x, y)
}
