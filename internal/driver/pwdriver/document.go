package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
)

// NotFoundError is returned when an interaction matches no element.
type NotFoundError struct {
	Query locator.Query
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("no element matches %s", e.Query) }

// Document is one Playwright page.
type Document struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options
	logger  *zap.Logger
}

// Page returns the underlying Playwright page
func (d *Document) Page() playwright.Page { return d.page }

// bridge runs fn and returns early with ctx's error when ctx ends first.
// Playwright calls are bounded by their own timeouts, so fn always returns.
func bridge(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// timeoutMs is the remaining ctx budget in milliseconds, or fallback.
func timeoutMs(ctx context.Context, fallback time.Duration) *float64 {
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left < time.Millisecond {
			left = time.Millisecond
		}
		return playwright.Float(float64(left.Milliseconds()))
	}
	return playwright.Float(float64(fallback.Milliseconds()))
}

func (d *Document) Navigate(ctx context.Context, url string) error {
	return bridge(ctx, func() error {
		_, err := d.page.Goto(url, playwright.PageGotoOptions{
			Timeout:   timeoutMs(ctx, d.opts.NavigationTimeout),
			WaitUntil: playwright.WaitUntilStateLoad,
		})
		if err != nil {
			return err
		}
		d.logger.Debug("navigated", zap.String("url", url))
		return nil
	})
}

func (d *Document) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

// WaitVisible waits for the first matched element. Playwright timeouts are
// reported as context.DeadlineExceeded.
func (d *Document) WaitVisible(ctx context.Context, q locator.Query) error {
	loc := build(d.page, q).First()
	return bridge(ctx, func() error {
		err := loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: timeoutMs(ctx, d.opts.NavigationTimeout),
		})
		if errors.Is(err, playwright.ErrTimeout) {
			return context.DeadlineExceeded
		}
		return err
	})
}

func (d *Document) Visible(ctx context.Context, q locator.Query) (bool, error) {
	var ok bool
	err := bridge(ctx, func() (err error) {
		ok, err = build(d.page, q).First().IsVisible()
		return err
	})
	return ok, err
}

func (d *Document) Count(ctx context.Context, q locator.Query) (int, error) {
	var n int
	err := bridge(ctx, func() (err error) {
		n, err = build(d.page, q).Count()
		return err
	})
	return n, err
}

// first returns the first matched element, failing fast when there is none
// instead of waiting on Playwright's auto-wait.
func (d *Document) first(q locator.Query) (playwright.Locator, error) {
	loc := build(d.page, q)
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &NotFoundError{Query: q}
	}
	return loc.First(), nil
}

func (d *Document) Enabled(ctx context.Context, q locator.Query) (bool, error) {
	var ok bool
	err := bridge(ctx, func() error {
		loc, err := d.first(q)
		if err != nil {
			return err
		}
		ok, err = loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: timeoutMs(ctx, d.opts.NavigationTimeout)})
		return err
	})
	return ok, err
}

func (d *Document) Checked(ctx context.Context, q locator.Query) (bool, error) {
	var ok bool
	err := bridge(ctx, func() error {
		loc, err := d.first(q)
		if err != nil {
			return err
		}
		ok, err = loc.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: timeoutMs(ctx, d.opts.NavigationTimeout)})
		return err
	})
	return ok, err
}

func (d *Document) Text(ctx context.Context, q locator.Query) (string, error) {
	var text string
	err := bridge(ctx, func() error {
		loc, err := d.first(q)
		if err != nil {
			return err
		}
		text, err = loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: timeoutMs(ctx, d.opts.NavigationTimeout)})
		return err
	})
	return text, err
}

func (d *Document) Fill(ctx context.Context, q locator.Query, value string) error {
	return bridge(ctx, func() error {
		loc, err := d.first(q)
		if err != nil {
			return err
		}
		return loc.Fill(value, playwright.LocatorFillOptions{Timeout: timeoutMs(ctx, d.opts.NavigationTimeout)})
	})
}

func (d *Document) Click(ctx context.Context, q locator.Query) error {
	return bridge(ctx, func() error {
		loc, err := d.first(q)
		if err != nil {
			return err
		}
		return loc.Click(playwright.LocatorClickOptions{Timeout: timeoutMs(ctx, d.opts.NavigationTimeout)})
	})
}

func (d *Document) ClickAt(ctx context.Context, x, y float64) error {
	return bridge(ctx, func() error {
		return d.page.Mouse().Click(x, y)
	})
}

func (d *Document) Screenshot(ctx context.Context) ([]byte, error) {
	var png []byte
	err := bridge(ctx, func() (err error) {
		png, err = d.page.Screenshot(playwright.PageScreenshotOptions{Type: playwright.ScreenshotTypePng})
		return err
	})
	return png, err
}

func (d *Document) Box(ctx context.Context, q locator.Query) (locator.Box, error) {
	var box locator.Box
	err := bridge(ctx, func() error {
		loc, err := d.first(q)
		if err != nil {
			return err
		}
		r, err := loc.BoundingBox()
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("element is not rendered: %s", q)
		}
		box = locator.Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		return nil
	})
	return box, err
}

// SaveState writes the context's storage state to path
func (d *Document) SaveState(ctx context.Context, path string) error {
	return bridge(ctx, func() error {
		if _, err := d.context.StorageState(path); err != nil {
			return fmt.Errorf("save storage state: %w", err)
		}
		d.logger.Debug("session saved", zap.String("path", filepath.Clean(path)))
		return nil
	})
}

var (
	_ locator.Document       = (*Document)(nil)
	_ locator.StateSaver     = (*Document)(nil)
	_ locator.Screenshotter  = (*Document)(nil)
	_ locator.BoxReader      = (*Document)(nil)
	_ locator.PointerClicker = (*Document)(nil)
)
