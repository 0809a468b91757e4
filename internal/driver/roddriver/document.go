package roddriver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
)

// NotFoundError is returned when an interaction matches no element.
type NotFoundError struct {
	Query locator.Query
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("no element matches %s", e.Query) }

// ErrDisabled is returned when filling or clicking a disabled element.
var ErrDisabled = errors.New("element is disabled")

// Document is one browser page.
type Document struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	opts     Options
	logger   *zap.Logger
}

// Page returns the underlying Rod page
func (d *Document) Page() *rod.Page { return d.page }

func (d *Document) Navigate(ctx context.Context, url string) error {
	p := d.page.Context(ctx).Timeout(d.opts.NavigationTimeout)
	defer p.CancelTimeout()
	if err := p.Navigate(url); err != nil {
		return err
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	d.logger.Debug("navigated", zap.String("url", url))
	return nil
}

func (d *Document) URL(ctx context.Context) (string, error) {
	res, err := d.page.Context(ctx).Eval(`() => location.href`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (d *Document) probe(ctx context.Context, q locator.Query) (probe, error) {
	var out probe
	res, err := d.page.Context(ctx).Eval(probeJS, encodeSteps(q))
	if err != nil {
		return out, fmt.Errorf("resolve %s: %w", q, err)
	}
	if err := res.Value.Unmarshal(&out); err != nil {
		return out, fmt.Errorf("decode probe of %s: %w", q, err)
	}
	return out, nil
}

// WaitVisible polls until the first matched element is visible or ctx ends.
func (d *Document) WaitVisible(ctx context.Context, q locator.Query) error {
	ticker := time.NewTicker(d.opts.PollInterval)
	defer ticker.Stop()
	for {
		st, err := d.probe(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if st.Visible {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (d *Document) Visible(ctx context.Context, q locator.Query) (bool, error) {
	st, err := d.probe(ctx, q)
	return st.Visible, err
}

func (d *Document) Enabled(ctx context.Context, q locator.Query) (bool, error) {
	st, err := d.probe(ctx, q)
	if err != nil {
		return false, err
	}
	if st.Count == 0 {
		return false, &NotFoundError{Query: q}
	}
	return st.Enabled, nil
}

func (d *Document) Checked(ctx context.Context, q locator.Query) (bool, error) {
	st, err := d.probe(ctx, q)
	if err != nil {
		return false, err
	}
	if st.Count == 0 {
		return false, &NotFoundError{Query: q}
	}
	return st.Checked, nil
}

func (d *Document) Count(ctx context.Context, q locator.Query) (int, error) {
	st, err := d.probe(ctx, q)
	return st.Count, err
}

func (d *Document) Text(ctx context.Context, q locator.Query) (string, error) {
	st, err := d.probe(ctx, q)
	if err != nil {
		return "", err
	}
	if st.Count == 0 {
		return "", &NotFoundError{Query: q}
	}
	return st.Text, nil
}

// element returns the first element matched by q, refusing disabled ones.
func (d *Document) element(ctx context.Context, q locator.Query) (*rod.Element, error) {
	st, err := d.probe(ctx, q)
	if err != nil {
		return nil, err
	}
	if st.Count == 0 {
		return nil, &NotFoundError{Query: q}
	}
	if !st.Enabled {
		return nil, fmt.Errorf("%s: %w", q, ErrDisabled)
	}
	els, err := d.page.Context(ctx).ElementsByJS(rod.Eval(resolveJS, encodeSteps(q)))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", q, err)
	}
	if len(els) == 0 {
		return nil, &NotFoundError{Query: q}
	}
	return els[0], nil
}

// Fill replaces the element's value
func (d *Document) Fill(ctx context.Context, q locator.Query, value string) error {
	el, err := d.element(ctx, q)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text of %s: %w", q, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("input into %s: %w", q, err)
	}
	return nil
}

func (d *Document) Click(ctx context.Context, q locator.Query) error {
	el, err := d.element(ctx, q)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", q, err)
	}
	return nil
}

// ClickAt clicks at page coordinates
func (d *Document) ClickAt(ctx context.Context, x, y float64) error {
	mouse := d.page.Context(ctx).Mouse
	if err := mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return err
	}
	return mouse.Click(proto.InputMouseButtonLeft, 1)
}

func (d *Document) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Box returns the bounding box of the first matched element
func (d *Document) Box(ctx context.Context, q locator.Query) (locator.Box, error) {
	els, err := d.page.Context(ctx).ElementsByJS(rod.Eval(resolveJS, encodeSteps(q)))
	if err != nil {
		return locator.Box{}, fmt.Errorf("resolve %s: %w", q, err)
	}
	if len(els) == 0 {
		return locator.Box{}, &NotFoundError{Query: q}
	}
	shape, err := els[0].Shape()
	if err != nil {
		return locator.Box{}, err
	}
	if len(shape.Quads) == 0 {
		return locator.Box{}, fmt.Errorf("element has no shape: %s", q)
	}
	return quadBox(shape.Quads[0]), nil
}

// quadBox returns the axis-aligned box around a content quad
func quadBox(quad proto.DOMQuad) locator.Box {
	if len(quad) < 2 {
		return locator.Box{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i+1 < len(quad); i += 2 {
		minX = math.Min(minX, quad[i])
		maxX = math.Max(maxX, quad[i])
		minY = math.Min(minY, quad[i+1])
		maxY = math.Max(maxY, quad[i+1])
	}
	return locator.Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

var (
	_ locator.Document       = (*Document)(nil)
	_ locator.StateSaver     = (*Document)(nil)
	_ locator.Screenshotter  = (*Document)(nil)
	_ locator.BoxReader      = (*Document)(nil)
	_ locator.PointerClicker = (*Document)(nil)
)

// Evaluate runs fn in the page with the resolver helpers in scope and decodes
// its result into out.
func (d *Document) Evaluate(ctx context.Context, fn string, out any, args ...any) error {
	res, err := d.page.Context(ctx).Eval(withResolver(fn), args...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.Value.Unmarshal(out)
}

// Settle waits for network requests to go quiet for idle, giving up after
// limit. Long-polling pages never settle; that is not an error.
func (d *Document) Settle(ctx context.Context, idle, limit time.Duration) {
	wait := d.page.Context(ctx).Timeout(limit).WaitRequestIdle(idle, nil, nil, nil)
	wait()
}
