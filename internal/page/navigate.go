package page

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
)

// Navigation describes one Goto call
type Navigation struct {
	// Path segments are joined with "/" and replace the page's dynamic path
	// for this and every later navigation. Empty segments are skipped.
	Path []string
	// WaitForLoad blocks until every on-load locator is visible.
	WaitForLoad bool
	// Timeout bounds the visibility wait; zero means locator.DefaultTimeout.
	Timeout time.Duration
	// ResetPath clears the dynamic path before Path is applied.
	ResetPath bool
}

// NavigationError is returned when the document cannot reach URL
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Goto navigates the document to the page and optionally waits for it to load.
func (p *Page) Goto(ctx context.Context, nav Navigation) error {
	p.mu.Lock()
	if nav.ResetPath {
		p.dynamicPath = ""
	}
	if path := joinPath(nav.Path); path != "" {
		p.dynamicPath = path
	}
	target := p.fullURL()
	p.state = Loading
	p.mu.Unlock()

	log := p.logger.With(zap.String("url", target))
	log.Debug("navigating")

	if err := p.doc.Navigate(ctx, target); err != nil {
		p.setState(Failed)
		log.Warn("navigation failed", zap.Error(err))
		return &NavigationError{URL: target, Err: err}
	}
	if !nav.WaitForLoad {
		p.setState(Ready)
		return nil
	}

	p.setState(Verifying)
	start := time.Now()
	if err := p.WaitLoading(ctx, nav.Timeout); err != nil {
		p.setState(Failed)
		log.Warn("on-load locators not visible", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return err
	}
	p.setState(Ready)
	log.Debug("page ready",
		zap.Int("locators", p.onLoad.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Open navigates to the page without waiting
func (p *Page) Open(ctx context.Context) error {
	return p.Goto(ctx, Navigation{})
}

// OpenAndWait navigates to the page and waits for its on-load locators
func (p *Page) OpenAndWait(ctx context.Context) error {
	return p.Goto(ctx, Navigation{WaitForLoad: true})
}

// OpenPath navigates to the page under the given path segments
func (p *Page) OpenPath(ctx context.Context, wait bool, segments ...string) error {
	return p.Goto(ctx, Navigation{Path: segments, WaitForLoad: wait})
}

func joinPath(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// URLPollInterval is how often WaitForURL re-reads the document URL
var URLPollInterval = 100 * time.Millisecond

// WaitForURL polls doc until its URL satisfies match or timeout elapses.
func WaitForURL(ctx context.Context, doc locator.Document, match func(string) bool, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = locator.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(URLPollInterval)
	defer ticker.Stop()

	var last string
	for {
		u, err := doc.URL(ctx)
		if err != nil {
			return fmt.Errorf("read url: %w", err)
		}
		if match(u) {
			return nil
		}
		last = u
		select {
		case <-ctx.Done():
			return fmt.Errorf("url still %q after %s: %w", last, timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

// URLSuffix matches URLs ending with suffix
func URLSuffix(suffix string) func(string) bool {
	return func(u string) bool { return strings.HasSuffix(u, suffix) }
}
