// Package pwdriver implements locator.Document with playwright-go.
package pwdriver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Options configures the browser launch
type Options struct {
	Width    int
	Height   int
	Headless bool
	// Bin overrides the Chromium executable installed by Playwright.
	Bin string
	// StateFile, when it exists, seeds the browser context.
	StateFile         string
	NavigationTimeout time.Duration
	Logger            *zap.Logger
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Launch starts Playwright, a Chromium browser and one page.
func Launch(ctx context.Context, opts Options) (*Document, error) {
	opts.setDefaults()

	var d *Document
	err := bridge(ctx, func() error {
		pw, err := playwright.Run()
		if err != nil {
			return fmt.Errorf("could not start playwright: %w", err)
		}
		launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)}
		if opts.Bin != "" {
			launch.ExecutablePath = playwright.String(opts.Bin)
		}
		browser, err := pw.Chromium.Launch(launch)
		if err != nil {
			_ = pw.Stop()
			return fmt.Errorf("could not launch browser: %w", err)
		}

		ctxOpts := playwright.BrowserNewContextOptions{
			Viewport: &playwright.Size{Width: opts.Width, Height: opts.Height},
		}
		if opts.StateFile != "" {
			if _, err := os.Stat(opts.StateFile); err == nil {
				ctxOpts.StorageStatePath = playwright.String(opts.StateFile)
			}
		}
		bctx, err := browser.NewContext(ctxOpts)
		if err != nil {
			_ = browser.Close()
			_ = pw.Stop()
			return fmt.Errorf("could not create context: %w", err)
		}
		page, err := bctx.NewPage()
		if err != nil {
			_ = browser.Close()
			_ = pw.Stop()
			return fmt.Errorf("could not create page: %w", err)
		}
		d = &Document{pw: pw, browser: browser, context: bctx, page: page, opts: opts, logger: opts.Logger}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.logger.Debug("browser launched",
		zap.Bool("headless", opts.Headless),
		zap.Bool("state", opts.StateFile != ""),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height))
	return d, nil
}

// Close releases the page, browser and Playwright driver.
func (d *Document) Close() {
	if d.page != nil {
		_ = d.page.Close()
	}
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.pw != nil {
		_ = d.pw.Stop()
	}
}
