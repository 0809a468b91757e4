// Package roddriver implements locator.Document on a Chromium page driven by
// go-rod.
package roddriver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options configures the browser launch
type Options struct {
	Width    int
	Height   int
	Headless bool
	// Bin overrides the browser executable; empty looks one up.
	Bin string
	// ProfileDir reuses a Chrome/Chromium profile directory.
	ProfileDir string
	// StateFile, when it exists, is restored into the new session.
	StateFile string
	// NavigationTimeout bounds each Navigate in addition to its context.
	NavigationTimeout time.Duration
	// PollInterval is how often visibility is re-checked.
	PollInterval time.Duration
	Logger       *zap.Logger
	Fs           afero.Fs
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
	if o.PollInterval <= 0 {
		o.PollInterval = 100 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
}

// Launch starts a browser, opens one page and restores saved state.
func Launch(ctx context.Context, opts Options) (*Document, error) {
	opts.setDefaults()

	l := launcher.New().Context(ctx).Headless(opts.Headless)
	bin := opts.Bin
	if bin == "" {
		bin, _ = launcher.LookPath()
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	d := &Document{
		browser:  browser,
		page:     page,
		launcher: l,
		opts:     opts,
		logger:   opts.Logger,
	}
	if opts.StateFile != "" {
		if err := d.restoreState(ctx, opts.StateFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			d.Close()
			return nil, fmt.Errorf("restore state: %w", err)
		}
	}
	d.logger.Debug("browser launched",
		zap.String("bin", bin),
		zap.Bool("headless", opts.Headless),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height))
	return d, nil
}

// Close cleans up browser resources
func (d *Document) Close() {
	if d.page != nil {
		_ = d.page.Close()
	}
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
}
