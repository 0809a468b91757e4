// Package driver opens the browser document selected by configuration.
package driver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/config"
	"github.com/v0xg/pageobj/internal/driver/pwdriver"
	"github.com/v0xg/pageobj/internal/driver/roddriver"
	"github.com/v0xg/pageobj/internal/locator"
)

// Session is an open browser page that must be closed by the caller
type Session interface {
	locator.Document
	Close()
}

// Open launches the configured driver. When restore is set, the saved
// session in cfg.Auth.StateFile is loaded if the file exists.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, restore bool) (Session, error) {
	stateFile := ""
	if restore {
		stateFile = cfg.Auth.StateFile
	}
	logger = logger.Named(cfg.Driver)

	switch cfg.Driver {
	case config.DriverRod:
		doc, err := roddriver.Launch(ctx, roddriver.Options{
			Width:             cfg.Browser.Width,
			Height:            cfg.Browser.Height,
			Headless:          cfg.Browser.Headless,
			Bin:               cfg.Browser.Bin,
			ProfileDir:        cfg.Browser.ProfileDir,
			StateFile:         stateFile,
			NavigationTimeout: cfg.Timeouts.Navigation,
			Logger:            logger,
		})
		if err != nil {
			return nil, err
		}
		return doc, nil
	case config.DriverPlaywright:
		doc, err := pwdriver.Launch(ctx, pwdriver.Options{
			Width:             cfg.Browser.Width,
			Height:            cfg.Browser.Height,
			Headless:          cfg.Browser.Headless,
			Bin:               cfg.Browser.Bin,
			StateFile:         stateFile,
			NavigationTimeout: cfg.Timeouts.Navigation,
			Logger:            logger,
		})
		if err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
