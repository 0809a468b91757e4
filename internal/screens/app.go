// Package screens wires every page object of the application under test
// against a single browser document.
package screens

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
	"github.com/v0xg/pageobj/internal/screens/common/headermenu"
	"github.com/v0xg/pageobj/internal/screens/common/leftmenu"
	"github.com/v0xg/pageobj/internal/screens/dashboard"
	"github.com/v0xg/pageobj/internal/screens/login"
)

// Screen names accepted by App.Screen
const (
	LoginScreen      = "login"
	DashboardScreen  = "dashboard"
	HeaderMenuScreen = "headermenu"
	LeftMenuScreen   = "leftmenu"
)

// App is the entry point handed to every suite case.
type App struct {
	doc     locator.Document
	baseURL string
	logger  *zap.Logger

	Login      *login.Screen
	Dashboard  *dashboard.Screen
	LeftMenu   *leftmenu.Screen
	HeaderMenu *headermenu.Screen
}

type options struct {
	logger  *zap.Logger
	timeout time.Duration
}

type Option func(*options)

// WithLogger names each screen's logger after the screen
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout sets the default visibility timeout of every screen
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func New(doc locator.Document, baseURL string, opts ...Option) *App {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	pageOpts := func(name string) []page.Option {
		return []page.Option{
			page.WithLogger(o.logger.Named(name)),
			page.WithTimeout(o.timeout),
		}
	}
	return &App{
		doc:        doc,
		baseURL:    baseURL,
		logger:     o.logger,
		Login:      login.New(doc, baseURL, o.timeout, pageOpts(LoginScreen)...),
		Dashboard:  dashboard.New(doc, baseURL, pageOpts(DashboardScreen)...),
		LeftMenu:   leftmenu.New(doc, baseURL, pageOpts(LeftMenuScreen)...),
		HeaderMenu: headermenu.New(doc, baseURL, pageOpts(HeaderMenuScreen)...),
	}
}

// Document returns the browser document shared by every screen
func (a *App) Document() locator.Document { return a.doc }

// Root returns a locator for the whole document
func (a *App) Root() locator.Locator { return locator.Root(a.doc) }

func (a *App) BaseURL() string { return a.baseURL }

func (a *App) Logger() *zap.Logger { return a.logger }

// Screen returns the page registered under name.
func (a *App) Screen(name string) (*page.Page, error) {
	switch name {
	case LoginScreen:
		return a.Login.Page, nil
	case DashboardScreen:
		return a.Dashboard.Page, nil
	case HeaderMenuScreen:
		return a.HeaderMenu.Page, nil
	case LeftMenuScreen:
		return a.LeftMenu.Page, nil
	default:
		return nil, fmt.Errorf("unknown screen %q (known: %v)", name, ScreenNames())
	}
}

// ScreenNames returns the names accepted by Screen, sorted
func ScreenNames() []string {
	names := []string{LoginScreen, DashboardScreen, HeaderMenuScreen, LeftMenuScreen}
	slices.Sort(names)
	return names
}
