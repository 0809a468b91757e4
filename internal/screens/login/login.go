// Package login models the sign-in screen.
package login

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
)

const Path = "/vue-element-admin/#/login"

// Language is a label in the language picker
type Language string

const (
	Chinese  Language = "中文"
	English  Language = "English"
	Spanish  Language = "Español"
	Japanese Language = "日本語"
)

// Languages lists every supported picker entry.
var Languages = []Language{Chinese, English, Spanish, Japanese}

// dismissX and dismissY is an empty corner of the page; clicking there
// closes the language picker.
const dismissX, dismissY = 10, 10

var emptyText = regexp.MustCompile(`^$`)

func OnLoad(root locator.Locator) *locator.Map {
	return locator.NewMap().
		Set("usernameTextbox", root.GetByRole("textbox", locator.Name("Username"))).
		Set("passwordTextbox", root.GetByRole("textbox", locator.Name("Password"))).
		Set("loginButton", root.GetByRole("button", locator.Name("Login"))).
		Set("languagesButton", root.GetByRole("button").Filter(locator.FilterOptions{HasText: locator.Matching(emptyText)}))
}

func Extra(root locator.Locator) *locator.Map {
	return locator.NewMap().Set("languageList", root.GetByRole("list"))
}

type Screen struct {
	*page.Page
	timeout time.Duration
}

// New builds the login screen. timeout bounds the waits inside
// ChangeLanguage; zero means locator.DefaultTimeout.
func New(doc locator.Document, baseURL string, timeout time.Duration, opts ...page.Option) *Screen {
	if timeout <= 0 {
		timeout = locator.DefaultTimeout
	}
	opts = append([]page.Option{page.WithLocators(OnLoad, Extra)}, opts...)
	return &Screen{
		Page:    page.New(doc, page.JoinURL(baseURL, Path), opts...),
		timeout: timeout,
	}
}

// Login fills both credentials and submits the form.
func (s *Screen) Login(ctx context.Context, username, password string) error {
	l := s.Locators()
	if err := l.MustGet("usernameTextbox").Fill(ctx, username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := l.MustGet("passwordTextbox").Fill(ctx, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := l.MustGet("loginButton").Click(ctx); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	return nil
}

// ChangeLanguage opens the picker and selects lang. A disabled entry (the
// language already active) is left alone. The picker is dismissed either way.
func (s *Screen) ChangeLanguage(ctx context.Context, lang Language) error {
	l := s.Locators()
	if err := l.MustGet("languagesButton").Click(ctx); err != nil {
		return fmt.Errorf("open language picker: %w", err)
	}
	list := l.MustGet("languageList")
	if err := list.WaitVisible(ctx, s.timeout); err != nil {
		return err
	}
	item := list.GetByText(string(lang))
	if err := item.WaitVisible(ctx, s.timeout); err != nil {
		return err
	}
	enabled, err := item.IsEnabled(ctx)
	if err != nil {
		return fmt.Errorf("read %s state: %w", lang, err)
	}
	if enabled {
		if err := item.Click(ctx); err != nil {
			return fmt.Errorf("select %s: %w", lang, err)
		}
	}
	return locator.ClickAt(ctx, s.Document(), dismissX, dismissY)
}
