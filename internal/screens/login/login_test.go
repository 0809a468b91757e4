package login_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pageobj/internal/locator/locatortest"
	"github.com/v0xg/pageobj/internal/screens/login"
)

func newScreen(t *testing.T) (*login.Screen, *locatortest.Document) {
	t.Helper()
	doc := locatortest.New()
	doc.AllVisible = true
	return login.New(doc, "http://app.test", 50*time.Millisecond), doc
}

func TestLogin(t *testing.T) {
	s, doc := newScreen(t)
	require.NoError(t, s.Login(context.Background(), "admin", "111111"))

	user, _ := doc.Filled(s.Locators().MustGet("usernameTextbox"))
	pass, _ := doc.Filled(s.Locators().MustGet("passwordTextbox"))
	assert.Equal(t, "admin", user)
	assert.Equal(t, "111111", pass)
	assert.Equal(t, []string{s.Locators().MustGet("loginButton").String()}, doc.Clicks())
}

func TestLoginDisabledButton(t *testing.T) {
	s, doc := newScreen(t)
	doc.Set(s.Locators().MustGet("loginButton"), locatortest.Element{Disabled: true})

	err := s.Login(context.Background(), "admin", "111111")
	assert.ErrorIs(t, err, locatortest.ErrNotFound)
	assert.ErrorContains(t, err, "submit login")
}

func TestChangeLanguage(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled entry is clicked", func(t *testing.T) {
		s, doc := newScreen(t)
		require.NoError(t, s.ChangeLanguage(ctx, login.Spanish))

		item := s.Locators().MustGet("languageList").GetByText(string(login.Spanish))
		assert.Equal(t, []string{
			s.Locators().MustGet("languagesButton").String(),
			item.String(),
		}, doc.Clicks())
		assert.Equal(t, [][2]float64{{10, 10}}, doc.PointerClicks())
	})

	t.Run("disabled entry is skipped", func(t *testing.T) {
		s, doc := newScreen(t)
		item := s.Locators().MustGet("languageList").GetByText(string(login.English))
		doc.Set(item, locatortest.Element{Disabled: true})

		require.NoError(t, s.ChangeLanguage(ctx, login.English))
		assert.Equal(t, []string{s.Locators().MustGet("languagesButton").String()}, doc.Clicks())
		assert.Len(t, doc.PointerClicks(), 1)
	})

	t.Run("list never opens", func(t *testing.T) {
		s, doc := newScreen(t)
		doc.Set(s.Locators().MustGet("languageList"), locatortest.Element{Hidden: true})

		err := s.ChangeLanguage(ctx, login.Japanese)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, doc.PointerClicks())
	})
}

func TestLocatorDeclarations(t *testing.T) {
	s, _ := newScreen(t)
	assert.Equal(t, []string{"usernameTextbox", "passwordTextbox", "loginButton", "languagesButton"}, s.OnLoadLocators().Keys())
	assert.Equal(t, `role=button >> filter(hasText=/^$/)`, s.Locators().MustGet("languagesButton").String())
	assert.True(t, s.Locators().Has("languageList"))
	assert.False(t, s.OnLoadLocators().Has("languageList"))
}
