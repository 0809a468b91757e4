package leftmenu_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pageobj/internal/locator/locatortest"
	"github.com/v0xg/pageobj/internal/screens/common/leftmenu"
)

func TestDeclarations(t *testing.T) {
	s := leftmenu.New(locatortest.New(), "http://app.test")
	assert.Equal(t, 21, s.OnLoadLocators().Len())
	assert.Equal(t, 22, s.Locators().Len())
	assert.Equal(t, `.sidebar-container >> role=menuitem[name="Nested Routes"]`, s.Locators().MustGet("nestedRoutesMenu").String())
}

func TestAllMenuItems(t *testing.T) {
	doc := locatortest.New()
	s := leftmenu.New(doc, "http://app.test")
	items := s.Menu.Locators().MustGet("menubar").GetByRole("menuitem")
	doc.Set(items, locatortest.Element{Count: 9})

	got, err := s.Menu.AllMenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 9)
	assert.Equal(t, ".sidebar-container >> role=menubar >> role=menuitem >> nth=0", got[0].String())
}
