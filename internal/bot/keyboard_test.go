package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop-bot/internal/locale"
	"partshop-bot/pkg/api"
)

func group(id, nameRu string) api.CatalogItem {
	return api.CatalogItem{ID: id, Kind: api.KindGroup, NameRu: nameRu}
}

func product(id, nameRu string, price float64) api.CatalogItem {
	return api.CatalogItem{ID: id, Kind: api.KindProduct, NameRu: nameRu, Price: price}
}

func TestCatalogKeyboardLayout(t *testing.T) {
	items := []api.CatalogItem{
		group("g1", "Радиаторы"),
		group("g2", "Краны"),
		group("g3", "Фитинги"),
		product("p1", "Кран шаровой 1/2", 4.5),
	}

	kb := createCatalogKeyboard(items, locale.LangRu, false, 0)

	// Control row on top, then g1+g2 paired, g3 alone (next item is a
	// product), then the product on its own row. No pagination row.
	require.Len(t, kb.Keyboard, 4)

	assert.Equal(t, ControlBack.Label(locale.LangRu), kb.Keyboard[0][0].Text)
	assert.Equal(t, ControlViewCart.Label(locale.LangRu), kb.Keyboard[0][1].Text)

	require.Len(t, kb.Keyboard[1], 2)
	assert.Equal(t, "Радиаторы", kb.Keyboard[1][0].Text)
	assert.Equal(t, "Краны", kb.Keyboard[1][1].Text)

	require.Len(t, kb.Keyboard[2], 1)
	assert.Equal(t, "Фитинги", kb.Keyboard[2][0].Text)

	require.Len(t, kb.Keyboard[3], 1)
	assert.Equal(t, "Кран шаровой 1/2", kb.Keyboard[3][0].Text)
}

func TestCatalogKeyboardRootBackButton(t *testing.T) {
	items := []api.CatalogItem{group("g1", "Радиаторы")}

	root := createCatalogKeyboard(items, locale.LangRu, true, 0)
	assert.Equal(t, ControlBackToMenu.Label(locale.LangRu), root.Keyboard[0][0].Text)

	nested := createCatalogKeyboard(items, locale.LangRu, false, 0)
	assert.Equal(t, ControlBack.Label(locale.LangRu), nested.Keyboard[0][0].Text)
}

func TestCatalogKeyboardPagination(t *testing.T) {
	var items []api.CatalogItem
	for i := 0; i < CatalogPageSize+10; i++ {
		items = append(items, product(fmt.Sprintf("p%d", i), fmt.Sprintf("Товар %d", i), 1))
	}

	// Page 0: only "next" is offered.
	kb := createCatalogKeyboard(items, locale.LangRu, true, 0)
	row := kb.Keyboard[len(kb.Keyboard)-1]
	require.Len(t, row, 1)
	assert.Equal(t, ControlNext.Label(locale.LangRu), row[0].Text)

	// Page 1 covers the remainder: only "prev" is offered.
	kb = createCatalogKeyboard(items, locale.LangRu, true, 1)
	row = kb.Keyboard[len(kb.Keyboard)-1]
	require.Len(t, row, 1)
	assert.Equal(t, ControlPrev.Label(locale.LangRu), row[0].Text)

	// A single page offers neither.
	kb = createCatalogKeyboard(items[:3], locale.LangRu, true, 0)
	row = kb.Keyboard[len(kb.Keyboard)-1]
	assert.NotEqual(t, ControlPrev.Label(locale.LangRu), row[0].Text)
	assert.NotEqual(t, ControlNext.Label(locale.LangRu), row[0].Text)
}

func TestCatalogKeyboardPageWindow(t *testing.T) {
	var items []api.CatalogItem
	for i := 0; i < CatalogPageSize+1; i++ {
		items = append(items, product(fmt.Sprintf("p%d", i), fmt.Sprintf("Товар %d", i), 1))
	}

	kb := createCatalogKeyboard(items, locale.LangRu, true, 1)
	// Control row + one product + prev row.
	require.Len(t, kb.Keyboard, 3)
	assert.Equal(t, fmt.Sprintf("Товар %d", CatalogPageSize), kb.Keyboard[1][0].Text)
}

func TestBuildNameMap(t *testing.T) {
	items := []api.CatalogItem{
		group("g1", " Радиаторы "),
		product("p1", "Кран", 4.5),
	}

	nameMap := buildNameMap(items, locale.LangRu)

	// Keys are trimmed the same way incoming text is.
	require.Contains(t, nameMap, "Радиаторы")
	require.Contains(t, nameMap, "Кран")
	assert.Equal(t, "g1", nameMap["Радиаторы"].ID)
	assert.Equal(t, api.KindProduct, nameMap["Кран"].Kind)

	// Rebuilding for the same input yields the same mapping.
	assert.Equal(t, nameMap, buildNameMap(items, locale.LangRu))
}

func TestBuildNameMapLanguageFallback(t *testing.T) {
	items := []api.CatalogItem{
		{ID: "g1", Kind: api.KindGroup, NameRu: "Краны"},              // no uz translation
		{ID: "g2", Kind: api.KindGroup, Name: "Generic"},              // no translations at all
		{ID: "g3", Kind: api.KindGroup, NameUz: "Valflar", NameRu: "Вентили"},
	}

	nameMap := buildNameMap(items, locale.LangUz)

	assert.Equal(t, "g1", nameMap["Краны"].ID)
	assert.Equal(t, "g2", nameMap["Generic"].ID)
	assert.Equal(t, "g3", nameMap["Valflar"].ID)
}
