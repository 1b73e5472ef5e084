package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop-bot/pkg/api"
)

func TestCartTotal(t *testing.T) {
	session := &Session{
		Cart: []CartLine{
			{ProductID: "p1", UnitPrice: 4.5, Quantity: 2},
			{ProductID: "p2", UnitPrice: 100, Quantity: 1},
			{ProductID: "p3", UnitPrice: 0.25, Quantity: 4},
		},
	}

	assert.InDelta(t, 110.0, session.CartTotal(), 1e-9)

	// The order payload computes line totals the same way the summary
	// does; the buyer must see exactly what gets submitted.
	items := buildOrderItems(session.Cart)
	var payloadTotal float64
	for _, item := range items {
		payloadTotal += item.Total
	}
	assert.InDelta(t, session.CartTotal(), payloadTotal, 1e-9)
}

func TestCartTotalEmpty(t *testing.T) {
	session := &Session{}
	assert.Zero(t, session.CartTotal())
}

func TestPopGroupReturnsToRoot(t *testing.T) {
	session := &Session{}

	// Descend three levels the way showCatalog records them.
	session.GroupsStack = append(session.GroupsStack, "a")
	session.GroupsStack = append(session.GroupsStack, "a1")
	session.GroupsStack = append(session.GroupsStack, "a1x")

	assert.Equal(t, "a1", session.PopGroup())
	assert.Equal(t, "a", session.PopGroup())
	assert.Equal(t, "", session.PopGroup())
	assert.Empty(t, session.GroupsStack)

	// Popping at root stays at root.
	assert.Equal(t, "", session.PopGroup())
	assert.Empty(t, session.GroupsStack)
}

func TestResetNavigationKeepsCart(t *testing.T) {
	session := &Session{
		Cart:            []CartLine{{ProductID: "p1", UnitPrice: 1, Quantity: 1}},
		GroupsStack:     []string{"a", "a1"},
		CurrentParentID: "a1",
		CurrentPage:     3,
		NameMap:         map[string]api.CatalogItem{"x": {ID: "x"}},
	}

	session.ResetNavigation()

	assert.Empty(t, session.GroupsStack)
	assert.Equal(t, "", session.CurrentParentID)
	assert.Zero(t, session.CurrentPage)
	assert.Nil(t, session.NameMap)
	assert.Len(t, session.Cart, 1)
}

func TestLangDefaultsToRussian(t *testing.T) {
	session := &Session{}
	assert.Equal(t, "ru", session.Lang())

	session.Language = "en"
	assert.Equal(t, "en", session.Lang())
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		text string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{" 2.5 ", 2.5, true},
		{"0.01", 0.01, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1,5", 0, false},
	}

	for _, tc := range cases {
		got, ok := parseAmount(tc.text)
		require.Equal(t, tc.ok, ok, "input %q", tc.text)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.text)
		}
	}
}
