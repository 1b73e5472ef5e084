package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop-bot/pkg/api"
)

func TestBuildOrderItems(t *testing.T) {
	cart := []CartLine{
		{ProductID: "p1", ProductName: "Кран", UnitPrice: 4.5, Quantity: 2},
		{ProductID: "p2", ProductName: "Радиатор", UnitPrice: 100, Quantity: 1.5},
	}

	items := buildOrderItems(cart)
	require.Len(t, items, 2)

	// Quantities are submitted as integers, totals keep the full decimal
	// quantity.
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 9.0, items[0].Total)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 150.0, items[1].Total)

	assert.Equal(t, api.OrderItem{
		ProductID:   "p1",
		ProductName: "Кран",
		Quantity:    2,
		Price:       4.5,
		Total:       9,
	}, items[0])
}

func TestFormatOrderNotification(t *testing.T) {
	cart := []CartLine{
		{ProductID: "p1", ProductName: "Кран шаровой", UnitPrice: 4.5, Quantity: 2},
		{ProductID: "p2", ProductName: "Радиатор", UnitPrice: 100, Quantity: 1},
	}

	text := formatOrderNotification("1042", "Alisher Usmanov", "+998901234567", cart, 109)

	assert.Contains(t, text, "Новый заказ #1042")
	assert.Contains(t, text, "Alisher Usmanov")
	assert.Contains(t, text, "+998901234567")
	assert.Contains(t, text, "Кран шаровой × 2 = $9")
	assert.Contains(t, text, "Радиатор × 1 = $100")
	assert.Contains(t, text, "Итого: $109")
	assert.True(t, strings.HasSuffix(text, orderPendingMarker))
	assert.True(t, strings.HasPrefix(text, newOrderMarker))
}

func TestResolveNotificationText(t *testing.T) {
	cart := []CartLine{{ProductID: "p1", ProductName: "Кран", UnitPrice: 4.5, Quantity: 2}}
	pending := formatOrderNotification("1042", "Клиент", "+998900000000", cart, 9)

	declined := resolveNotificationText(pending, "Operator One", false)
	assert.NotContains(t, declined, orderPendingMarker)
	assert.Contains(t, declined, "❌ Отклонено")
	assert.Contains(t, declined, "Отклонил: Operator One")
	assert.Contains(t, declined, "#1042")
	assert.True(t, strings.HasPrefix(declined, "❌"))

	accepted := resolveNotificationText(pending, "Operator Two", true)
	assert.Contains(t, accepted, "✅ Подтверждено")
	assert.Contains(t, accepted, "Подтвердил: Operator Two")
	assert.True(t, strings.HasPrefix(accepted, "✅"))

	// Rewriting an already resolved text is harmless: the pending marker
	// is gone, so nothing changes except the (absent) new-order marker.
	again := resolveNotificationText(declined, "Operator One", false)
	assert.Equal(t, declined, again)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", formatQuantity(2))
	assert.Equal(t, "2.5", formatQuantity(2.5))
	assert.Equal(t, "0.25", formatQuantity(0.25))
}
