package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop-bot/internal/locale"
)

func cartMessage(control Control) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: control.Label(locale.LangRu),
		Chat: &tgbotapi.Chat{ID: 42},
	}
}

func TestCheckoutEmptyCartIsRejected(t *testing.T) {
	b, fake := newTestBot()
	session := &Session{State: StateCart, Token: "tok"}

	b.handleCart(context.Background(), cartMessage(ControlCheckout), session)

	require.Len(t, fake.sent, 1)
	msg, ok := fake.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, locale.Text("cart_empty", locale.LangRu), msg.Text)

	// No order was attempted and the conversation stayed in the cart.
	assert.Equal(t, StateCart, session.State)
}

func TestCheckoutWithoutTokenExpiresSession(t *testing.T) {
	b, fake := newTestBot()
	session := &Session{
		State: StateCart,
		Cart: []CartLine{
			{ProductID: "prod-1", ProductName: "Радиатор", UnitPrice: 4.5, Quantity: 2},
		},
	}

	b.handleCart(context.Background(), cartMessage(ControlCheckout), session)

	require.Len(t, fake.sent, 1)
	msg := fake.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, locale.Text("session_expired", locale.LangRu), msg.Text)

	// The cart survives so nothing is lost if the user starts over.
	assert.Len(t, session.Cart, 1)
}
