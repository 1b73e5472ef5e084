package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"partshop-bot/internal/locale"
)

// showCart renders the cart summary. An empty cart gets a short notice and
// the conversation stays where it was.
func (b *Bot) showCart(ctx context.Context, chatID int64, session *Session) {
	lang := session.Lang()

	if len(session.Cart) == 0 {
		b.sendText(chatID, locale.Text("cart_empty", lang))
		return
	}

	var sb strings.Builder
	sb.WriteString(locale.Text("cart_header", lang))
	sb.WriteString("\n\n")
	for _, line := range session.Cart {
		fmt.Fprintf(&sb, "• %s x %s = %s\n",
			line.ProductName, formatQuantity(line.Quantity), locale.FormatPrice(line.Total()))
	}
	fmt.Fprintf(&sb, "\n%s: %s", locale.Text("cart_total", lang), locale.FormatPrice(session.CartTotal()))

	session.State = StateCart
	b.saveSession(ctx, chatID, session)

	reply := tgbotapi.NewMessage(chatID, sb.String())
	reply.ReplyMarkup = createCartKeyboard(lang)
	b.sendMessage(reply)
}

func (b *Bot) handleCart(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()

	switch MatchControl(msg.Text, lang) {
	case ControlContinueShopping:
		session.ResetNavigation()
		b.renderCatalog(ctx, chatID, session, "", 0)

	case ControlClearCart:
		session.Cart = nil
		session.State = StateMainMenu
		b.saveSession(ctx, chatID, session)
		reply := tgbotapi.NewMessage(chatID, locale.Text("cart_empty", lang))
		reply.ReplyMarkup = createMainMenuKeyboard(lang)
		b.sendMessage(reply)

	case ControlBackToMenu:
		b.showMainMenu(ctx, chatID, session)

	case ControlCheckout:
		if len(session.Cart) == 0 {
			b.sendText(chatID, locale.Text("cart_empty", lang))
			return
		}
		if session.Token == "" {
			// Known dead end: everywhere else a token is re-derived from
			// the Telegram id, but checkout deliberately is not changed
			// without a product decision.
			b.sendText(chatID, locale.Text("session_expired", lang))
			return
		}
		b.submitOrder(ctx, msg, session)

	default:
		b.sendText(chatID, locale.Text("use_keyboard", lang))
	}
}

// formatQuantity drops a trailing ".0" so whole quantities read naturally.
func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%g", q)
}
