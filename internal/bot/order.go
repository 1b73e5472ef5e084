package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"partshop-bot/internal/locale"
	"partshop-bot/pkg/api"
)

// Placeholder phone for accounts the backend has no number on file for.
const fallbackCustomerPhone = "+998900000000"

// Operator notification markers. The approval relay rewrites the pending
// marker in place, so the literal text must match exactly.
const (
	orderPendingMarker = "🕐 Ожидает подтверждения"
	newOrderMarker     = "🆕"
)

// submitOrder turns the cart into a backend order and relays it to the
// operator channel for approval. The caller has already checked the cart
// and the token.
func (b *Bot) submitOrder(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()
	logger := b.log(ctx)

	// Route the order to the owning organization via the first cart line.
	// A failed lookup leaves the owner unset; the order still proceeds.
	var organizationID string
	if p, err := b.api.GetProduct(ctx, session.Token, session.Cart[0].ProductID); err != nil {
		logger.Warn("Failed to resolve order organization",
			zap.String("product_id", session.Cart[0].ProductID),
			zap.Error(err))
	} else if p != nil {
		organizationID = p.OrganizationID
	}

	telegramID := strconv.FormatInt(msg.From.ID, 10)
	user, err := b.api.GetUser(ctx, telegramID)
	if err != nil {
		logger.Error("Failed to get user for checkout",
			zap.String("telegram_id", telegramID),
			zap.Error(err))
	}
	if user == nil {
		b.sendText(chatID, locale.Text("profile_not_found", lang))
		return
	}

	customerName := user.FullName
	if customerName == "" && msg.From != nil {
		customerName = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	}
	if customerName == "" {
		customerName = "Telegram User"
	}
	customerPhone := strings.TrimSpace(user.PhoneNumber)
	if customerPhone == "" {
		customerPhone = fallbackCustomerPhone
	}

	request := api.OrderRequest{
		OrganizationID: organizationID,
		Items:          buildOrderItems(session.Cart),
		CustomerName:   customerName,
		CustomerPhone:  customerPhone,
		UserID:         user.ID,
	}

	logger.Info("Creating order",
		zap.Int64("chat_id", chatID),
		zap.String("customer", customerName),
		zap.Int("lines", len(session.Cart)))

	order, err := b.api.CreateOrder(ctx, session.Token, request)
	if err != nil {
		// Cart stays intact so the user can retry.
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	total := order.TotalAmount
	if total == 0 {
		total = session.CartTotal()
	}
	cart := session.Cart

	session.Cart = nil
	session.State = StateMainMenu
	b.saveSession(ctx, chatID, session)

	b.sendText(chatID, locale.TextWith("order_created", lang, "id", order.OrderNumber.String()))

	b.notifyOperator(ctx, session.Token, order, cart, customerName, customerPhone, total)

	reply := tgbotapi.NewMessage(chatID, locale.Text("menu_main", lang))
	reply.ReplyMarkup = createMainMenuKeyboard(lang)
	b.sendMessage(reply)
}

func buildOrderItems(cart []CartLine) []api.OrderItem {
	items := make([]api.OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, api.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    int(line.Quantity),
			Price:       line.UnitPrice,
			Total:       line.Total(),
		})
	}
	return items
}

// notifyOperator posts the order to the operator channel with approve and
// decline buttons, then records the message id on the order so the relay
// can edit it later. Failures here are logged and swallowed: the order
// must never fail because its notification did.
func (b *Bot) notifyOperator(ctx context.Context, token string, order *api.Order, cart []CartLine, customerName, customerPhone string, total float64) {
	logger := b.log(ctx)

	notification := tgbotapi.NewMessage(b.cfg.OperatorChatID,
		formatOrderNotification(order.OrderNumber.String(), customerName, customerPhone, cart, total))
	notification.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "order_accept:"+order.ID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "order_decline:"+order.ID),
		),
	)

	sent, err := b.bot.Send(notification)
	if err != nil {
		logger.Error("Failed to send order to operator channel",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return
	}

	if err := b.api.SetOrderMessageID(ctx, token, order.ID, sent.MessageID); err != nil {
		logger.Error("Failed to record notification message id",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func formatOrderNotification(orderNumber, customerName, customerPhone string, cart []CartLine, total float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Новый заказ #%s\n\n", newOrderMarker, orderNumber)
	fmt.Fprintf(&sb, "👤 Клиент: %s\n", customerName)
	fmt.Fprintf(&sb, "📞 Телефон: %s\n\n", customerPhone)
	sb.WriteString("Товары:\n")
	for _, line := range cart {
		fmt.Fprintf(&sb, "  • %s × %d = %s\n",
			line.ProductName, int(line.Quantity), locale.FormatPrice(line.Total()))
	}
	fmt.Fprintf(&sb, "\n💰 Итого: %s\n\n", locale.FormatPrice(total))
	sb.WriteString(orderPendingMarker)
	return sb.String()
}
