package bot

// Approval relay: handles the operator pressing approve/decline on an
// order notification in the operator channel.

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	data := callback.Data

	b.log(ctx).Debug("Processing callback",
		zap.Int64("from", callback.From.ID),
		zap.String("data", data))

	switch {
	case strings.HasPrefix(data, "order_accept:"):
		b.resolveOrder(ctx, callback, strings.TrimPrefix(data, "order_accept:"), true)
	case strings.HasPrefix(data, "order_decline:"):
		b.resolveOrder(ctx, callback, strings.TrimPrefix(data, "order_decline:"), false)
	default:
		b.answerCallback(ctx, callback.ID, "", false)
	}
}

// resolveOrder moves the order to its final status and rewrites the
// notification so the decision is visible and the buttons are gone. On any
// failure the message and buttons stay as they are, so the operator can
// press again; a repeat press after success simply retries the status
// update and lets the backend decide what a repeat transition means.
func (b *Bot) resolveOrder(ctx context.Context, callback *tgbotapi.CallbackQuery, orderID string, accept bool) {
	logger := b.log(ctx)
	operatorID := strconv.FormatInt(callback.From.ID, 10)

	status := "declined"
	if accept {
		status = "confirmed"
	}

	// The operator acts under their own credentials, derived the same way
	// a buyer's are.
	var token string
	if login, err := b.api.Login(ctx, operatorID); err == nil {
		token = login.AccessToken
	} else {
		logger.Warn("Operator login failed, falling back to service token",
			zap.String("operator_id", operatorID),
			zap.Error(err))
	}

	order, err := b.api.UpdateOrderStatus(ctx, token, orderID, status)
	if err != nil {
		logger.Error("Failed to update order status",
			zap.String("order_id", orderID),
			zap.String("status", status),
			zap.Error(err))
		b.answerCallback(ctx, callback.ID, "Ошибка при обновлении заказа", true)
		return
	}

	operatorName := displayName(callback.From)
	toast := fmt.Sprintf("Заказ #%s отклонён!", order.OrderNumber.String())
	if accept {
		toast = fmt.Sprintf("Заказ #%s подтверждён!", order.OrderNumber.String())
	}

	if callback.Message != nil {
		newText := resolveNotificationText(callback.Message.Text, operatorName, accept)

		// Editing without a reply markup also removes the buttons.
		edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, newText)
		if _, err := b.bot.Send(edit); err != nil {
			logger.Warn("Failed to edit order notification",
				zap.String("order_id", orderID),
				zap.Error(err))
		}
	}

	b.answerCallback(ctx, callback.ID, toast, false)

	logger.Info("Order resolved",
		zap.String("order_id", orderID),
		zap.String("status", status),
		zap.Int64("operator", callback.From.ID))
}

// resolveNotificationText rewrites the pending notification into its
// final form: the awaiting marker becomes the decision plus the operator's
// name, and the new-order marker mirrors the outcome.
func resolveNotificationText(text, operatorName string, accept bool) string {
	resolved := fmt.Sprintf("❌ Отклонено\n👤 Отклонил: %s", operatorName)
	marker := "❌"
	if accept {
		resolved = fmt.Sprintf("✅ Подтверждено\n👤 Подтвердил: %s", operatorName)
		marker = "✅"
	}
	text = strings.Replace(text, orderPendingMarker, resolved, 1)
	return strings.Replace(text, newOrderMarker, marker, 1)
}

func (b *Bot) answerCallback(ctx context.Context, callbackID, text string, alert bool) {
	answer := tgbotapi.NewCallback(callbackID, text)
	if alert {
		answer = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := b.bot.Request(answer); err != nil {
		b.log(ctx).Warn("Failed to answer callback", zap.Error(err))
	}
}
