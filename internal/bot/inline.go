package bot

// Inline-mode product search: type @bot <query> anywhere, pick a product,
// and the bot turns the selection into a product card with an amount
// prompt in the private chat.

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"partshop-bot/internal/locale"
	"partshop-bot/pkg/api"
)

// inlineSelectionPrefix tags the message an inline result sends into the
// chat; the product id rides after it.
const inlineSelectionPrefix = "🔧 "

const maxInlineResults = 50

// Cache times in seconds. Hints and results go stale fast; a miss can be
// cached a bit longer.
const (
	inlineHintCacheTime      = 1
	inlineResultsCacheTime   = 1
	inlineNoResultsCacheTime = 10
)

func (b *Bot) handleInlineQuery(ctx context.Context, query *tgbotapi.InlineQuery) {
	text := strings.TrimSpace(query.Query)

	if text == "" {
		b.answerInline(ctx, query.ID, inlineHintCacheTime, buildInlineHint())
		return
	}

	products, err := b.api.SearchProducts(ctx, "", text, b.cfg.SearchResultLimit)
	if err != nil {
		b.log(ctx).Error("Inline search failed",
			zap.String("query", text),
			zap.Error(err))
		products = nil
	}

	if len(products) == 0 {
		b.answerInline(ctx, query.ID, inlineNoResultsCacheTime, buildInlineNoResults(text))
		return
	}

	b.answerInline(ctx, query.ID, inlineResultsCacheTime, buildInlineResults(products)...)
}

func buildInlineHint() tgbotapi.InlineQueryResultArticle {
	hint := tgbotapi.NewInlineQueryResultArticle("hint",
		"🔍 Search for products",
		"🔍 Enter product name to search...")
	hint.Description = "Type product name (e.g., radiator, valve)"
	return hint
}

func buildInlineNoResults(query string) tgbotapi.InlineQueryResultArticle {
	empty := tgbotapi.NewInlineQueryResultArticle("no_results",
		"❌ No products found",
		fmt.Sprintf("No products found for: %s", query))
	empty.Description = fmt.Sprintf("No products matching '%s'", query)
	return empty
}

// buildInlineResults maps search hits onto inline articles: stable id from
// the product id, the price up front, and the marker message the selection
// handler picks back up.
func buildInlineResults(products []api.CatalogItem) []interface{} {
	var results []interface{}
	for _, product := range products {
		if len(results) == maxInlineResults {
			break
		}

		sum := md5.Sum([]byte(product.ID))
		article := tgbotapi.NewInlineQueryResultArticle(
			hex.EncodeToString(sum[:]),
			"⚙️ "+product.DisplayName(locale.LangRu),
			inlineSelectionPrefix+product.ID)
		article.Description = "💰 " + locale.FormatPrice(product.Price)
		results = append(results, article)
	}
	return results
}

func (b *Bot) answerInline(ctx context.Context, queryID string, cacheTime int, results ...interface{}) {
	answer := tgbotapi.InlineConfig{
		InlineQueryID:     queryID,
		Results:           results,
		CacheTime:         cacheTime,
		SwitchPMText:      "🏗 Все товары",
		SwitchPMParameter: "browse",
	}
	if _, err := b.bot.Request(answer); err != nil {
		b.log(ctx).Warn("Failed to answer inline query", zap.Error(err))
	}
}

// handleInlineSelection converts the inline result's marker message into a
// product card. Logs the user in on the spot when the session has no token
// yet, since inline selection can be a user's first contact of the day.
func (b *Bot) handleInlineSelection(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	productID := strings.TrimSpace(strings.TrimPrefix(msg.Text, inlineSelectionPrefix))

	// Remove the marker message; the user should see the card, not the id.
	if _, err := b.bot.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		b.log(ctx).Debug("Failed to delete inline marker message", zap.Error(err))
	}

	if session.Token == "" {
		telegramID := strconv.FormatInt(msg.From.ID, 10)
		login, err := b.api.Login(ctx, telegramID)
		if err != nil || login.AccessToken == "" {
			b.sendText(chatID, locale.Text("register_first", session.Lang()))
			return
		}
		session.Token = login.AccessToken
		if login.User.CurrentLang != "" {
			session.Language = login.User.CurrentLang
		}
		b.saveSession(ctx, chatID, session)
	}

	b.showProductCard(ctx, chatID, session, productID)
}

// handleBrowseDeepLink serves /start browse from the inline "all products"
// button: straight into the root catalog.
func (b *Bot) handleBrowseDeepLink(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID

	session.ResetNavigation()
	ok, err := b.showCatalog(ctx, chatID, session, "", 0, "")
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !ok {
		b.sendText(chatID, locale.Text("no_items", session.Lang()))
	}
}
