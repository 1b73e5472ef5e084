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

// showCatalog renders one catalog level: groups under parentID plus, below
// the root, the parent's direct products, as a single paginated page.
// Returns false without touching the session when a non-root level comes
// back empty, so a missing level never navigates anywhere.
func (b *Bot) showCatalog(ctx context.Context, chatID int64, session *Session, parentID string, page int, banner string) (bool, error) {
	lang := session.Lang()

	groups, err := b.api.GetGroups(ctx, session.Token, parentID)
	if err != nil {
		return false, err
	}

	var products []api.CatalogItem
	if parentID != "" {
		products, err = b.api.GetProducts(ctx, session.Token, parentID)
		if err != nil {
			return false, err
		}
	}

	items := append(groups, products...)
	if len(items) == 0 && parentID != "" {
		return false, nil
	}

	if parentID != "" {
		if n := len(session.GroupsStack); n == 0 || session.GroupsStack[n-1] != parentID {
			session.GroupsStack = append(session.GroupsStack, parentID)
		}
	} else {
		session.GroupsStack = nil
	}

	session.CurrentParentID = parentID
	session.CurrentPage = page
	session.NameMap = buildNameMap(items, lang)
	session.State = StateCatalog
	b.saveSession(ctx, chatID, session)

	isRoot := parentID == ""
	text := locale.Text("select_product", lang)
	if isRoot {
		text = locale.Text("select_category", lang)
	}
	if banner != "" {
		text = banner + "\n\n" + text
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyMarkup = createCatalogKeyboard(items, lang, isRoot, page)
	b.sendMessage(reply)

	if isRoot && page == 0 {
		hint := tgbotapi.NewMessage(chatID, locale.Text("search_hint", lang))
		hint.ReplyMarkup = createSearchKeyboard(lang)
		b.sendMessage(hint)
	}

	return true, nil
}

func (b *Bot) handleCatalog(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()

	switch MatchControl(msg.Text, lang) {
	case ControlPrev:
		page := session.CurrentPage - 1
		if page < 0 {
			page = 0
		}
		b.renderCatalog(ctx, chatID, session, session.CurrentParentID, page)
		return

	case ControlNext:
		b.renderCatalog(ctx, chatID, session, session.CurrentParentID, session.CurrentPage+1)
		return

	case ControlBackToMenu:
		b.showMainMenu(ctx, chatID, session)
		return

	case ControlBack:
		parentID := session.PopGroup()
		b.renderCatalog(ctx, chatID, session, parentID, 0)
		return

	case ControlViewCart:
		b.showCart(ctx, chatID, session)
		return
	}

	selected, ok := session.NameMap[strings.TrimSpace(msg.Text)]
	if !ok {
		b.log(ctx).Warn("Catalog item not found",
			zap.Int64("chat_id", chatID),
			zap.String("text", msg.Text))
		b.sendText(chatID, locale.Text("item_not_found", lang))
		return
	}

	if selected.Kind == api.KindProduct {
		b.showProductCard(ctx, chatID, session, selected.ID)
		return
	}

	ok, err := b.showCatalog(ctx, chatID, session, selected.ID, 0, "")
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !ok {
		b.sendText(chatID, locale.Text("empty_level", lang))
	}
}

// renderCatalog is showCatalog plus uniform error reporting for
// navigation moves where an empty level is not expected.
func (b *Bot) renderCatalog(ctx context.Context, chatID int64, session *Session, parentID string, page int) {
	ok, err := b.showCatalog(ctx, chatID, session, parentID, page, "")
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if !ok {
		b.sendText(chatID, locale.Text("empty_level", session.Lang()))
	}
}

// showProductCard fetches the full product record and asks for a quantity.
func (b *Bot) showProductCard(ctx context.Context, chatID int64, session *Session, productID string) {
	lang := session.Lang()

	product, err := b.api.GetProduct(ctx, session.Token, productID)
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if product == nil {
		b.sendText(chatID, locale.Text("product_unavailable", lang))
		return
	}

	session.SelectedProduct = product
	session.State = StateAmount
	b.saveSession(ctx, chatID, session)

	text := fmt.Sprintf("<b>%s</b>\n\n%s\n\n%s: %s\n\n%s",
		product.DisplayName(lang),
		product.Description(lang),
		locale.Text("price", lang),
		locale.FormatPrice(product.Price),
		locale.Text("enter_amount", lang))

	if len(product.Images) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(product.Images[0]))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		if _, err := b.bot.Send(photo); err == nil {
			return
		}
		b.log(ctx).Warn("Failed to send product image",
			zap.String("product_id", product.ID),
			zap.String("url", product.Images[0]))
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	b.sendMessage(reply)
}

func (b *Bot) handleAmount(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()

	switch MatchControl(msg.Text, lang) {
	case ControlBack:
		// Back to the level that was on screen before the product card.
		b.renderCatalog(ctx, chatID, session, session.CurrentParentID, session.CurrentPage)
		return
	case ControlViewCart:
		b.showCart(ctx, chatID, session)
		return
	}

	amount, ok := parseAmount(msg.Text)
	if !ok {
		b.sendText(chatID, locale.Text("invalid_amount", lang))
		return
	}

	product := session.SelectedProduct
	if product == nil {
		b.sendText(chatID, locale.Text("product_unavailable", lang))
		return
	}

	productName := product.DisplayName(lang)
	session.Cart = append(session.Cart, CartLine{
		ProductID:   product.ID,
		ProductName: productName,
		UnitPrice:   product.Price,
		Quantity:    amount,
	})
	session.SelectedProduct = nil
	session.ResetNavigation()
	// Commit the cart before the catalog round trip; a fetch failure must
	// not lose the new line.
	b.saveSession(ctx, chatID, session)

	banner := locale.TextWith("added_to_cart", lang, "name", productName)
	if _, err := b.showCatalog(ctx, chatID, session, "", 0, banner); err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
	}
}

// parseAmount accepts any positive decimal quantity.
func parseAmount(text string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64, session *Session) {
	lang := session.Lang()
	session.State = StateMainMenu
	b.saveSession(ctx, chatID, session)

	reply := tgbotapi.NewMessage(chatID, locale.Text("menu_main", lang))
	reply.ReplyMarkup = createMainMenuKeyboard(lang)
	b.sendMessage(reply)
}
