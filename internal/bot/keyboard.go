package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"partshop-bot/internal/locale"
	"partshop-bot/pkg/api"
)

// BOT KEYBOARDS

// CatalogPageSize is the fixed page window of the catalog keyboard.
const CatalogPageSize = 50

func createLanguageKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🇺🇿 O'zbekcha"),
			tgbotapi.NewKeyboardButton("🇷🇺 Русский"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🇬🇧 English"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func createContactKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	label, ok := contactButtonLabels[lang]
	if !ok {
		label = contactButtonLabels[locale.LangDefault]
	}
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(label),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func createMainMenuKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ControlOrder.Label(lang)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ControlHistory.Label(lang)),
			tgbotapi.NewKeyboardButton(ControlSettings.Label(lang)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ControlContactUs.Label(lang)),
			tgbotapi.NewKeyboardButton(ControlComment.Label(lang)),
		),
	)
}

func createCartKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ControlCheckout.Label(lang)),
			tgbotapi.NewKeyboardButton(ControlClearCart.Label(lang)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ControlContinueShopping.Label(lang)),
			tgbotapi.NewKeyboardButton(ControlBackToMenu.Label(lang)),
		),
	)
}

// createCatalogKeyboard lays out one catalog page: a back/cart control row
// on top, groups two per row, products one per row, prev/next at the bottom
// when the page window does not cover all items. At the root the back
// button returns to the main menu.
func createCatalogKeyboard(items []api.CatalogItem, lang string, isRoot bool, page int) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	backControl := ControlBack
	if isRoot {
		backControl = ControlBackToMenu
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(backControl.Label(lang)),
		tgbotapi.NewKeyboardButton(ControlViewCart.Label(lang)),
	))

	startIdx := page * CatalogPageSize
	endIdx := startIdx + CatalogPageSize
	if startIdx > len(items) {
		startIdx = len(items)
	}
	if endIdx > len(items) {
		endIdx = len(items)
	}
	pageItems := items[startIdx:endIdx]

	for i := 0; i < len(pageItems); {
		item := pageItems[i]
		if item.Kind == api.KindProduct {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(item.DisplayName(lang)),
			))
			i++
			continue
		}

		row := []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(item.DisplayName(lang)),
		}
		if i+1 < len(pageItems) && pageItems[i+1].Kind == api.KindGroup {
			row = append(row, tgbotapi.NewKeyboardButton(pageItems[i+1].DisplayName(lang)))
			i += 2
		} else {
			i++
		}
		rows = append(rows, row)
	}

	var pagination []tgbotapi.KeyboardButton
	if page > 0 {
		pagination = append(pagination, tgbotapi.NewKeyboardButton(ControlPrev.Label(lang)))
	}
	if page*CatalogPageSize+CatalogPageSize < len(items) {
		pagination = append(pagination, tgbotapi.NewKeyboardButton(ControlNext.Label(lang)))
	}
	if len(pagination) > 0 {
		rows = append(rows, pagination)
	}

	return tgbotapi.NewReplyKeyboard(rows...)
}

func createSearchKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:                         locale.Text("search_button", lang),
				SwitchInlineQueryCurrentChat: new(string),
			},
		),
	)
}

// buildNameMap keys the current page's items by their trimmed display name
// in lang. The map is scoped to one rendered level and goes stale after any
// navigation, so it is rebuilt on every catalog render.
func buildNameMap(items []api.CatalogItem, lang string) map[string]api.CatalogItem {
	nameMap := make(map[string]api.CatalogItem, len(items))
	for _, item := range items {
		nameMap[strings.TrimSpace(item.DisplayName(lang))] = item
	}
	return nameMap
}
