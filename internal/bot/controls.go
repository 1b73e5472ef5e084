package bot

import (
	"strings"

	"partshop-bot/internal/locale"
)

// Control identifies a recognized keyboard button. Dispatch keys off the
// control, not the raw label, so translations can change without touching
// the state machine. Matching still compares against the active language's
// label only: the keyboard the user sees is the keyboard we match.
type Control int

const (
	ControlNone Control = iota
	ControlOrder
	ControlHistory
	ControlSettings
	ControlContactUs
	ControlComment
	ControlBack
	ControlBackToMenu
	ControlViewCart
	ControlPrev
	ControlNext
	ControlCheckout
	ControlClearCart
	ControlContinueShopping
)

var controlLabels = map[Control]map[string]string{
	ControlOrder: {
		locale.LangUz: "🛍 Buyurtma berish",
		locale.LangRu: "🛍 Заказать",
		locale.LangEn: "🛍 Order",
	},
	ControlHistory: {
		locale.LangUz: "📜 Buyurtmalar tarixi",
		locale.LangRu: "📜 История заказов",
		locale.LangEn: "📜 Order History",
	},
	ControlSettings: {
		locale.LangUz: "⚙️ Sozlamalar",
		locale.LangRu: "⚙️ Настройки",
		locale.LangEn: "⚙️ Settings",
	},
	ControlContactUs: {
		locale.LangUz: "📞 Biz bilan aloqa",
		locale.LangRu: "📞 Связаться с нами",
		locale.LangEn: "📞 Contact Us",
	},
	ControlComment: {
		locale.LangUz: "✍️ Izoh qoldirish",
		locale.LangRu: "✍️ Оставить комментарий",
		locale.LangEn: "✍️ Leave a Comment",
	},
	ControlBack: {
		locale.LangUz: "⬅️ Orqaga",
		locale.LangRu: "⬅️ Назад",
		locale.LangEn: "⬅️ Back",
	},
	ControlBackToMenu: {
		locale.LangUz: "🏠 Bosh menyu",
		locale.LangRu: "🏠 Главное меню",
		locale.LangEn: "🏠 Main Menu",
	},
	ControlViewCart: {
		locale.LangUz: "🛒 Savat",
		locale.LangRu: "🛒 Корзина",
		locale.LangEn: "🛒 Cart",
	},
	ControlPrev: {
		locale.LangUz: "⬅️ Oldingi",
		locale.LangRu: "⬅️ Предыдущая",
		locale.LangEn: "⬅️ Previous",
	},
	ControlNext: {
		locale.LangUz: "Keyingi ➡️",
		locale.LangRu: "Следующая ➡️",
		locale.LangEn: "Next ➡️",
	},
	ControlCheckout: {
		locale.LangUz: "✅ Buyurtmani rasmiylashtirish",
		locale.LangRu: "✅ Оформить заказ",
		locale.LangEn: "✅ Checkout",
	},
	ControlClearCart: {
		locale.LangUz: "🗑 Savatni tozalash",
		locale.LangRu: "🗑 Очистить корзину",
		locale.LangEn: "🗑 Clear Cart",
	},
	ControlContinueShopping: {
		locale.LangUz: "🛍 Xaridni davom ettirish",
		locale.LangRu: "🛍 Продолжить покупки",
		locale.LangEn: "🛍 Continue Shopping",
	},
}

// Label returns the control's button text for lang, falling back to Russian.
func (c Control) Label(lang string) string {
	byLang, ok := controlLabels[c]
	if !ok {
		return ""
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[locale.LangDefault]
}

// MatchControl resolves incoming text to a control in the active language.
// Exact match after trimming, same normalization as the item name map.
func MatchControl(text, lang string) Control {
	text = strings.TrimSpace(text)
	for control := range controlLabels {
		if control.Label(lang) == text {
			return control
		}
	}
	return ControlNone
}

// Language selection buttons shown during registration and in settings.
var languageLabels = map[string]string{
	"🇺🇿 O'zbekcha": locale.LangUz,
	"🇷🇺 Русский":   locale.LangRu,
	"🇬🇧 English":   locale.LangEn,
}

// LanguageByLabel maps a language button press to a language code.
func LanguageByLabel(text string) (string, bool) {
	lang, ok := languageLabels[strings.TrimSpace(text)]
	return lang, ok
}

var contactButtonLabels = map[string]string{
	locale.LangUz: "📱 Kontaktni yuborish",
	locale.LangRu: "📱 Отправить контакт",
	locale.LangEn: "📱 Share Contact",
}
