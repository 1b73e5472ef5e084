package locale

import (
	"fmt"
	"strings"
)

// Supported languages. Russian is the fallback for every missing translation.
const (
	LangUz = "uz"
	LangRu = "ru"
	LangEn = "en"

	LangDefault = LangRu
)

var texts = map[string]map[string]string{
	"welcome": {
		LangUz: "Assalomu alaykum! Tilni tanlang 👇",
		LangRu: "Здравствуйте! Выберите язык 👇",
		LangEn: "Hello! Please choose a language 👇",
	},
	"welcome_back": {
		LangUz: "Qaytganingiz bilan, {name}! 👋",
		LangRu: "С возвращением, {name}! 👋",
		LangEn: "Welcome back, {name}! 👋",
	},
	"share_contact": {
		LangUz: "Quyidagi tugma orqali telefon raqamingizni yuboring 👇",
		LangRu: "Отправьте свой номер телефона, нажав кнопку ниже 👇",
		LangEn: "Share your phone number using the button below 👇",
	},
	"registered_wait": {
		LangUz: "Rahmat! Arizangiz qabul qilindi. Administrator tasdig'ini kuting.",
		LangRu: "Спасибо! Ваша заявка принята. Ожидайте подтверждения администратора.",
		LangEn: "Thank you! Your request has been received. Please wait for approval.",
	},
	"already_registered_wait": {
		LangUz: "Siz allaqachon ro'yxatdan o'tgansiz. Administrator tasdig'ini kuting.",
		LangRu: "Вы уже зарегистрированы. Ожидайте подтверждения администратора.",
		LangEn: "You are already registered. Please wait for approval.",
	},
	"menu_main": {
		LangUz: "Bosh menyu 👇",
		LangRu: "Главное меню 👇",
		LangEn: "Main menu 👇",
	},
	"select_category": {
		LangUz: "Kategoriyani tanlang 👇",
		LangRu: "Выберите категорию 👇",
		LangEn: "Select a category 👇",
	},
	"select_product": {
		LangUz: "Mahsulotni tanlang 👇",
		LangRu: "Выберите товар 👇",
		LangEn: "Select a product 👇",
	},
	"cart_empty": {
		LangUz: "🛒 Savat bo'sh",
		LangRu: "🛒 Корзина пуста",
		LangEn: "🛒 Your cart is empty",
	},
	"cart_header": {
		LangUz: "🛒 Sizning savatingiz:",
		LangRu: "🛒 Ваша корзина:",
		LangEn: "🛒 Your cart:",
	},
	"cart_total": {
		LangUz: "💰 Jami",
		LangRu: "💰 Итого",
		LangEn: "💰 Total",
	},
	"price": {
		LangUz: "Narxi",
		LangRu: "Цена",
		LangEn: "Price",
	},
	"enter_amount": {
		LangUz: "Miqdorini kiriting:",
		LangRu: "Введите количество:",
		LangEn: "Enter the quantity:",
	},
	"invalid_amount": {
		LangUz: "Iltimos, musbat son kiriting",
		LangRu: "Пожалуйста, введите положительное число",
		LangEn: "Please enter a valid positive number",
	},
	"added_to_cart": {
		LangUz: "{name} ✅ savatga qo'shildi",
		LangRu: "{name} ✅ добавлен в корзину",
		LangEn: "{name} ✅ added to cart",
	},
	"item_not_found": {
		LangUz: "Element topilmadi",
		LangRu: "Элемент не найден",
		LangEn: "Item not found",
	},
	"empty_level": {
		LangUz: "Bu kategoriyada mahsulotlar topilmadi",
		LangRu: "В этой категории пока нет товаров",
		LangEn: "No products found in this category",
	},
	"no_items": {
		LangUz: "Mahsulotlar mavjud emas",
		LangRu: "Нет доступных товаров",
		LangEn: "No products available",
	},
	"product_unavailable": {
		LangUz: "Mahsulot ma'lumotlari mavjud emas",
		LangRu: "Информация о товаре недоступна",
		LangEn: "Product details not available",
	},
	"order_created": {
		LangUz: "✅ Buyurtmangiz #{id} qabul qilindi! Tasdiqlashni kuting.",
		LangRu: "✅ Ваш заказ #{id} принят! Ожидайте подтверждения.",
		LangEn: "✅ Your order #{id} has been placed! Awaiting confirmation.",
	},
	"session_expired": {
		LangUz: "Sessiya muddati tugadi, /start buyrug'ini bosing",
		LangRu: "Сессия истекла, нажмите /start",
		LangEn: "Session expired, please /start",
	},
	"profile_not_found": {
		LangUz: "Profil topilmadi. Iltimos, /start buyrug'ini qayta bosing.",
		LangRu: "Профиль не найден. Пожалуйста, нажмите /start ещё раз.",
		LangEn: "User profile not found. Please /start again.",
	},
	"use_keyboard": {
		LangUz: "Iltimos, klaviaturadagi tugmalardan foydalaning",
		LangRu: "Пожалуйста, используйте кнопки на клавиатуре",
		LangEn: "Please select an option from the keyboard",
	},
	"no_orders": {
		LangUz: "Sizda hali buyurtmalar yo'q.",
		LangRu: "У вас пока нет заказов.",
		LangEn: "You don't have any orders yet.",
	},
	"history_header": {
		LangUz: "Sizning buyurtmalaringiz tarixi:",
		LangRu: "Ваша история заказов:",
		LangEn: "Your order history:",
	},
	"contact_info": {
		LangUz: "Biz bilan bog'lanish:\nTel: +998 90 123 45 67\nTelegram: @admin",
		LangRu: "Наши контакты:\nТел: +998 90 123 45 67\nTelegram: @admin",
		LangEn: "Contact us:\nPhone: +998 90 123 45 67\nTelegram: @admin",
	},
	"comment_prompt": {
		LangUz: "Izohingizni yozib qoldiring:",
		LangRu: "Напишите ваш комментарий:",
		LangEn: "Please write your comment:",
	},
	"comment_thanks": {
		LangUz: "Rahmat! Izohingiz qabul qilindi.",
		LangRu: "Спасибо! Ваш комментарий принят.",
		LangEn: "Thank you! Your comment has been received.",
	},
	"search_button": {
		LangUz: "🔍 Mahsulot qidirish",
		LangRu: "🔍 Поиск товаров",
		LangEn: "🔍 Search products",
	},
	"search_hint": {
		LangUz: "Yoki ushbu tugma bilan qidiring 👇",
		LangRu: "Или найдите товар с помощью кнопки 👇",
		LangEn: "Or search using the button below 👇",
	},
	"register_first": {
		LangUz: "Avval /start orqali ro'yxatdan o'ting",
		LangRu: "Сначала зарегистрируйтесь через /start",
		LangEn: "Please register first using /start",
	},
	"help": {
		LangUz: "Buyruqlar:\n/start - Botni ishga tushirish\n/help - Yordam",
		LangRu: "Команды:\n/start - Начать работу с ботом\n/help - Показать справку",
		LangEn: "Commands:\n/start - Start the bot\n/help - Show this help",
	},
}

// Text returns the display string for key in lang, falling back to Russian.
func Text(key, lang string) string {
	byLang, ok := texts[key]
	if !ok {
		return key
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[LangDefault]
}

// TextWith substitutes a single {placeholder} in a localized string.
func TextWith(key, lang, placeholder, value string) string {
	return strings.Replace(Text(key, lang), "{"+placeholder+"}", value, 1)
}

// FormatPrice renders an amount with $ currency: whole amounts lose the
// decimal part ($100), fractional ones lose trailing zeros ($4.5).
func FormatPrice(amount float64) string {
	if amount == float64(int64(amount)) {
		return "$" + groupThousands(fmt.Sprintf("%d", int64(amount)))
	}
	s := fmt.Sprintf("%.2f", amount)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	whole, frac, found := strings.Cut(s, ".")
	whole = groupThousands(whole)
	if found {
		return "$" + whole + "." + frac
	}
	return "$" + whole
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
