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

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	switch msg.Command() {
	case "start":
		if msg.CommandArguments() == "browse" {
			b.handleBrowseDeepLink(ctx, msg, session)
			return
		}
		b.initializeUser(ctx, msg, session)
	case "help":
		b.sendText(msg.Chat.ID, locale.Text("help", session.Lang()))
	default:
		b.sendText(msg.Chat.ID, locale.Text("use_keyboard", session.Lang()))
	}
}

// initializeUser logs a known user in or starts registration for a new
// one. Also reached by any text from a session-less chat, so the bot works
// after a restart without requiring /start.
func (b *Bot) initializeUser(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	telegramID := strconv.FormatInt(msg.From.ID, 10)
	logger := b.log(ctx)

	login, err := b.api.Login(ctx, telegramID)
	if err == nil && login.AccessToken != "" {
		lang := login.User.CurrentLang
		if lang == "" {
			lang = locale.LangDefault
		}
		session.Language = lang
		session.Token = login.AccessToken
		session.State = StateMainMenu
		b.saveSession(ctx, chatID, session)

		reply := tgbotapi.NewMessage(chatID,
			locale.TextWith("welcome_back", lang, "name", login.User.FullName))
		reply.ReplyMarkup = createMainMenuKeyboard(lang)
		b.sendMessage(reply)
		return
	}
	if err != nil {
		logger.Debug("Login failed, checking registration",
			zap.String("telegram_id", telegramID),
			zap.Error(err))
	}

	existing, err := b.api.GetUser(ctx, telegramID)
	if err != nil {
		logger.Warn("Failed to look up user",
			zap.String("telegram_id", telegramID),
			zap.Error(err))
	}
	if existing != nil && !existing.IsActive {
		lang := existing.CurrentLang
		if lang == "" {
			lang = locale.LangDefault
		}
		b.sendText(chatID, locale.Text("already_registered_wait", lang))
		return
	}

	// New user: registration starts with language selection.
	session.State = StateRegisterLanguage
	b.saveSession(ctx, chatID, session)

	reply := tgbotapi.NewMessage(chatID, locale.Text("welcome", locale.LangDefault))
	reply.ReplyMarkup = createLanguageKeyboard()
	b.sendMessage(reply)
}

func (b *Bot) handleRegisterLanguage(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID

	lang, ok := LanguageByLabel(msg.Text)
	if !ok {
		b.sendText(chatID, "Please select a button / Пожалуйста, выберите кнопку")
		return
	}

	session.Language = lang
	session.State = StateRegisterPhone
	b.saveSession(ctx, chatID, session)

	reply := tgbotapi.NewMessage(chatID, locale.Text("share_contact", lang))
	reply.ReplyMarkup = createContactKeyboard(lang)
	b.sendMessage(reply)
}

// handleRegisterPhone re-prompts until the user shares a contact; the
// actual payload arrives through handleContactShared.
func (b *Bot) handleRegisterPhone(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	lang := session.Lang()
	reply := tgbotapi.NewMessage(msg.Chat.ID, locale.Text("share_contact", lang))
	reply.ReplyMarkup = createContactKeyboard(lang)
	b.sendMessage(reply)
}

func (b *Bot) handleContactShared(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()

	err := b.api.Register(ctx, api.RegisterRequest{
		TelegramID:  strconv.FormatInt(msg.From.ID, 10),
		PhoneNumber: msg.Contact.PhoneNumber,
		FullName:    displayName(msg.From),
		CurrentLang: lang,
	})
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	reply := tgbotapi.NewMessage(chatID, locale.Text("registered_wait", lang))
	reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.sendMessage(reply)

	// Registration done: drop the session so the next contact goes through
	// login again once the account is approved.
	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.log(ctx).Error("Failed to clear session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) handleMainMenu(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()

	switch MatchControl(msg.Text, lang) {
	case ControlOrder:
		session.ResetNavigation()
		ok, err := b.showCatalog(ctx, chatID, session, "", 0, "")
		if err != nil {
			b.sendText(chatID, fmt.Sprintf("Error: %v", err))
			return
		}
		if !ok {
			b.sendText(chatID, locale.Text("no_items", lang))
		}

	case ControlHistory:
		b.showOrderHistory(ctx, msg, session)

	case ControlSettings:
		session.State = StateSettingsLanguage
		b.saveSession(ctx, chatID, session)
		reply := tgbotapi.NewMessage(chatID, locale.Text("welcome", lang))
		reply.ReplyMarkup = createLanguageKeyboard()
		b.sendMessage(reply)

	case ControlContactUs:
		b.sendText(chatID, locale.Text("contact_info", lang))

	case ControlComment:
		session.State = StateComment
		b.saveSession(ctx, chatID, session)
		b.sendText(chatID, locale.Text("comment_prompt", lang))

	default:
		b.sendText(chatID, locale.Text("use_keyboard", lang))
	}
}

func (b *Bot) handleSettingsLanguage(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID

	lang, ok := LanguageByLabel(msg.Text)
	if !ok {
		b.sendText(chatID, "Please select a button / Пожалуйста, выберите кнопку")
		return
	}

	session.Language = lang
	session.State = StateMainMenu
	b.saveSession(ctx, chatID, session)

	if err := b.api.UpdateLanguage(ctx, session.Token, lang); err != nil {
		b.log(ctx).Warn("Failed to update language on profile",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	reply := tgbotapi.NewMessage(chatID, locale.Text("menu_main", lang))
	reply.ReplyMarkup = createMainMenuKeyboard(lang)
	b.sendMessage(reply)
}

func (b *Bot) handleComment(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()

	b.log(ctx).Info("User comment received",
		zap.Int64("chat_id", chatID),
		zap.String("comment", msg.Text))

	session.State = StateMainMenu
	b.saveSession(ctx, chatID, session)

	reply := tgbotapi.NewMessage(chatID, locale.Text("comment_thanks", lang))
	reply.ReplyMarkup = createMainMenuKeyboard(lang)
	b.sendMessage(reply)
}

var historyStatusIcons = map[string]string{
	"pending":   "⏳",
	"confirmed": "✅",
	"rejected":  "❌",
	"declined":  "❌",
}

func (b *Bot) showOrderHistory(ctx context.Context, msg *tgbotapi.Message, session *Session) {
	chatID := msg.Chat.ID
	lang := session.Lang()
	telegramID := strconv.FormatInt(msg.From.ID, 10)

	user, err := b.api.GetUser(ctx, telegramID)
	if err != nil || user == nil {
		b.sendText(chatID, locale.Text("profile_not_found", lang))
		return
	}

	orders, err := b.api.GetUserOrders(ctx, session.Token, user.ID, 0, 10)
	if err != nil {
		b.sendText(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if len(orders) == 0 {
		b.sendText(chatID, locale.Text("no_orders", lang))
		return
	}

	var sb strings.Builder
	sb.WriteString(locale.Text("history_header", lang))
	sb.WriteString("\n\n")
	for _, order := range orders {
		icon, ok := historyStatusIcons[order.Status]
		if !ok {
			icon = "❓"
		}
		date, _, _ := strings.Cut(order.CreatedAt, "T")
		fmt.Fprintf(&sb, "%s Order #%s | %s | %s\n",
			icon, order.OrderNumber.String(), date, locale.FormatPrice(order.TotalAmount))
	}
	b.sendText(chatID, sb.String())
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	if name == "" {
		name = "Unknown"
	}
	return name
}
