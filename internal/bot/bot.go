package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"partshop-bot/internal/config"
	"partshop-bot/pkg/api"
)

// telegramAPI is the slice of tgbotapi.BotAPI the handlers use. Tests
// substitute a recording fake.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	bot      telegramAPI
	api      *api.Client
	sessions *SessionStore
	logger   *zap.Logger
	cfg      *config.Config

	// One mutex per conversation. Long polling delivers updates in order,
	// but each one is handled on its own goroutine; without this, two
	// messages from the same chat could read-modify-write one session
	// concurrently and lose an update.
	chatLocks sync.Map
}

func New(
	cfg *config.Config,
	apiClient *api.Client,
	sessions *SessionStore,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return &Bot{
		bot:      botAPI,
		api:      apiClient,
		sessions: sessions,
		logger:   logger,
		cfg:      cfg,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.bot.StopReceivingUpdates()
			return nil

		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

type requestIDKey struct{}

// log returns the base logger annotated with the update's request id.
func (b *Bot) log(ctx context.Context) *zap.Logger {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return b.logger.With(zap.String("request_id", id))
	}
	return b.logger
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = context.WithValue(ctx, requestIDKey{}, uuid.NewString())

	switch {
	case update.InlineQuery != nil:
		b.handleInlineQuery(ctx, update.InlineQuery)

	case update.CallbackQuery != nil:
		unlock := b.lockChat(update.CallbackQuery.From.ID)
		defer unlock()
		b.processCallback(ctx, update.CallbackQuery)

	case update.Message != nil:
		unlock := b.lockChat(update.Message.Chat.ID)
		defer unlock()
		b.processMessage(ctx, update.Message)
	}
}

func (b *Bot) lockChat(chatID int64) func() {
	v, _ := b.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	logger := b.log(ctx)

	logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	session, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendText(chatID, "❌ Internal error, please try again")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, session)
		return
	}

	if strings.HasPrefix(msg.Text, inlineSelectionPrefix) {
		b.handleInlineSelection(ctx, msg, session)
		return
	}

	if msg.Contact != nil && session.State == StateRegisterPhone {
		b.handleContactShared(ctx, msg, session)
		return
	}

	switch session.State {
	case StateRegisterLanguage:
		b.handleRegisterLanguage(ctx, msg, session)
	case StateRegisterPhone:
		b.handleRegisterPhone(ctx, msg, session)
	case StateMainMenu:
		b.handleMainMenu(ctx, msg, session)
	case StateCatalog:
		b.handleCatalog(ctx, msg, session)
	case StateAmount:
		b.handleAmount(ctx, msg, session)
	case StateCart:
		b.handleCart(ctx, msg, session)
	case StateSettingsLanguage:
		b.handleSettingsLanguage(ctx, msg, session)
	case StateComment:
		b.handleComment(ctx, msg, session)
	default:
		// No state: the user never started the bot, or the bot restarted.
		b.initializeUser(ctx, msg, session)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) saveSession(ctx context.Context, chatID int64, session *Session) {
	if err := b.sessions.Save(ctx, chatID, session); err != nil {
		b.log(ctx).Error("Failed to save session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
