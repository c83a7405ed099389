// Package bot is the Telegram front end: command dispatch, inline-button
// callbacks and the payment-screenshot handler. All business rules live in
// the order, topup, gate and pricing packages; this package parses, calls
// and renders.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/config"
	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/logger"
	"github.com/immortal-music/mlbbtopup/internal/metrics"
	"github.com/immortal-music/mlbbtopup/internal/order"
	"github.com/immortal-music/mlbbtopup/internal/pricing"
	"github.com/immortal-music/mlbbtopup/internal/session"
	"github.com/immortal-music/mlbbtopup/internal/settings"
	"github.com/immortal-music/mlbbtopup/internal/topup"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	gate     *gate.Gate
	maint    *gate.Maintenance
	users    user.Repository
	orders   order.Service
	topups   topup.Service
	pricing  *pricing.Table
	settings settings.Repository
	sessions *session.Store
}

type Deps struct {
	Config   *config.Config
	Gate     *gate.Gate
	Maint    *gate.Maintenance
	Users    user.Repository
	Orders   order.Service
	Topups   topup.Service
	Pricing  *pricing.Table
	Settings settings.Repository
	Sessions *session.Store
}

func New(api *tgbotapi.BotAPI, deps Deps) *Bot {
	return &Bot{
		api:      api,
		cfg:      deps.Config,
		gate:     deps.Gate,
		maint:    deps.Maint,
		users:    deps.Users,
		orders:   deps.Orders,
		topups:   deps.Topups,
		pricing:  deps.Pricing,
		settings: deps.Settings,
		sessions: deps.Sessions,
	}
}

// Run consumes updates until ctx is cancelled. Handlers run to completion
// one at a time, in update order.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	logger.Infof("bot running as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil:
		// edits, polls etc.
	case update.Message.IsCommand():
		metrics.RecordCommand(update.Message.Command())
		b.handleCommand(ctx, update.Message)
	case len(update.Message.Photo) > 0:
		b.handlePhoto(ctx, update.Message)
	default:
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.cmdStart(ctx, msg)
	case "help":
		b.reply(msg.Chat.ID, helpText())
	case "mmb":
		b.cmdMmb(ctx, msg)
	case "balance":
		b.cmdBalance(ctx, msg)
	case "topup":
		b.cmdTopup(ctx, msg)
	case "price":
		b.cmdPrice(ctx, msg)
	case "history":
		b.cmdHistory(ctx, msg)
	case "register":
		b.cmdRegister(ctx, msg)
	case "cancel":
		b.cmdCancel(ctx, msg)
	case "approve", "remove", "addadmin", "deladmin", "setprice", "delprice", "maintenance", "stats":
		b.handleAdminCommand(ctx, msg)
	default:
		b.reply(msg.Chat.ID, unknownCommandText())
	}
}

// reply sends markdown text without buttons and logs delivery errors.
func (b *Bot) reply(chatID int64, text string) {
	b.replyWithKeyboard(chatID, text, nil)
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		logger.Errorf("failed to send message to chat %d: %v", chatID, err)
	}
}

func userID(msg *tgbotapi.Message) string {
	return fromID(msg.From)
}

func fromID(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return int64String(u.ID)
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return "User"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = "User"
	}
	return name
}
