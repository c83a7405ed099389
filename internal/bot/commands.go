package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/logger"
	"github.com/immortal-music/mlbbtopup/internal/order"
	"github.com/immortal-music/mlbbtopup/internal/pricing"
	"github.com/immortal-music/mlbbtopup/internal/topup"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

func (b *Bot) cmdStart(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	name := displayName(msg.From)

	if err := b.gate.Check(ctx, uid, gate.CapStatus); err != nil {
		b.sendDenial(msg.Chat.ID, uid, name, err)
		return
	}

	username := "-"
	if msg.From != nil && msg.From.UserName != "" {
		username = msg.From.UserName
	}
	if _, err := b.users.GetOrCreate(ctx, uid, name, username); err != nil {
		logger.Errorf("failed to load user %s: %v", uid, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}

	// Restarting drops the screenshot lock so a stuck user can recover.
	if err := b.sessions.ClearAwaitingApproval(ctx, uid); err != nil {
		logger.Errorf("failed to clear approval lock for %s: %v", uid, err)
	}

	b.reply(msg.Chat.ID, welcomeText(name, uid))
}

func (b *Bot) cmdMmb(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 3 {
		b.reply(msg.Chat.ID, mmbUsageText())
		return
	}

	uid := userID(msg)
	o, err := b.orders.Submit(ctx, order.Request{
		UserID:   uid,
		UserName: displayName(msg.From),
		ChatID:   msg.Chat.ID,
		GameID:   args[0],
		ServerID: args[1],
		Code:     args[2],
	})
	if err != nil {
		b.sendOrderError(ctx, msg, err)
		return
	}

	u, err := b.users.FindByID(ctx, uid)
	balance := int64(0)
	if err == nil {
		balance = u.Balance
	}
	b.reply(msg.Chat.ID, orderAcceptedText(o, balance))
}

func (b *Bot) sendOrderError(ctx context.Context, msg *tgbotapi.Message, err error) {
	uid := userID(msg)
	name := displayName(msg.From)

	var insufficient *order.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		b.replyWithKeyboard(msg.Chat.ID,
			insufficientBalanceText(insufficient),
			topupButtonKeyboard(),
		)
	case errors.Is(err, order.ErrInvalidAccount):
		b.reply(msg.Chat.ID, invalidAccountText())
	case errors.Is(err, order.ErrBannedAccount):
		b.reply(msg.Chat.ID, bannedAccountText())
	case errors.Is(err, pricing.ErrUnknownItem):
		b.reply(msg.Chat.ID, unknownItemText())
	case errors.Is(err, user.ErrUserNotFound):
		b.reply(msg.Chat.ID, startFirstText())
	default:
		b.sendDenial(msg.Chat.ID, uid, name, err)
	}
}

func (b *Bot) cmdBalance(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	if err := b.gate.Check(ctx, uid, gate.CapGeneral); err != nil {
		b.sendDenial(msg.Chat.ID, uid, displayName(msg.From), err)
		return
	}

	u, err := b.users.FindByID(ctx, uid)
	if errors.Is(err, user.ErrUserNotFound) {
		b.reply(msg.Chat.ID, startFirstText())
		return
	}
	if err != nil {
		logger.Errorf("failed to load user %s: %v", uid, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}

	b.replyWithKeyboard(msg.Chat.ID, balanceText(u), topupButtonKeyboard())
}

func (b *Bot) cmdTopup(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		b.reply(msg.Chat.ID, topupUsageText())
		return
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, topupUsageText())
		return
	}

	if err := b.topups.Start(ctx, uid, amount); err != nil {
		if errors.Is(err, topup.ErrInvalidAmount) {
			b.reply(msg.Chat.ID, topupUsageText())
			return
		}
		b.sendDenial(msg.Chat.ID, uid, displayName(msg.From), err)
		return
	}

	b.replyWithKeyboard(msg.Chat.ID, topupStartedText(amount), paymentMethodKeyboard())
}

func (b *Bot) cmdPrice(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	if err := b.gate.Check(ctx, uid, gate.CapGeneral); err != nil {
		b.sendDenial(msg.Chat.ID, uid, displayName(msg.From), err)
		return
	}

	overrides, err := b.settings.Prices(ctx)
	if err != nil {
		logger.Errorf("failed to load price overrides: %v", err)
		overrides = map[string]int64{}
	}
	b.reply(msg.Chat.ID, priceListText(overrides))
}

func (b *Bot) cmdHistory(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	if err := b.gate.Check(ctx, uid, gate.CapGeneral); err != nil {
		b.sendDenial(msg.Chat.ID, uid, displayName(msg.From), err)
		return
	}

	u, err := b.users.FindByID(ctx, uid)
	if errors.Is(err, user.ErrUserNotFound) {
		b.reply(msg.Chat.ID, startFirstText())
		return
	}
	if err != nil {
		logger.Errorf("failed to load user %s: %v", uid, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}

	b.reply(msg.Chat.ID, historyText(u))
}

func (b *Bot) cmdRegister(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	authorized := uid == int64String(b.cfg.OwnerID)
	if !authorized {
		users, err := b.settings.AuthorizedUsers(ctx)
		if err != nil {
			logger.Errorf("failed to load allow-list: %v", err)
			b.reply(msg.Chat.ID, upstreamErrorText())
			return
		}
		for _, id := range users {
			if id == uid {
				authorized = true
				break
			}
		}
	}
	if authorized {
		b.reply(msg.Chat.ID, alreadyRegisteredText())
		return
	}

	b.sendRegisterRequest(msg.From)
	b.reply(msg.Chat.ID, registerRequestedText())
}

// sendRegisterRequest forwards a registration request to the owner with
// approve/deny buttons.
func (b *Bot) sendRegisterRequest(from *tgbotapi.User) {
	uid := fromID(from)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", "register_approve_"+uid),
			tgbotapi.NewInlineKeyboardButtonData("❌ Deny", "register_deny_"+uid),
		),
	)
	b.replyWithKeyboard(b.cfg.OwnerID, registerRequestText(displayName(from), uid), &keyboard)
}

func (b *Bot) cmdCancel(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)
	err := b.topups.Cancel(ctx, uid)
	if errors.Is(err, topup.ErrNothingToCancel) {
		b.reply(msg.Chat.ID, nothingToCancelText())
		return
	}
	if err != nil {
		logger.Errorf("failed to cancel top-up for %s: %v", uid, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, topupCancelledText())
}

// sendDenial maps a gate or upstream error to the user-facing message.
func (b *Bot) sendDenial(chatID int64, uid, name string, err error) {
	switch {
	case errors.Is(err, gate.ErrUnauthorized):
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📝 Request access", "request_register"),
			),
		)
		b.replyWithKeyboard(chatID, unauthorizedText(name, uid), &keyboard)
	case errors.Is(err, gate.ErrMaintenance):
		b.reply(chatID, maintenanceText(name))
	case errors.Is(err, gate.ErrAwaitingApproval):
		b.reply(chatID, awaitingApprovalText())
	case errors.Is(err, gate.ErrTopupInProgress):
		b.reply(chatID, topupInProgressText())
	default:
		logger.Errorf("command failed for user %s: %v", uid, err)
		b.reply(chatID, upstreamErrorText())
	}
}

func int64String(v int64) string {
	return strconv.FormatInt(v, 10)
}

func topupButtonKeyboard() *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Top up", "topup_button"),
		),
	)
	return &keyboard
}

func paymentMethodKeyboard() *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📱 KPay", "pay_kpay"),
			tgbotapi.NewInlineKeyboardButtonData("🌊 Wave", "pay_wave"),
		),
	)
	return &keyboard
}
