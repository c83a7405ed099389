package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/logger"
	"github.com/immortal-music/mlbbtopup/internal/order"
	"github.com/immortal-music/mlbbtopup/internal/topup"
)

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	data := cq.Data

	switch {
	case data == "request_register":
		b.answerCallback(cq.ID, "Request sent")
		b.sendRegisterRequest(cq.From)
	case data == "topup_button":
		b.answerCallback(cq.ID, "")
		b.reply(cq.Message.Chat.ID, topupUsageText())
	case data == "pay_kpay":
		b.selectPaymentMethod(ctx, cq, "kpay")
	case data == "pay_wave":
		b.selectPaymentMethod(ctx, cq, "wave")
	case strings.HasPrefix(data, "order_confirm_"):
		b.decideOrder(ctx, cq, strings.TrimPrefix(data, "order_confirm_"), order.StatusConfirmed)
	case strings.HasPrefix(data, "order_cancel_"):
		b.decideOrder(ctx, cq, strings.TrimPrefix(data, "order_cancel_"), order.StatusCancelled)
	case strings.HasPrefix(data, "topup_approve_"):
		b.decideTopup(ctx, cq, strings.TrimPrefix(data, "topup_approve_"), topup.StatusApproved)
	case strings.HasPrefix(data, "topup_reject_"):
		b.decideTopup(ctx, cq, strings.TrimPrefix(data, "topup_reject_"), topup.StatusRejected)
	case strings.HasPrefix(data, "register_approve_"):
		b.decideRegistration(ctx, cq, strings.TrimPrefix(data, "register_approve_"), true)
	case strings.HasPrefix(data, "register_deny_"):
		b.decideRegistration(ctx, cq, strings.TrimPrefix(data, "register_deny_"), false)
	default:
		b.answerCallback(cq.ID, "")
	}
}

func (b *Bot) selectPaymentMethod(ctx context.Context, cq *tgbotapi.CallbackQuery, method string) {
	uid := fromID(cq.From)
	if err := b.topups.SelectMethod(ctx, uid, method); err != nil {
		if errors.Is(err, topup.ErrNoOpenTopup) {
			b.answerCallback(cq.ID, "Start with /topup <amount> first")
			return
		}
		logger.Errorf("failed to set payment method for %s: %v", uid, err)
		b.answerCallback(cq.ID, "Something went wrong, try again")
		return
	}
	b.answerCallback(cq.ID, "")
	b.reply(cq.Message.Chat.ID, paymentDetailsText(method))
}

func (b *Bot) decideOrder(ctx context.Context, cq *tgbotapi.CallbackQuery, orderID, decision string) {
	if !b.isAdmin(ctx, cq.From.ID) {
		b.answerCallback(cq.ID, "Admins only")
		return
	}

	adminName := displayName(cq.From)
	o, err := b.orders.Decide(ctx, orderID, decision, adminName)
	switch {
	case errors.Is(err, order.ErrAlreadyDecided):
		b.answerCallback(cq.ID, "Already decided")
		return
	case errors.Is(err, order.ErrOrderNotFound):
		b.answerCallback(cq.ID, "Order not found")
		return
	case err != nil:
		logger.Errorf("failed to decide order %s: %v", orderID, err)
		b.answerCallback(cq.ID, "Something went wrong, try again")
		return
	}

	b.answerCallback(cq.ID, "Done")
	b.markDecided(cq, decision, adminName)

	// Tell the buyer.
	if decision == order.StatusConfirmed {
		b.reply(o.ChatID, orderConfirmedText(o))
	} else {
		b.reply(o.ChatID, orderCancelledText(o))
	}
}

func (b *Bot) decideTopup(ctx context.Context, cq *tgbotapi.CallbackQuery, topupID, decision string) {
	if !b.isAdmin(ctx, cq.From.ID) {
		b.answerCallback(cq.ID, "Admins only")
		return
	}

	adminName := displayName(cq.From)
	t, err := b.topups.Decide(ctx, topupID, decision, adminName)
	switch {
	case errors.Is(err, topup.ErrAlreadyDecided):
		b.answerCallback(cq.ID, "Already decided")
		return
	case errors.Is(err, topup.ErrTopupNotFound):
		b.answerCallback(cq.ID, "Top-up not found")
		return
	case err != nil:
		logger.Errorf("failed to decide top-up %s: %v", topupID, err)
		b.answerCallback(cq.ID, "Something went wrong, try again")
		return
	}

	b.answerCallback(cq.ID, "Done")
	b.markDecided(cq, decision, adminName)

	if decision == topup.StatusApproved {
		b.reply(t.ChatID, topupApprovedText(t))
	} else {
		b.reply(t.ChatID, topupRejectedText(t))
	}
}

func (b *Bot) decideRegistration(ctx context.Context, cq *tgbotapi.CallbackQuery, uid string, approve bool) {
	if !b.isAdmin(ctx, cq.From.ID) {
		b.answerCallback(cq.ID, "Admins only")
		return
	}

	if approve {
		if err := b.settings.Authorize(ctx, uid); err != nil {
			logger.Errorf("failed to authorize %s: %v", uid, err)
			b.answerCallback(cq.ID, "Something went wrong, try again")
			return
		}
	}
	b.answerCallback(cq.ID, "Done")
	b.markDecided(cq, map[bool]string{true: "approved", false: "denied"}[approve], displayName(cq.From))

	if chatID, err := strconv.ParseInt(uid, 10, 64); err == nil {
		if approve {
			b.reply(chatID, registrationApprovedText())
		} else {
			b.reply(chatID, registrationDeniedText())
		}
	}
}

// markDecided rewrites the admin notification so the buttons disappear and
// the decision is visible in the chat history.
func (b *Bot) markDecided(cq *tgbotapi.CallbackQuery, decision, adminName string) {
	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(
		cq.Message.Chat.ID,
		cq.Message.MessageID,
		cq.Message.Text+"\n\n✔️ "+decision+" by "+adminName,
	)
	if _, err := b.api.Send(edit); err != nil {
		logger.Errorf("failed to edit decision message: %v", err)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		logger.Errorf("failed to answer callback: %v", err)
	}
}
