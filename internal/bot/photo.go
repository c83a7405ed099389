package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/logger"
	"github.com/immortal-music/mlbbtopup/internal/topup"
)

// handlePhoto treats an incoming photo as payment evidence when the sender
// has an open top-up flow.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)

	awaiting, err := b.sessions.IsAwaitingApproval(ctx, uid)
	if err != nil {
		logger.Errorf("failed to read session for %s: %v", uid, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	if awaiting {
		b.reply(msg.Chat.ID, awaitingApprovalText())
		return
	}

	// Telegram sends several sizes; the last one is the largest.
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	t, err := b.topups.SubmitEvidence(ctx, topup.EvidenceRequest{
		UserID:      uid,
		UserName:    displayName(msg.From),
		ChatID:      msg.Chat.ID,
		ImageFileID: fileID,
	})
	if errors.Is(err, topup.ErrNoOpenTopup) {
		b.reply(msg.Chat.ID, photoWithoutTopupText())
		return
	}
	if err != nil {
		logger.Errorf("failed to record top-up evidence for %s: %v", uid, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}

	b.forwardEvidence(ctx, t)
	b.reply(msg.Chat.ID, evidenceRecordedText(t))
}

// forwardEvidence sends the screenshot itself to every admin, best effort.
// The textual notification with decision buttons is broadcast by the top-up
// service.
func (b *Bot) forwardEvidence(ctx context.Context, t *topup.Topup) {
	admins, err := b.settings.AdminIDs(ctx)
	if err != nil {
		logger.Errorf("failed to load admin list for evidence forward: %v", err)
		return
	}
	for _, adminID := range admins {
		photo := tgbotapi.NewPhoto(adminID, tgbotapi.FileID(t.ImageFileID))
		photo.Caption = "📸 Screenshot for top-up " + t.TopupID
		if _, err := b.api.Send(photo); err != nil {
			logger.Errorf("failed to forward evidence to admin %d: %v", adminID, err)
		}
	}
}

// handleText answers plain messages with short hints; users locked behind an
// approval keep getting the lock message instead.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	uid := userID(msg)

	awaiting, err := b.sessions.IsAwaitingApproval(ctx, uid)
	if err == nil && awaiting {
		b.reply(msg.Chat.ID, awaitingApprovalText())
		return
	}

	b.reply(msg.Chat.ID, simpleReplyText(msg.Text))
}
