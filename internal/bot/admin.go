package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/logger"
)

// isAdmin reports whether the Telegram user may run admin commands and
// decide orders/top-ups.
func (b *Bot) isAdmin(ctx context.Context, id int64) bool {
	if id == b.cfg.OwnerID {
		return true
	}
	admins, err := b.settings.AdminIDs(ctx)
	if err != nil {
		logger.Errorf("failed to load admin list: %v", err)
		return false
	}
	for _, adminID := range admins {
		if adminID == id {
			return true
		}
	}
	return false
}

func (b *Bot) handleAdminCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !b.isAdmin(ctx, msg.From.ID) {
		b.reply(msg.Chat.ID, adminOnlyText())
		return
	}

	args := strings.Fields(msg.CommandArguments())
	switch msg.Command() {
	case "approve":
		b.adminApprove(ctx, msg, args)
	case "remove":
		b.adminRemove(ctx, msg, args)
	case "addadmin":
		b.adminAddAdmin(ctx, msg, args)
	case "deladmin":
		b.adminDelAdmin(ctx, msg, args)
	case "setprice":
		b.adminSetPrice(ctx, msg, args)
	case "delprice":
		b.adminDelPrice(ctx, msg, args)
	case "maintenance":
		b.adminMaintenance(msg, args)
	case "stats":
		b.adminStats(ctx, msg)
	}
}

func (b *Bot) adminApprove(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: /approve <user\\_id>")
		return
	}
	if err := b.settings.Authorize(ctx, args[0]); err != nil {
		logger.Errorf("failed to authorize %s: %v", args[0], err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ User `%s` can use the bot now.", args[0]))
	b.notifyRegistered(args[0])
}

func (b *Bot) adminRemove(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: /remove <user\\_id>")
		return
	}
	if err := b.settings.Revoke(ctx, args[0]); err != nil {
		logger.Errorf("failed to revoke %s: %v", args[0], err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🚫 User `%s` removed from the allow-list.", args[0]))
}

func (b *Bot) adminAddAdmin(ctx context.Context, msg *tgbotapi.Message, args []string) {
	id, ok := parseAdminID(args)
	if !ok {
		b.reply(msg.Chat.ID, "Usage: /addadmin <user\\_id>")
		return
	}
	if err := b.settings.AddAdmin(ctx, id); err != nil {
		logger.Errorf("failed to add admin %d: %v", id, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("👑 `%d` is an admin now.", id))
}

func (b *Bot) adminDelAdmin(ctx context.Context, msg *tgbotapi.Message, args []string) {
	id, ok := parseAdminID(args)
	if !ok {
		b.reply(msg.Chat.ID, "Usage: /deladmin <user\\_id>")
		return
	}
	if err := b.settings.RemoveAdmin(ctx, id); err != nil {
		logger.Errorf("failed to remove admin %d: %v", id, err)
		b.reply(msg.Chat.ID, "❌ "+err.Error())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("👋 `%d` is no longer an admin.", id))
}

func (b *Bot) adminSetPrice(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 2 {
		b.reply(msg.Chat.ID, "Usage: /setprice <code> <price>")
		return
	}
	price, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || price < 0 {
		b.reply(msg.Chat.ID, "Price must be a non-negative integer (MMK).")
		return
	}
	if err := b.settings.SetPrice(ctx, args[0], price); err != nil {
		logger.Errorf("failed to set price %s=%d: %v", args[0], price, err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("💰 Price override: `%s` → %d MMK", args[0], price))
}

func (b *Bot) adminDelPrice(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: /delprice <code>")
		return
	}
	if err := b.settings.DeletePrice(ctx, args[0]); err != nil {
		logger.Errorf("failed to delete price %s: %v", args[0], err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🗑 Price override for `%s` removed, builtin price applies.", args[0]))
}

func (b *Bot) adminMaintenance(msg *tgbotapi.Message, args []string) {
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		b.reply(msg.Chat.ID, "Usage: /maintenance <orders|topups|general> <on|off>")
		return
	}
	// "on" turns the feature on, i.e. leaves maintenance mode.
	if !b.maint.Set(gate.Capability(args[0]), args[1] == "on") {
		b.reply(msg.Chat.ID, "Unknown feature class. Use orders, topups or general.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🔧 Feature `%s` switched *%s*.", args[0], args[1]))
}

func (b *Bot) adminStats(ctx context.Context, msg *tgbotapi.Message) {
	count, err := b.users.Count(ctx)
	if err != nil {
		logger.Errorf("failed to count users: %v", err)
		b.reply(msg.Chat.ID, upstreamErrorText())
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("📊 *Bot stats*\n\n👥 Registered users: %d", count))
}

func (b *Bot) notifyRegistered(uid string) {
	chatID, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return
	}
	b.reply(chatID, registrationApprovedText())
}

func parseAdminID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
