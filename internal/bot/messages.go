package bot

import (
	"fmt"
	"strings"

	"github.com/immortal-music/mlbbtopup/internal/order"
	"github.com/immortal-music/mlbbtopup/internal/pricing"
	"github.com/immortal-music/mlbbtopup/internal/topup"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

// Payment accounts shown when a top-up flow starts.
const (
	kpayNumber = "09678786528"
	kpayHolder = "Ma May Phoo Wai"
	waveNumber = "09673585480"
	waveHolder = "Nine Nine"
)

func helpText() string {
	return "📱 *Available commands:*\n\n" +
		"• /start — register and show this menu\n" +
		"• /mmb <game\\_id> <server\\_id> <code> — order diamonds\n" +
		"• /balance — check your balance\n" +
		"• /topup <amount> — top up your balance\n" +
		"• /price — price list\n" +
		"• /history — your orders and top-ups\n" +
		"• /cancel — cancel an open top-up flow\n\n" +
		"💡 Contact the owner if you need help."
}

func unknownCommandText() string {
	return "❓ Unknown command. Use /help for the command list."
}

func welcomeText(name, uid string) string {
	return fmt.Sprintf(
		"👋 *Hello* [%s](tg://user?id=%s)!\n"+
			"🆔 *Your Telegram ID:* `%s`\n\n"+
			"💎 Welcome to the *MLBB Auto Top-Up Bot*.\n\n"+
			"*Examples:*\n"+
			"`/mmb 123456789 12345 wp1`\n"+
			"`/mmb 123456789 12345 86`\n\n%s",
		name, uid, uid, helpText(),
	)
}

func mmbUsageText() string {
	return "❌ *Wrong format!*\n\n" +
		"*Correct usage:*\n" +
		"/mmb <game\\_id> <server\\_id> <code>\n\n" +
		"*Examples:*\n" +
		"`/mmb 123456789 12345 wp1`\n" +
		"`/mmb 123456789 12345 86`"
}

func orderAcceptedText(o *order.Order, balance int64) string {
	return fmt.Sprintf(
		"✅ *Order placed!*\n\n"+
			"📝 *Order ID:* `%s`\n"+
			"🎮 *Game ID:* `%s`\n"+
			"🌐 *Server ID:* `%s`\n"+
			"💎 *Item:* %s\n"+
			"💰 *Charged:* %d MMK\n"+
			"💳 *Balance:* %d MMK\n"+
			"📊 *Status:* ⏳ pending\n\n"+
			"⚠️ Diamonds arrive after an admin confirms the order.",
		o.OrderID, o.GameID, o.ServerID, o.Code, o.Price, balance,
	)
}

func insufficientBalanceText(e *order.InsufficientBalanceError) string {
	return fmt.Sprintf(
		"❌ *Not enough balance!*\n\n"+
			"💰 *Needed:* %d MMK\n"+
			"💳 *You have:* %d MMK\n"+
			"❗ *Short by:* %d MMK\n\n"+
			"Top up with `/topup <amount>`.",
		e.Price, e.Balance, e.Shortfall(),
	)
}

func invalidAccountText() string {
	return "❌ *Invalid account!*\n\n" +
		"*Requirements:*\n" +
		"• Game ID: digits only, 6–10 digits\n" +
		"• Server ID: digits only, 3–5 digits\n\n" +
		"*Example:* `/mmb 123456789 12345 86`"
}

func bannedAccountText() string {
	return "🚫 *This account is blocked!*\n\n" +
		"❌ Diamond top-ups are not possible for this game id.\n\n" +
		"🔄 Try a different account, or contact an admin if you think this is a mistake."
}

func unknownItemText() string {
	return "❌ *Unknown item code!*\n\n" +
		"*Available codes:*\n" +
		"• Weekly pass: wp1–wp10\n" +
		"• Diamonds: " + strings.Join(pricing.Codes(), ", ")
}

func startFirstText() string {
	return "❌ Please run /start first."
}

func upstreamErrorText() string {
	return "⚠️ Something went wrong on our side. Please try again in a moment."
}

func balanceText(u *user.User) string {
	pendingCount, pendingAmount := u.PendingTopups()
	status := ""
	if pendingCount > 0 {
		status = fmt.Sprintf(
			"\n⏳ *Pending top-ups:* %d (%d MMK)\n❗ Orders stay blocked until an admin decides.",
			pendingCount, pendingAmount,
		)
	}
	return fmt.Sprintf(
		"💳 *Your account*\n\n"+
			"💰 *Balance:* `%d MMK`\n"+
			"📦 *Orders:* %d\n"+
			"💳 *Top-ups:* %d%s\n\n"+
			"👤 *Name:* %s\n"+
			"🆔 *Username:* @%s",
		u.Balance, len(u.Orders), len(u.Topups), status,
		escapeMarkdown(u.Name), escapeMarkdown(u.Username),
	)
}

func topupUsageText() string {
	return "💳 *Top up your balance*\n\n" +
		"Usage: `/topup <amount>` (MMK, positive integer)\n\n" +
		"After choosing a payment method, transfer the money and send the payment screenshot here."
}

func topupStartedText(amount int64) string {
	return fmt.Sprintf(
		"💳 *Top-up: %d MMK*\n\n"+
			"1️⃣ Pick a payment method below\n"+
			"2️⃣ Transfer the money\n"+
			"3️⃣ Send the screenshot here\n\n"+
			"📱 *KPay:* `%s` (%s)\n"+
			"🌊 *Wave:* `%s` (%s)\n\n"+
			"❌ /cancel to abort.",
		amount, kpayNumber, kpayHolder, waveNumber, waveHolder,
	)
}

func paymentDetailsText(method string) string {
	if method == "kpay" {
		return fmt.Sprintf(
			"📱 *KPay*\n\n"+
				"📞 *Number:* `%s`\n"+
				"👤 *Name:* %s\n\n"+
				"📸 Send the payment screenshot here when done.",
			kpayNumber, kpayHolder,
		)
	}
	return fmt.Sprintf(
		"🌊 *Wave*\n\n"+
			"📞 *Number:* `%s`\n"+
			"👤 *Name:* %s\n\n"+
			"📸 Send the payment screenshot here when done.",
		waveNumber, waveHolder,
	)
}

func priceListText(overrides map[string]int64) string {
	var b strings.Builder
	b.WriteString("💎 *Price list (MMK)*\n\n")
	b.WriteString("*Weekly pass:* wp1–wp10, 6,000 each\n\n*Diamonds:*\n")
	for _, code := range pricing.Codes() {
		price, _ := pricing.BuiltinPrice(code)
		if override, ok := overrides[code]; ok {
			price = override
		}
		fmt.Fprintf(&b, "• %s — %d\n", code, price)
	}
	for code, price := range overrides {
		if _, ok := pricing.BuiltinPrice(code); !ok {
			fmt.Fprintf(&b, "• %s — %d\n", code, price)
		}
	}
	return b.String()
}

func historyText(u *user.User) string {
	if len(u.Orders) == 0 && len(u.Topups) == 0 {
		return "📭 No orders or top-ups yet."
	}

	var b strings.Builder
	b.WriteString("📜 *Your history*\n")
	if len(u.Orders) > 0 {
		b.WriteString("\n*Orders:*\n")
		for _, o := range lastOrders(u.Orders, 10) {
			fmt.Fprintf(&b, "• `%s` — %s, %d MMK, %s\n", o.OrderID, o.Code, o.Price, statusIcon(o.Status))
		}
	}
	if len(u.Topups) > 0 {
		b.WriteString("\n*Top-ups:*\n")
		for _, t := range lastTopups(u.Topups, 10) {
			fmt.Fprintf(&b, "• %d MMK — %s\n", t.Amount, statusIcon(t.Status))
		}
	}
	return b.String()
}

func statusIcon(status string) string {
	switch status {
	case "pending":
		return "⏳ pending"
	case "confirmed", "approved":
		return "✅ " + status
	case "cancelled", "rejected":
		return "❌ " + status
	default:
		return status
	}
}

func lastOrders(entries []user.OrderEntry, n int) []user.OrderEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func lastTopups(entries []user.TopupEntry, n int) []user.TopupEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func unauthorizedText(name, uid string) string {
	return fmt.Sprintf(
		"🚫 *No access yet!*\n\n"+
			"👋 Hello `%s`!\n"+
			"🆔 Your ID: `%s`\n\n"+
			"❌ You are not registered for this bot.\n\n"+
			"Press the button below or use /register, then wait for the owner's approval.",
		escapeMarkdown(name), uid,
	)
}

func maintenanceText(name string) string {
	return fmt.Sprintf(
		"Hello %s! 👋\n\n"+
			"⏸️ *This feature is temporarily switched off for maintenance.*\n\n"+
			"🔄 It will be back once an admin re-enables it.",
		escapeMarkdown(name),
	)
}

func awaitingApprovalText() string {
	return "⏳ *Screenshot received!*\n\n" +
		"❌ Commands are locked until an admin reviews your payment.\n" +
		"⏰ You can use the bot again right after the approval."
}

func topupInProgressText() string {
	return "⏳ *Finish your top-up first!*\n\n" +
		"• Pick a payment method and send the screenshot, or\n" +
		"• /cancel to abort the top-up.\n\n" +
		"💡 Orders are possible again afterwards."
}

func topupCancelledText() string {
	return "❌ Top-up cancelled. You can order or start a new top-up now."
}

func nothingToCancelText() string {
	return "ℹ️ Nothing to cancel — no top-up in progress."
}

func alreadyRegisteredText() string {
	return "✅ You are already registered. /start to begin."
}

func registerRequestedText() string {
	return "📨 *Request sent!*\n\nThe owner was notified. You will get a message once you are approved."
}

func registerRequestText(name, uid string) string {
	return fmt.Sprintf(
		"📝 *Registration request*\n\n"+
			"👤 *User:* [%s](tg://user?id=%s)\n"+
			"🆔 *User ID:* `%s`",
		name, uid, uid,
	)
}

func registrationApprovedText() string {
	return "✅ *You are approved!*\n\nWelcome aboard — press /start to begin."
}

func registrationDeniedText() string {
	return "🚫 Your registration request was denied. Contact the owner for details."
}

func adminOnlyText() string {
	return "🚫 Admins only."
}

func photoWithoutTopupText() string {
	return "ℹ️ To top up, start with `/topup <amount>`, then send the payment screenshot."
}

func evidenceRecordedText(t *topup.Topup) string {
	return fmt.Sprintf(
		"📸 *Screenshot received!*\n\n"+
			"📝 *Topup ID:* `%s`\n"+
			"💰 *Amount:* %d MMK\n"+
			"📊 *Status:* ⏳ pending\n\n"+
			"⏰ Commands unlock once an admin approves the payment.",
		t.TopupID, t.Amount,
	)
}

func topupApprovedText(t *topup.Topup) string {
	return fmt.Sprintf(
		"✅ *Top-up approved!*\n\n"+
			"💰 *Credited:* %d MMK\n"+
			"👤 *By:* %s\n\n"+
			"You can use all commands again. /balance to check.",
		t.Amount, escapeMarkdown(t.DecidedBy),
	)
}

func topupRejectedText(t *topup.Topup) string {
	return fmt.Sprintf(
		"❌ *Top-up rejected.*\n\n"+
			"💰 *Amount:* %d MMK\n"+
			"👤 *By:* %s\n\n"+
			"No balance was credited. Contact an admin if you think this is a mistake.",
		t.Amount, escapeMarkdown(t.DecidedBy),
	)
}

func orderConfirmedText(o *order.Order) string {
	return fmt.Sprintf(
		"✅ *Order completed!*\n\n"+
			"📝 *Order ID:* `%s`\n"+
			"💎 *Item:* %s\n"+
			"🎮 *Game ID:* `%s`\n\n"+
			"Enjoy your diamonds! 💎",
		o.OrderID, o.Code, o.GameID,
	)
}

func orderCancelledText(o *order.Order) string {
	return fmt.Sprintf(
		"❌ *Order cancelled.*\n\n"+
			"📝 *Order ID:* `%s`\n"+
			"💰 *Refunded:* %d MMK\n\n"+
			"Your balance is restored. Contact an admin for details.",
		o.OrderID, o.Price,
	)
}

// simpleReplyText gives canned answers to free-form messages.
func simpleReplyText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "👋 Hello! Press /start to use the bot."
	case strings.Contains(lower, "help"):
		return helpText()
	default:
		return "📱 *MLBB Diamond Top-up Bot*\n\n" +
			"💎 Order diamonds with /mmb\n" +
			"💰 See prices with /price\n" +
			"🆘 /help for everything else."
	}
}

var markdownEscaper = strings.NewReplacer("*", "", "_", "", "`", "", "[", "", "]", "")

// escapeMarkdown strips characters that would break Telegram markdown when
// interpolated from user-controlled names.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
