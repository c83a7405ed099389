package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/metrics"
	"github.com/immortal-music/mlbbtopup/internal/notify"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

var (
	ErrInvalidAccount = errors.New("invalid game or server id")
	ErrBannedAccount  = errors.New("account is banned from top-ups")
	ErrAlreadyDecided = errors.New("order has already been decided")
	ErrBadDecision    = errors.New("decision must be confirmed or cancelled")
)

// InsufficientBalanceError reports how much the user is short.
type InsufficientBalanceError struct {
	Price   int64
	Balance int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need %d, have %d", e.Price, e.Balance)
}

func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Price - e.Balance
}

type Pricer interface {
	PriceOf(ctx context.Context, code string) (int64, error)
}

type Notifier interface {
	Broadcast(ctx context.Context, text string, buttons [][]notify.Button) int
	NotifyAdmins(ctx context.Context, text string)
}

// Request is a parsed /mmb command.
type Request struct {
	UserID   string
	UserName string
	ChatID   int64
	GameID   string
	ServerID string
	Code     string
}

type Service interface {
	Submit(ctx context.Context, req Request) (*Order, error)
	Decide(ctx context.Context, orderID, decision, adminName string) (*Order, error)
}

type service struct {
	gate     *gate.Gate
	pricing  Pricer
	users    user.Repository
	orders   Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(g *gate.Gate, pricing Pricer, users user.Repository, orders Repository, notifier Notifier) Service {
	return &service{
		gate:     g,
		pricing:  pricing,
		users:    users,
		orders:   orders,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Submit(ctx context.Context, req Request) (*Order, error) {
	if err := s.gate.Check(ctx, req.UserID, gate.CapOrders); err != nil {
		return nil, err
	}

	if !validAccountRef(req.GameID, req.ServerID) {
		return nil, ErrInvalidAccount
	}

	if bannedAccount(req.GameID) {
		// Alert is best effort and must not delay the rejection.
		s.notifier.NotifyAdmins(ctx, bannedAccountAlert(req, s.now()))
		return nil, ErrBannedAccount
	}

	price, err := s.pricing.PriceOf(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	debited, err := s.users.DebitIfSufficient(ctx, req.UserID, price)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, &InsufficientBalanceError{Price: price, Balance: u.Balance}
	}

	now := s.now().UTC()
	o := &Order{
		OrderID:   NewOrderID(now),
		UserID:    req.UserID,
		UserName:  req.UserName,
		GameID:    req.GameID,
		ServerID:  req.ServerID,
		Code:      req.Code,
		Price:     price,
		Status:    StatusPending,
		ChatID:    req.ChatID,
		CreatedAt: now,
	}

	if err := s.orders.Insert(ctx, o); err != nil {
		// The debit already landed; give it back rather than strand it.
		if creditErr := s.users.Credit(ctx, req.UserID, price); creditErr != nil {
			return nil, fmt.Errorf("order insert failed and refund failed: %v: %w", creditErr, err)
		}
		return nil, err
	}

	if err := s.users.PushOrder(ctx, req.UserID, user.OrderEntry{
		OrderID:   o.OrderID,
		Code:      o.Code,
		Price:     o.Price,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}); err != nil {
		return nil, err
	}

	metrics.RecordOrder(StatusPending)
	s.notifier.Broadcast(ctx, newOrderNotification(o), decisionButtons(o.OrderID))

	return o, nil
}

func (s *service) Decide(ctx context.Context, orderID, decision, adminName string) (*Order, error) {
	if decision != StatusConfirmed && decision != StatusCancelled {
		return nil, ErrBadDecision
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	applied, err := s.orders.Decide(ctx, orderID, decision, adminName)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrAlreadyDecided
	}

	if decision == StatusCancelled {
		// Orders debit at creation time, so a cancel credits the price back.
		if err := s.users.Credit(ctx, o.UserID, o.Price); err != nil {
			return nil, fmt.Errorf("order cancelled but refund failed: %w", err)
		}
	}

	if err := s.users.SetOrderEntryStatus(ctx, o.UserID, orderID, decision); err != nil {
		return nil, err
	}

	metrics.RecordOrder(decision)

	now := s.now().UTC()
	o.Status = decision
	o.DecidedBy = adminName
	o.DecidedAt = &now
	return o, nil
}

func decisionButtons(orderID string) [][]notify.Button {
	return [][]notify.Button{{
		{Label: "✅ Confirm", Data: "order_confirm_" + orderID},
		{Label: "❌ Cancel", Data: "order_cancel_" + orderID},
	}}
}

func newOrderNotification(o *Order) string {
	return fmt.Sprintf(
		"🔔 *New order received!*\n\n"+
			"📝 *Order ID:* `%s`\n"+
			"👤 *User:* [%s](tg://user?id=%s)\n"+
			"🆔 *User ID:* `%s`\n"+
			"🎮 *Game ID:* `%s`\n"+
			"🌐 *Server ID:* `%s`\n"+
			"💎 *Amount:* %s\n"+
			"💰 *Price:* %d MMK\n"+
			"⏰ *Time:* %s\n"+
			"📊 *Status:* ⏳ pending",
		o.OrderID, o.UserName, o.UserID, o.UserID, o.GameID, o.ServerID,
		o.Code, o.Price, o.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}

func bannedAccountAlert(req Request, now time.Time) string {
	return fmt.Sprintf(
		"🚫 *Banned account top-up attempt*\n\n"+
			"👤 *User:* [%s](tg://user?id=%s)\n"+
			"🆔 *User ID:* `%s`\n"+
			"🎮 *Game ID:* `%s`\n"+
			"🌐 *Server ID:* `%s`\n"+
			"💎 *Amount:* %s\n"+
			"⏰ *Time:* %s",
		req.UserName, req.UserID, req.UserID, req.GameID, req.ServerID,
		req.Code, now.Format("2006-01-02 15:04:05"),
	)
}
