package topup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/metrics"
	"github.com/immortal-music/mlbbtopup/internal/notify"
	"github.com/immortal-music/mlbbtopup/internal/session"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

var (
	ErrInvalidAmount   = errors.New("top-up amount must be positive")
	ErrNoOpenTopup     = errors.New("no open top-up flow")
	ErrNothingToCancel = errors.New("nothing to cancel")
	ErrAlreadyDecided  = errors.New("top-up has already been decided")
	ErrBadDecision     = errors.New("decision must be approved or rejected")
)

type Notifier interface {
	Broadcast(ctx context.Context, text string, buttons [][]notify.Button) int
}

// SessionStore is the slice of the session store the lifecycle needs.
type SessionStore interface {
	StartTopup(ctx context.Context, userID string, amount int64) error
	SetTopupMethod(ctx context.Context, userID, method string) error
	OpenTopup(ctx context.Context, userID string) (*session.PendingTopup, error)
	ClearTopup(ctx context.Context, userID string) error
	SetAwaitingApproval(ctx context.Context, userID string) error
	ClearAwaitingApproval(ctx context.Context, userID string) error
}

// EvidenceRequest is a payment screenshot submitted for an open top-up flow.
type EvidenceRequest struct {
	UserID      string
	UserName    string
	ChatID      int64
	ImageFileID string
}

type Service interface {
	Start(ctx context.Context, userID string, amount int64) error
	SelectMethod(ctx context.Context, userID, method string) error
	SubmitEvidence(ctx context.Context, req EvidenceRequest) (*Topup, error)
	Decide(ctx context.Context, topupID, decision, adminName string) (*Topup, error)
	Cancel(ctx context.Context, userID string) error
}

type service struct {
	gate     *gate.Gate
	users    user.Repository
	topups   Repository
	sessions SessionStore
	notifier Notifier
	now      func() time.Time
}

func NewService(g *gate.Gate, users user.Repository, topups Repository, sessions SessionStore, notifier Notifier) Service {
	return &service{
		gate:     g,
		users:    users,
		topups:   topups,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start opens a top-up flow for the declared amount. Orders stay blocked
// until the flow finishes or is cancelled.
func (s *service) Start(ctx context.Context, userID string, amount int64) error {
	if err := s.gate.Check(ctx, userID, gate.CapTopups); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.sessions.StartTopup(ctx, userID, amount)
}

func (s *service) SelectMethod(ctx context.Context, userID, method string) error {
	open, err := s.sessions.OpenTopup(ctx, userID)
	if err != nil {
		return err
	}
	if open == nil {
		return ErrNoOpenTopup
	}
	return s.sessions.SetTopupMethod(ctx, userID, method)
}

func (s *service) SubmitEvidence(ctx context.Context, req EvidenceRequest) (*Topup, error) {
	open, err := s.sessions.OpenTopup(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNoOpenTopup
	}

	now := s.now().UTC()
	t := &Topup{
		TopupID:     NewTopupID(),
		UserID:      req.UserID,
		UserName:    req.UserName,
		Amount:      open.Amount,
		Method:      open.Method,
		ImageFileID: req.ImageFileID,
		Status:      StatusPending,
		ChatID:      req.ChatID,
		CreatedAt:   now,
	}

	if err := s.topups.Insert(ctx, t); err != nil {
		return nil, err
	}
	if err := s.users.PushTopup(ctx, req.UserID, user.TopupEntry{
		TopupID:   t.TopupID,
		Amount:    t.Amount,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}); err != nil {
		return nil, err
	}

	// The evidence is recorded; the flow ends and the approval lock begins.
	if err := s.sessions.ClearTopup(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.sessions.SetAwaitingApproval(ctx, req.UserID); err != nil {
		return nil, err
	}

	metrics.RecordTopup(StatusPending)
	s.notifier.Broadcast(ctx, newTopupNotification(t), decisionButtons(t.TopupID))

	return t, nil
}

func (s *service) Decide(ctx context.Context, topupID, decision, adminName string) (*Topup, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return nil, ErrBadDecision
	}

	t, err := s.topups.FindByID(ctx, topupID)
	if err != nil {
		return nil, err
	}

	applied, err := s.topups.Decide(ctx, topupID, decision, adminName)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrAlreadyDecided
	}

	if decision == StatusApproved {
		if err := s.users.Credit(ctx, t.UserID, t.Amount); err != nil {
			return nil, fmt.Errorf("top-up approved but credit failed: %w", err)
		}
	}

	if err := s.users.SetTopupEntryStatus(ctx, t.UserID, topupID, decision); err != nil {
		return nil, err
	}
	if err := s.sessions.ClearAwaitingApproval(ctx, t.UserID); err != nil {
		return nil, err
	}

	metrics.RecordTopup(decision)

	now := s.now().UTC()
	t.Status = decision
	t.DecidedBy = adminName
	t.DecidedAt = &now
	return t, nil
}

func (s *service) Cancel(ctx context.Context, userID string) error {
	open, err := s.sessions.OpenTopup(ctx, userID)
	if err != nil {
		return err
	}
	if open == nil {
		return ErrNothingToCancel
	}
	return s.sessions.ClearTopup(ctx, userID)
}

func decisionButtons(topupID string) [][]notify.Button {
	return [][]notify.Button{{
		{Label: "✅ Approve", Data: "topup_approve_" + topupID},
		{Label: "❌ Reject", Data: "topup_reject_" + topupID},
	}}
}

func newTopupNotification(t *Topup) string {
	method := t.Method
	if method == "" {
		method = "-"
	}
	return fmt.Sprintf(
		"💳 *New top-up request!*\n\n"+
			"📝 *Topup ID:* `%s`\n"+
			"👤 *User:* [%s](tg://user?id=%s)\n"+
			"🆔 *User ID:* `%s`\n"+
			"💰 *Amount:* %d MMK\n"+
			"🏦 *Method:* %s\n"+
			"⏰ *Time:* %s\n"+
			"📊 *Status:* ⏳ pending\n\n"+
			"📸 Screenshot attached as the next message.",
		t.TopupID, t.UserName, t.UserID, t.UserID, t.Amount, method,
		t.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}
