// Package gate decides whether a user may run a command right now. Checks
// run in a fixed order and the first failing one wins: allow-list, per-class
// maintenance flag, awaiting-approval lock, open top-up lock. The gate is a
// pure check; callers render the user-facing message for the denial.
package gate

import (
	"context"
	"errors"
)

// Capability classes a command for maintenance flags and session locks.
type Capability string

const (
	// CapGeneral covers read-only commands like /balance and /history.
	CapGeneral Capability = "general"
	// CapOrders covers order placement (/mmb).
	CapOrders Capability = "orders"
	// CapTopups covers starting a top-up flow (/topup).
	CapTopups Capability = "topups"
	// CapStatus is exempt from the awaiting-approval lock (/start).
	CapStatus Capability = "status"
)

var (
	ErrUnauthorized     = errors.New("user is not registered")
	ErrMaintenance      = errors.New("feature is disabled for maintenance")
	ErrAwaitingApproval = errors.New("payment screenshot is pending admin review")
	ErrTopupInProgress  = errors.New("an open top-up flow must be finished or cancelled first")
)

// AllowList is re-read on every check so an admin edit takes effect
// immediately.
type AllowList interface {
	AuthorizedUsers(ctx context.Context) ([]string, error)
}

type SessionState interface {
	IsAwaitingApproval(ctx context.Context, userID string) (bool, error)
	HasOpenTopup(ctx context.Context, userID string) (bool, error)
}

type Gate struct {
	allowList AllowList
	sessions  SessionState
	maint     *Maintenance
	ownerID   string
}

func New(allowList AllowList, sessions SessionState, maint *Maintenance, ownerID string) *Gate {
	return &Gate{
		allowList: allowList,
		sessions:  sessions,
		maint:     maint,
		ownerID:   ownerID,
	}
}

func (g *Gate) Check(ctx context.Context, userID string, cap Capability) error {
	authorized, err := g.isAuthorized(ctx, userID)
	if err != nil {
		return err
	}
	if !authorized {
		return ErrUnauthorized
	}

	if !g.maint.Enabled(cap) {
		return ErrMaintenance
	}

	if cap != CapStatus {
		awaiting, err := g.sessions.IsAwaitingApproval(ctx, userID)
		if err != nil {
			return err
		}
		if awaiting {
			return ErrAwaitingApproval
		}
	}

	if cap == CapOrders {
		open, err := g.sessions.HasOpenTopup(ctx, userID)
		if err != nil {
			return err
		}
		if open {
			return ErrTopupInProgress
		}
	}

	return nil
}

func (g *Gate) isAuthorized(ctx context.Context, userID string) (bool, error) {
	if userID == g.ownerID {
		return true, nil
	}
	users, err := g.allowList.AuthorizedUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range users {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
