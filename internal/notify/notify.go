// Package notify fans a message out to every admin and to the admin group.
// Delivery is best effort: per-recipient failures are counted and logged but
// never propagated, so a dead admin chat cannot block an order or top-up.
package notify

import (
	"context"

	"github.com/immortal-music/mlbbtopup/internal/logger"
	"github.com/immortal-music/mlbbtopup/internal/metrics"
)

// Button is one inline decision affordance attached to a notification.
// Exactly one of Data or URL is set.
type Button struct {
	Label string
	Data  string
	URL   string
}

// Messenger is the outbound side of the chat platform.
type Messenger interface {
	Send(chatID int64, text string, buttons [][]Button) error
}

type AdminDirectory interface {
	AdminIDs(ctx context.Context) ([]int64, error)
}

type Notifier struct {
	messenger Messenger
	admins    AdminDirectory
	groupID   int64
}

func New(messenger Messenger, admins AdminDirectory, groupID int64) *Notifier {
	return &Notifier{messenger: messenger, admins: admins, groupID: groupID}
}

// Broadcast sends text with the given buttons to every admin, then to the
// admin group if one is configured. Returns the number of deliveries that
// failed; the caller never treats that as an error.
func (n *Notifier) Broadcast(ctx context.Context, text string, buttons [][]Button) int {
	failed := 0

	adminIDs, err := n.admins.AdminIDs(ctx)
	if err != nil {
		logger.Errorf("failed to load admin list for notification: %v", err)
		adminIDs = nil
		failed++
	}

	for _, id := range adminIDs {
		if err := n.messenger.Send(id, text, buttons); err != nil {
			logger.Errorf("failed to notify admin %d: %v", id, err)
			metrics.RecordNotifyFailure()
			failed++
		}
	}

	if n.groupID != 0 {
		// The group gets the detail without decision buttons.
		if err := n.messenger.Send(n.groupID, text, nil); err != nil {
			logger.Errorf("failed to notify admin group %d: %v", n.groupID, err)
			metrics.RecordNotifyFailure()
			failed++
		}
	}

	return failed
}

// NotifyAdmins sends to the admin list only, no group copy. Used for
// alerts like banned-account attempts.
func (n *Notifier) NotifyAdmins(ctx context.Context, text string) {
	adminIDs, err := n.admins.AdminIDs(ctx)
	if err != nil {
		logger.Errorf("failed to load admin list for alert: %v", err)
		return
	}
	for _, id := range adminIDs {
		if err := n.messenger.Send(id, text, nil); err != nil {
			logger.Errorf("failed to alert admin %d: %v", id, err)
			metrics.RecordNotifyFailure()
		}
	}
}
