package topup

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Topup — a balance top-up request backed by a payment screenshot. Balance is
// credited only when an admin approves.
type Topup struct {
	TopupID     string     `bson:"topup_id" json:"topup_id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	UserName    string     `bson:"user_name" json:"user_name"`
	Amount      int64      `bson:"amount" json:"amount"`
	Method      string     `bson:"method" json:"method"`
	ImageFileID string     `bson:"image_file_id" json:"image_file_id"`
	Status      string     `bson:"status" json:"status"`
	ChatID      int64      `bson:"chat_id" json:"chat_id"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	DecidedBy   string     `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt   *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}

func NewTopupID() string {
	return "TOP-" + uuid.NewString()
}
