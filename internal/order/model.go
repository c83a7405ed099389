package order

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Order — a diamond purchase awaiting admin confirmation. The balance is
// debited when the order is created; cancelling credits it back.
type Order struct {
	OrderID   string     `bson:"order_id" json:"order_id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	UserName  string     `bson:"user_name" json:"user_name"`
	GameID    string     `bson:"game_id" json:"game_id"`
	ServerID  string     `bson:"server_id" json:"server_id"`
	Code      string     `bson:"code" json:"code"`
	Price     int64      `bson:"price" json:"price"`
	Status    string     `bson:"status" json:"status"`
	ChatID    int64      `bson:"chat_id" json:"chat_id"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	DecidedBy string     `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}

// NewOrderID embeds the creation timestamp, e.g. ORD20240830143015.
func NewOrderID(now time.Time) string {
	return "ORD" + now.Format("20060102150405")
}
