package user

import "time"

// User — a registered bot user. The Telegram-assigned id doubles as the
// Mongo document id. Balance is in MMK (integer, no fractional units).
type User struct {
	ID        string       `bson:"_id" json:"id"`
	Name      string       `bson:"name" json:"name"`
	Username  string       `bson:"username" json:"username"`
	Balance   int64        `bson:"balance" json:"balance"`
	Orders    []OrderEntry `bson:"orders" json:"orders"`
	Topups    []TopupEntry `bson:"topups" json:"topups"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// OrderEntry is the per-user order history record embedded in the user
// document. The full order lives in the orders collection.
type OrderEntry struct {
	OrderID   string    `bson:"order_id" json:"order_id"`
	Code      string    `bson:"code" json:"code"`
	Price     int64     `bson:"price" json:"price"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TopupEntry mirrors OrderEntry for top-up requests.
type TopupEntry struct {
	TopupID   string    `bson:"topup_id" json:"topup_id"`
	Amount    int64     `bson:"amount" json:"amount"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PendingTopups returns the embedded top-up entries still awaiting an admin
// decision, together with their total declared amount.
func (u *User) PendingTopups() (count int, total int64) {
	for _, t := range u.Topups {
		if t.Status == "pending" {
			count++
			total += t.Amount
		}
	}
	return count, total
}
