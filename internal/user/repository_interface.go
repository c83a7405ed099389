package user

import "context"

type Repository interface {
	GetOrCreate(ctx context.Context, id, name, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Count(ctx context.Context) (int64, error)

	// DebitIfSufficient atomically subtracts amount from the user's balance
	// iff the current balance covers it. Returns false when it does not.
	DebitIfSufficient(ctx context.Context, id string, amount int64) (bool, error)
	Credit(ctx context.Context, id string, amount int64) error

	PushOrder(ctx context.Context, id string, entry OrderEntry) error
	PushTopup(ctx context.Context, id string, entry TopupEntry) error
	SetOrderEntryStatus(ctx context.Context, id, orderID, status string) error
	SetTopupEntryStatus(ctx context.Context, id, topupID, status string) error
}
