package order

import "context"

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, orderID string) (*Order, error)

	// Decide transitions a pending order to status and stamps the deciding
	// admin. Returns false when the order was not pending anymore.
	Decide(ctx context.Context, orderID, status, adminName string) (bool, error)
}
