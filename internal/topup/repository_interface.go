package topup

import "context"

type Repository interface {
	Insert(ctx context.Context, t *Topup) error
	FindByID(ctx context.Context, topupID string) (*Topup, error)

	// Decide transitions a pending top-up to status and stamps the deciding
	// admin. Returns false when the top-up was not pending anymore.
	Decide(ctx context.Context, topupID, status, adminName string) (bool, error)
}
