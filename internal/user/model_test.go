package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingTopups(t *testing.T) {
	u := &User{
		ID: "100",
		Topups: []TopupEntry{
			{TopupID: "TOP-1", Amount: 10000, Status: "pending"},
			{TopupID: "TOP-2", Amount: 5000, Status: "approved"},
			{TopupID: "TOP-3", Amount: 3000, Status: "pending"},
			{TopupID: "TOP-4", Amount: 2000, Status: "rejected"},
		},
	}

	count, total := u.PendingTopups()
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(13000), total)
}

func TestPendingTopupsEmpty(t *testing.T) {
	u := &User{ID: "100"}

	count, total := u.PendingTopups()
	assert.Zero(t, count)
	assert.Zero(t, total)
}
