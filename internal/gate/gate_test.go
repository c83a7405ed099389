package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubAllowList struct {
	users []string
}

func (s *stubAllowList) AuthorizedUsers(ctx context.Context) ([]string, error) {
	return s.users, nil
}

type stubSessions struct {
	awaiting  bool
	openTopup bool
}

func (s *stubSessions) IsAwaitingApproval(ctx context.Context, userID string) (bool, error) {
	return s.awaiting, nil
}

func (s *stubSessions) HasOpenTopup(ctx context.Context, userID string) (bool, error) {
	return s.openTopup, nil
}

func newTestGate(allow *stubAllowList, sessions *stubSessions) *Gate {
	return New(allow, sessions, NewMaintenance(), "999")
}

func TestCheckUnregisteredUser(t *testing.T) {
	g := newTestGate(&stubAllowList{}, &stubSessions{})

	err := g.Check(context.Background(), "100", CapGeneral)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckRegisteredUser(t *testing.T) {
	g := newTestGate(&stubAllowList{users: []string{"100"}}, &stubSessions{})

	err := g.Check(context.Background(), "100", CapGeneral)
	assert.NoError(t, err)
}

func TestCheckOwnerWithoutAllowListEntry(t *testing.T) {
	g := newTestGate(&stubAllowList{}, &stubSessions{})

	err := g.Check(context.Background(), "999", CapOrders)
	assert.NoError(t, err)
}

func TestCheckMaintenanceBlocksClass(t *testing.T) {
	allow := &stubAllowList{users: []string{"100"}}
	maint := NewMaintenance()
	maint.Set(CapOrders, false)
	g := New(allow, &stubSessions{}, maint, "999")

	assert.ErrorIs(t, g.Check(context.Background(), "100", CapOrders), ErrMaintenance)
	assert.NoError(t, g.Check(context.Background(), "100", CapTopups))
}

func TestCheckGeneralMaintenanceBlocksEverything(t *testing.T) {
	allow := &stubAllowList{users: []string{"100"}}
	maint := NewMaintenance()
	maint.Set(CapGeneral, false)
	g := New(allow, &stubSessions{}, maint, "999")

	assert.ErrorIs(t, g.Check(context.Background(), "100", CapOrders), ErrMaintenance)
	assert.ErrorIs(t, g.Check(context.Background(), "100", CapTopups), ErrMaintenance)
	assert.ErrorIs(t, g.Check(context.Background(), "100", CapGeneral), ErrMaintenance)
}

func TestCheckStatusExemptFromMaintenance(t *testing.T) {
	allow := &stubAllowList{users: []string{"100"}}
	maint := NewMaintenance()
	maint.Set(CapGeneral, false)
	g := New(allow, &stubSessions{}, maint, "999")

	assert.NoError(t, g.Check(context.Background(), "100", CapStatus))
}

func TestCheckAwaitingApprovalLock(t *testing.T) {
	allow := &stubAllowList{users: []string{"100"}}
	g := newTestGate(allow, &stubSessions{awaiting: true})

	assert.ErrorIs(t, g.Check(context.Background(), "100", CapGeneral), ErrAwaitingApproval)
	assert.ErrorIs(t, g.Check(context.Background(), "100", CapOrders), ErrAwaitingApproval)
	assert.NoError(t, g.Check(context.Background(), "100", CapStatus))
}

func TestCheckOpenTopupBlocksOnlyOrders(t *testing.T) {
	allow := &stubAllowList{users: []string{"100"}}
	g := newTestGate(allow, &stubSessions{openTopup: true})

	assert.ErrorIs(t, g.Check(context.Background(), "100", CapOrders), ErrTopupInProgress)
	assert.NoError(t, g.Check(context.Background(), "100", CapGeneral))
	assert.NoError(t, g.Check(context.Background(), "100", CapTopups))
}

func TestMaintenanceSetUnknownClass(t *testing.T) {
	maint := NewMaintenance()

	assert.False(t, maint.Set(Capability("bogus"), false))
	assert.True(t, maint.Set(CapOrders, false))
	assert.True(t, maint.Set(CapOrders, true))
}

func TestMaintenanceStatusAlwaysEnabled(t *testing.T) {
	maint := NewMaintenance()
	maint.Set(CapGeneral, false)

	assert.True(t, maint.Enabled(CapStatus))
}
