package topup

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/immortal-music/mlbbtopup/internal/gate"
	"github.com/immortal-music/mlbbtopup/internal/notify"
	"github.com/immortal-music/mlbbtopup/internal/session"
	"github.com/immortal-music/mlbbtopup/internal/user"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetOrCreate(ctx context.Context, id, name, username string) (*user.User, error) {
	args := m.Called(ctx, id, name, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) DebitIfSufficient(ctx context.Context, id string, amount int64) (bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) Credit(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockUserRepo) PushOrder(ctx context.Context, id string, entry user.OrderEntry) error {
	args := m.Called(ctx, id, entry)
	return args.Error(0)
}

func (m *MockUserRepo) PushTopup(ctx context.Context, id string, entry user.TopupEntry) error {
	args := m.Called(ctx, id, entry)
	return args.Error(0)
}

func (m *MockUserRepo) SetOrderEntryStatus(ctx context.Context, id, orderID, status string) error {
	args := m.Called(ctx, id, orderID, status)
	return args.Error(0)
}

func (m *MockUserRepo) SetTopupEntryStatus(ctx context.Context, id, topupID, status string) error {
	args := m.Called(ctx, id, topupID, status)
	return args.Error(0)
}

type MockTopupRepo struct {
	mock.Mock
}

func (m *MockTopupRepo) Insert(ctx context.Context, t *Topup) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTopupRepo) FindByID(ctx context.Context, topupID string) (*Topup, error) {
	args := m.Called(ctx, topupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Topup), args.Error(1)
}

func (m *MockTopupRepo) Decide(ctx context.Context, topupID, status, adminName string) (bool, error) {
	args := m.Called(ctx, topupID, status, adminName)
	return args.Bool(0), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) StartTopup(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockSessionStore) SetTopupMethod(ctx context.Context, userID, method string) error {
	args := m.Called(ctx, userID, method)
	return args.Error(0)
}

func (m *MockSessionStore) OpenTopup(ctx context.Context, userID string) (*session.PendingTopup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.PendingTopup), args.Error(1)
}

func (m *MockSessionStore) ClearTopup(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) SetAwaitingApproval(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) ClearAwaitingApproval(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Broadcast(ctx context.Context, text string, buttons [][]notify.Button) int {
	args := m.Called(ctx, text, buttons)
	return args.Int(0)
}

type stubAllowList struct {
	users []string
}

func (s *stubAllowList) AuthorizedUsers(ctx context.Context) ([]string, error) {
	return s.users, nil
}

type stubSessionState struct {
	awaiting  bool
	openTopup bool
}

func (s *stubSessionState) IsAwaitingApproval(ctx context.Context, userID string) (bool, error) {
	return s.awaiting, nil
}

func (s *stubSessionState) HasOpenTopup(ctx context.Context, userID string) (bool, error) {
	return s.openTopup, nil
}

func openGate(userID string, state *stubSessionState) *gate.Gate {
	return gate.New(&stubAllowList{users: []string{userID}}, state, gate.NewMaintenance(), "999")
}

func newTestService(users *MockUserRepo, topups *MockTopupRepo, sessions *MockSessionStore, notifier *MockNotifier, state *stubSessionState) Service {
	return NewService(openGate("100", state), users, topups, sessions, notifier)
}

func TestStart(t *testing.T) {
	sessions := new(MockSessionStore)
	sessions.On("StartTopup", mock.Anything, "100", int64(10000)).Return(nil)

	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})
	err := svc.Start(context.Background(), "100", 10000)

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestStartInvalidAmount(t *testing.T) {
	sessions := new(MockSessionStore)
	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})

	assert.ErrorIs(t, svc.Start(context.Background(), "100", 0), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Start(context.Background(), "100", -500), ErrInvalidAmount)
	sessions.AssertNotCalled(t, "StartTopup", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartBlockedWhileAwaitingApproval(t *testing.T) {
	sessions := new(MockSessionStore)
	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{awaiting: true})

	err := svc.Start(context.Background(), "100", 10000)
	assert.ErrorIs(t, err, gate.ErrAwaitingApproval)
}

func TestSelectMethodWithoutOpenFlow(t *testing.T) {
	sessions := new(MockSessionStore)
	sessions.On("OpenTopup", mock.Anything, "100").Return(nil, nil)

	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})
	err := svc.SelectMethod(context.Background(), "100", "kpay")

	assert.ErrorIs(t, err, ErrNoOpenTopup)
}

func TestSelectMethod(t *testing.T) {
	sessions := new(MockSessionStore)
	sessions.On("OpenTopup", mock.Anything, "100").Return(&session.PendingTopup{Amount: 10000}, nil)
	sessions.On("SetTopupMethod", mock.Anything, "100", "kpay").Return(nil)

	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})
	err := svc.SelectMethod(context.Background(), "100", "kpay")

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestSubmitEvidence(t *testing.T) {
	users := new(MockUserRepo)
	topups := new(MockTopupRepo)
	sessions := new(MockSessionStore)
	notifier := new(MockNotifier)

	sessions.On("OpenTopup", mock.Anything, "100").Return(&session.PendingTopup{Amount: 10000, Method: "kpay"}, nil)
	topups.On("Insert", mock.Anything, mock.AnythingOfType("*topup.Topup")).Return(nil)
	users.On("PushTopup", mock.Anything, "100", mock.AnythingOfType("user.TopupEntry")).Return(nil)
	sessions.On("ClearTopup", mock.Anything, "100").Return(nil)
	sessions.On("SetAwaitingApproval", mock.Anything, "100").Return(nil)
	notifier.On("Broadcast", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(0)

	svc := newTestService(users, topups, sessions, notifier, &stubSessionState{})
	tp, err := svc.SubmitEvidence(context.Background(), EvidenceRequest{
		UserID:      "100",
		UserName:    "Min Thu",
		ChatID:      100,
		ImageFileID: "file-abc",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, tp.Status)
	assert.Equal(t, int64(10000), tp.Amount)
	assert.Equal(t, "kpay", tp.Method)
	assert.Equal(t, "file-abc", tp.ImageFileID)
	assert.True(t, strings.HasPrefix(tp.TopupID, "TOP-"))
	sessions.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmitEvidenceWithoutOpenFlow(t *testing.T) {
	sessions := new(MockSessionStore)
	sessions.On("OpenTopup", mock.Anything, "100").Return(nil, nil)

	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})
	_, err := svc.SubmitEvidence(context.Background(), EvidenceRequest{UserID: "100"})

	assert.ErrorIs(t, err, ErrNoOpenTopup)
}

func TestDecideApproveCreditsBalance(t *testing.T) {
	users := new(MockUserRepo)
	topups := new(MockTopupRepo)
	sessions := new(MockSessionStore)

	stored := &Topup{TopupID: "TOP-1", UserID: "100", Amount: 10000, Status: StatusPending}
	topups.On("FindByID", mock.Anything, "TOP-1").Return(stored, nil)
	topups.On("Decide", mock.Anything, "TOP-1", StatusApproved, "admin").Return(true, nil)
	users.On("Credit", mock.Anything, "100", int64(10000)).Return(nil)
	users.On("SetTopupEntryStatus", mock.Anything, "100", "TOP-1", StatusApproved).Return(nil)
	sessions.On("ClearAwaitingApproval", mock.Anything, "100").Return(nil)

	svc := newTestService(users, topups, sessions, new(MockNotifier), &stubSessionState{})
	tp, err := svc.Decide(context.Background(), "TOP-1", StatusApproved, "admin")

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, tp.Status)
	assert.Equal(t, "admin", tp.DecidedBy)
	require.NotNil(t, tp.DecidedAt)
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestDecideRejectDoesNotCredit(t *testing.T) {
	users := new(MockUserRepo)
	topups := new(MockTopupRepo)
	sessions := new(MockSessionStore)

	stored := &Topup{TopupID: "TOP-1", UserID: "100", Amount: 10000, Status: StatusPending}
	topups.On("FindByID", mock.Anything, "TOP-1").Return(stored, nil)
	topups.On("Decide", mock.Anything, "TOP-1", StatusRejected, "admin").Return(true, nil)
	users.On("SetTopupEntryStatus", mock.Anything, "100", "TOP-1", StatusRejected).Return(nil)
	sessions.On("ClearAwaitingApproval", mock.Anything, "100").Return(nil)

	svc := newTestService(users, topups, sessions, new(MockNotifier), &stubSessionState{})
	tp, err := svc.Decide(context.Background(), "TOP-1", StatusRejected, "admin")

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, tp.Status)
	users.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	sessions.AssertExpectations(t)
}

func TestDecideTwiceIsRejected(t *testing.T) {
	users := new(MockUserRepo)
	topups := new(MockTopupRepo)
	sessions := new(MockSessionStore)

	stored := &Topup{TopupID: "TOP-1", UserID: "100", Amount: 10000, Status: StatusApproved}
	topups.On("FindByID", mock.Anything, "TOP-1").Return(stored, nil)
	topups.On("Decide", mock.Anything, "TOP-1", StatusApproved, "admin").Return(false, nil)

	svc := newTestService(users, topups, sessions, new(MockNotifier), &stubSessionState{})
	_, err := svc.Decide(context.Background(), "TOP-1", StatusApproved, "admin")

	assert.ErrorIs(t, err, ErrAlreadyDecided)
	users.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideBadDecision(t *testing.T) {
	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), new(MockSessionStore), new(MockNotifier), &stubSessionState{})

	_, err := svc.Decide(context.Background(), "TOP-1", "maybe", "admin")
	assert.ErrorIs(t, err, ErrBadDecision)
}

func TestCancel(t *testing.T) {
	sessions := new(MockSessionStore)
	sessions.On("OpenTopup", mock.Anything, "100").Return(&session.PendingTopup{Amount: 10000}, nil)
	sessions.On("ClearTopup", mock.Anything, "100").Return(nil)

	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})
	require.NoError(t, svc.Cancel(context.Background(), "100"))
	sessions.AssertExpectations(t)
}

func TestCancelWithoutOpenFlow(t *testing.T) {
	sessions := new(MockSessionStore)
	sessions.On("OpenTopup", mock.Anything, "100").Return(nil, nil)

	svc := newTestService(new(MockUserRepo), new(MockTopupRepo), sessions, new(MockNotifier), &stubSessionState{})
	assert.ErrorIs(t, svc.Cancel(context.Background(), "100"), ErrNothingToCancel)
}
