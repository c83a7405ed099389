package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/immortal-music/mlbbtopup/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

type recordingMessenger struct {
	sent    []int64
	buttons map[int64][][]Button
	failFor map[int64]bool
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{
		buttons: make(map[int64][][]Button),
		failFor: make(map[int64]bool),
	}
}

func (m *recordingMessenger) Send(chatID int64, text string, buttons [][]Button) error {
	if m.failFor[chatID] {
		return errors.New("chat unreachable")
	}
	m.sent = append(m.sent, chatID)
	m.buttons[chatID] = buttons
	return nil
}

type stubDirectory struct {
	ids []int64
	err error
}

func (s *stubDirectory) AdminIDs(ctx context.Context) ([]int64, error) {
	return s.ids, s.err
}

func TestBroadcastReachesAdminsAndGroup(t *testing.T) {
	m := newRecordingMessenger()
	n := New(m, &stubDirectory{ids: []int64{1, 2}}, -500)

	buttons := [][]Button{{{Label: "OK", Data: "ok"}}}
	failed := n.Broadcast(context.Background(), "hello", buttons)

	assert.Zero(t, failed)
	assert.Equal(t, []int64{1, 2, -500}, m.sent)
	assert.Equal(t, buttons, m.buttons[1])
	// The group copy carries no decision buttons.
	assert.Nil(t, m.buttons[-500])
}

func TestBroadcastNoGroupConfigured(t *testing.T) {
	m := newRecordingMessenger()
	n := New(m, &stubDirectory{ids: []int64{1}}, 0)

	failed := n.Broadcast(context.Background(), "hello", nil)

	assert.Zero(t, failed)
	assert.Equal(t, []int64{1}, m.sent)
}

func TestBroadcastCountsFailuresWithoutStopping(t *testing.T) {
	m := newRecordingMessenger()
	m.failFor[1] = true
	n := New(m, &stubDirectory{ids: []int64{1, 2}}, -500)

	failed := n.Broadcast(context.Background(), "hello", nil)

	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{2, -500}, m.sent)
}

func TestBroadcastDirectoryFailure(t *testing.T) {
	m := newRecordingMessenger()
	n := New(m, &stubDirectory{err: errors.New("store down")}, -500)

	failed := n.Broadcast(context.Background(), "hello", nil)

	// The admin list could not be loaded but the group copy still goes out.
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{-500}, m.sent)
}

func TestNotifyAdminsSkipsGroup(t *testing.T) {
	m := newRecordingMessenger()
	n := New(m, &stubDirectory{ids: []int64{1, 2}}, -500)

	n.NotifyAdmins(context.Background(), "alert")

	assert.Equal(t, []int64{1, 2}, m.sent)
	assert.Nil(t, m.buttons[1])
}
