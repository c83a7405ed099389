// Package session keeps per-user transient workflow state in Redis: the
// "awaiting approval" lock set after a payment screenshot is submitted, and
// the open top-up flow started by /topup. Keeping it in Redis instead of
// process memory means an in-flight top-up survives a bot restart.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	awaitingKeyPrefix = "session:awaiting:"
	topupKeyPrefix    = "session:topup:"
)

// PendingTopup is an open top-up flow: the user declared an amount but has
// not submitted a screenshot yet.
type PendingTopup struct {
	Amount int64
	Method string
}

type Store struct {
	rdb *redis.Client
}

func New(addr string) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewWithClient is used by tests to inject a mock client.
func NewWithClient(client *redis.Client) *Store {
	return &Store{rdb: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) SetAwaitingApproval(ctx context.Context, userID string) error {
	return s.rdb.Set(ctx, awaitingKeyPrefix+userID, "1", 0).Err()
}

func (s *Store) IsAwaitingApproval(ctx context.Context, userID string) (bool, error) {
	_, err := s.rdb.Get(ctx, awaitingKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ClearAwaitingApproval(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, awaitingKeyPrefix+userID).Err()
}

func (s *Store) StartTopup(ctx context.Context, userID string, amount int64) error {
	return s.rdb.HSet(ctx, topupKeyPrefix+userID,
		"amount", strconv.FormatInt(amount, 10),
		"method", "",
	).Err()
}

func (s *Store) SetTopupMethod(ctx context.Context, userID, method string) error {
	return s.rdb.HSet(ctx, topupKeyPrefix+userID, "method", method).Err()
}

// OpenTopup returns the user's open top-up flow, or nil when there is none.
func (s *Store) OpenTopup(ctx context.Context, userID string) (*PendingTopup, error) {
	fields, err := s.rdb.HGetAll(ctx, topupKeyPrefix+userID).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	amount, err := strconv.ParseInt(fields["amount"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt top-up session for user %s: %w", userID, err)
	}
	return &PendingTopup{Amount: amount, Method: fields["method"]}, nil
}

func (s *Store) HasOpenTopup(ctx context.Context, userID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, topupKeyPrefix+userID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ClearTopup(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, topupKeyPrefix+userID).Err()
}
