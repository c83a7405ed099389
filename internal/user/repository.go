package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")

type MongoRepository struct {
	users *mongo.Collection
}

func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{users: db.Collection("users")}
}

func (r *MongoRepository) GetOrCreate(ctx context.Context, id, name, username string) (*User, error) {
	u := &User{}
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	u = &User{
		ID:        id,
		Name:      name,
		Username:  username,
		Balance:   0,
		Orders:    []OrderEntry{},
		Topups:    []TopupEntry{},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.users.InsertOne(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	u := &User{}
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.users.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) DebitIfSufficient(ctx context.Context, id string, amount int64) (bool, error) {
	// Single conditional update so two racing orders from the same user
	// cannot both pass the sufficiency check.
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "balance": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"balance": -amount}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoRepository) Credit(ctx context.Context, id string, amount int64) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"balance": amount}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoRepository) PushOrder(ctx context.Context, id string, entry OrderEntry) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"orders": entry}},
	)
	return err
}

func (r *MongoRepository) PushTopup(ctx context.Context, id string, entry TopupEntry) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"topups": entry}},
	)
	return err
}

func (r *MongoRepository) SetOrderEntryStatus(ctx context.Context, id, orderID, status string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "orders.order_id": orderID},
		bson.M{"$set": bson.M{"orders.$.status": status}},
	)
	return err
}

func (r *MongoRepository) SetTopupEntryStatus(ctx context.Context, id, topupID, status string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "topups.topup_id": topupID},
		bson.M{"$set": bson.M{"topups.$.status": status}},
	)
	return err
}
