package order

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrOrderNotFound = errors.New("order not found")

type MongoRepository struct {
	orders *mongo.Collection
}

func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{orders: db.Collection("orders")}
}

func (r *MongoRepository) Insert(ctx context.Context, o *Order) error {
	_, err := r.orders.InsertOne(ctx, o)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, orderID string) (*Order, error) {
	o := &Order{}
	err := r.orders.FindOne(ctx, bson.M{"order_id": orderID}).Decode(o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MongoRepository) Decide(ctx context.Context, orderID, status, adminName string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"order_id": orderID, "status": StatusPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"decided_by": adminName,
			"decided_at": now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
