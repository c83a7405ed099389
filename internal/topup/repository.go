package topup

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrTopupNotFound = errors.New("top-up not found")

type MongoRepository struct {
	topups *mongo.Collection
}

func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{topups: db.Collection("topups")}
}

func (r *MongoRepository) Insert(ctx context.Context, t *Topup) error {
	_, err := r.topups.InsertOne(ctx, t)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, topupID string) (*Topup, error) {
	t := &Topup{}
	err := r.topups.FindOne(ctx, bson.M{"topup_id": topupID}).Decode(t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTopupNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *MongoRepository) Decide(ctx context.Context, topupID, status, adminName string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.topups.UpdateOne(ctx,
		bson.M{"topup_id": topupID, "status": StatusPending},
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
