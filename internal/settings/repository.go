// Package settings stores operator-editable configuration in the settings
// collection as singleton documents keyed by a "type" discriminator:
// price overrides, the authorization allow-list and the admin id list.
package settings

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	typePrices          = "prices"
	typeAuthorizedUsers = "authorized_users"
	typeAdminIDs        = "admin_ids"
)

type Repository interface {
	Prices(ctx context.Context) (map[string]int64, error)
	SetPrice(ctx context.Context, code string, price int64) error
	DeletePrice(ctx context.Context, code string) error

	AuthorizedUsers(ctx context.Context) ([]string, error)
	Authorize(ctx context.Context, userID string) error
	Revoke(ctx context.Context, userID string) error

	AdminIDs(ctx context.Context) ([]int64, error)
	AddAdmin(ctx context.Context, adminID int64) error
	RemoveAdmin(ctx context.Context, adminID int64) error
}

type MongoRepository struct {
	settings *mongo.Collection
	ownerID  int64
}

func NewRepository(db *mongo.Database, ownerID int64) *MongoRepository {
	return &MongoRepository{settings: db.Collection("settings"), ownerID: ownerID}
}

type pricesDoc struct {
	Type string           `bson:"type"`
	Data map[string]int64 `bson:"data"`
}

type usersDoc struct {
	Type string   `bson:"type"`
	Data []string `bson:"data"`
}

type adminsDoc struct {
	Type string  `bson:"type"`
	Data []int64 `bson:"data"`
}

func (r *MongoRepository) upsert(ctx context.Context, docType string, data interface{}) error {
	_, err := r.settings.UpdateOne(ctx,
		bson.M{"type": docType},
		bson.M{"$set": bson.M{"data": data, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoRepository) Prices(ctx context.Context) (map[string]int64, error) {
	var doc pricesDoc
	err := r.settings.FindOne(ctx, bson.M{"type": typePrices}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Data == nil {
		doc.Data = map[string]int64{}
	}
	return doc.Data, nil
}

func (r *MongoRepository) SetPrice(ctx context.Context, code string, price int64) error {
	prices, err := r.Prices(ctx)
	if err != nil {
		return err
	}
	prices[code] = price
	return r.upsert(ctx, typePrices, prices)
}

func (r *MongoRepository) DeletePrice(ctx context.Context, code string) error {
	prices, err := r.Prices(ctx)
	if err != nil {
		return err
	}
	delete(prices, code)
	return r.upsert(ctx, typePrices, prices)
}

func (r *MongoRepository) AuthorizedUsers(ctx context.Context) ([]string, error) {
	var doc usersDoc
	err := r.settings.FindOne(ctx, bson.M{"type": typeAuthorizedUsers}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (r *MongoRepository) Authorize(ctx context.Context, userID string) error {
	users, err := r.AuthorizedUsers(ctx)
	if err != nil {
		return err
	}
	for _, id := range users {
		if id == userID {
			return nil
		}
	}
	return r.upsert(ctx, typeAuthorizedUsers, append(users, userID))
}

func (r *MongoRepository) Revoke(ctx context.Context, userID string) error {
	users, err := r.AuthorizedUsers(ctx)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, id := range users {
		if id != userID {
			kept = append(kept, id)
		}
	}
	return r.upsert(ctx, typeAuthorizedUsers, kept)
}

// AdminIDs always includes the fixed owner id, whether or not an admin list
// document exists yet.
func (r *MongoRepository) AdminIDs(ctx context.Context) ([]int64, error) {
	var doc adminsDoc
	err := r.settings.FindOne(ctx, bson.M{"type": typeAdminIDs}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []int64{r.ownerID}, nil
	}
	if err != nil {
		return nil, err
	}
	for _, id := range doc.Data {
		if id == r.ownerID {
			return doc.Data, nil
		}
	}
	return append(doc.Data, r.ownerID), nil
}

func (r *MongoRepository) AddAdmin(ctx context.Context, adminID int64) error {
	admins, err := r.AdminIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range admins {
		if id == adminID {
			return nil
		}
	}
	return r.upsert(ctx, typeAdminIDs, append(admins, adminID))
}

func (r *MongoRepository) RemoveAdmin(ctx context.Context, adminID int64) error {
	if adminID == r.ownerID {
		return errors.New("the owner cannot be removed from the admin list")
	}
	admins, err := r.AdminIDs(ctx)
	if err != nil {
		return err
	}
	kept := admins[:0]
	for _, id := range admins {
		if id != adminID {
			kept = append(kept, id)
		}
	}
	return r.upsert(ctx, typeAdminIDs, kept)
}
