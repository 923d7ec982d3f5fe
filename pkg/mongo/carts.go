package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"aquashop.ca/storefront/api/pkg/models"
)

// CartStore keeps one document per user, keyed by the user id.
type CartStore struct {
	carts *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{carts: db.Collection(cartsCollection)}
}

func (s *CartStore) Get(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewCart(userID), nil
	}
	if err != nil {
		return nil, err
	}
	cart.Recalculate()
	return &cart, nil
}

// Save writes cart only if the stored version still equals cart.Version.
// Version 0 means the cart was never saved; a concurrent first insert then
// surfaces as a duplicate key and is reported as a version conflict too.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	next := *cart
	next.Version = cart.Version + 1

	if cart.Version == 0 {
		if _, err := s.carts.InsertOne(ctx, &next); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.ErrCartVersionConflict
			}
			return err
		}
		cart.Version = next.Version
		return nil
	}

	filter := bson.D{
		{Key: "_id", Value: cart.UserID},
		{Key: "version", Value: cart.Version},
	}
	result, err := s.carts.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrCartVersionConflict
	}
	cart.Version = next.Version
	return nil
}
