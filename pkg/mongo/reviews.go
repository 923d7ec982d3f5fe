package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type ReviewStore struct {
	reviews *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{reviews: db.Collection(reviewsCollection)}
}

// Create inserts review. The unique (product_id, user_id) index turns a second
// review of the same product into global.ErrConflict.
func (s *ReviewStore) Create(ctx context.Context, review *models.Review) error {
	_, err := s.reviews.InsertOne(ctx, review)
	return mapError(err)
}

func (s *ReviewStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Review, error) {
	var review models.Review
	if err := s.reviews.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&review); err != nil {
		return nil, mapError(err)
	}
	return &review, nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID bson.ObjectID, page, limit int) ([]models.Review, int64, error) {
	filter := bson.D{{Key: "product_id", Value: productID}}
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.Review](ctx, s.reviews, filter, pageOptions(sort, page, limit))
}

func (s *ReviewStore) Update(ctx context.Context, review *models.Review) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "rating", Value: review.Rating},
		{Key: "comment", Value: review.Comment},
		{Key: "updated_at", Value: review.UpdatedAt},
	}}}
	result, err := s.reviews.UpdateOne(ctx, bson.D{{Key: "_id", Value: review.ID}}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return global.ErrNotFound
	}
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.reviews.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return global.ErrNotFound
	}
	return nil
}

func (s *ReviewStore) Stats(ctx context.Context, productID bson.ObjectID) (models.Ratings, error) {
	return ratingStats(ctx, s.reviews, productID)
}
