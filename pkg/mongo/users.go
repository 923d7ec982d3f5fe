package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type UserStore struct {
	users *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{users: db.Collection(usersCollection)}
}

// Create inserts user; a taken email is reported as global.ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	return mapError(err)
}

func (s *UserStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *UserStore) UpdateProfile(ctx context.Context, id bson.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, profileUpdate(req, time.Now()), opts).Decode(&user)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: hash},
		{Key: "updated_at", Value: time.Now()},
	}}}
	result, err := s.users.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return global.ErrNotFound
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}
