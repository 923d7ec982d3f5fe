package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"aquashop.ca/storefront/api/pkg/models"
)

type BlogStore struct {
	blogs *mongo.Collection
}

func NewBlogStore(db *mongo.Database) *BlogStore {
	return &BlogStore{blogs: db.Collection(blogsCollection)}
}

// List returns published posts newest first, optionally with a given tag.
func (s *BlogStore) List(ctx context.Context, tag string, page, limit int) ([]models.Blog, int64, error) {
	filter := bson.D{{Key: "published", Value: true}}
	if tag != "" {
		filter = append(filter, bson.E{Key: "tags", Value: tag})
	}
	sort := bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.Blog](ctx, s.blogs, filter, pageOptions(sort, page, limit))
}

func (s *BlogStore) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	filter := bson.D{
		{Key: "slug", Value: slug},
		{Key: "published", Value: true},
	}
	var blog models.Blog
	if err := s.blogs.FindOne(ctx, filter).Decode(&blog); err != nil {
		return nil, mapError(err)
	}
	return &blog, nil
}

func (s *BlogStore) Create(ctx context.Context, blog *models.Blog) error {
	_, err := s.blogs.InsertOne(ctx, blog)
	return mapError(err)
}
