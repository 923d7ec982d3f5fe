package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"aquashop.ca/storefront/api/pkg/models"
)

// categoryCounts groups active products by category.
func categoryCounts(ctx context.Context, products *mongo.Collection) ([]models.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: models.ProductStatusActive}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.CategoryCount{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ratingStats computes the average rating (two decimals) and review count of
// a product. A product without reviews yields zero values.
func ratingStats(ctx context.Context, reviews *mongo.Collection, productID bson.ObjectID) (models.Ratings, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "product_id", Value: productID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "average", Value: bson.D{{Key: "$round", Value: bson.A{"$average", 2}}}},
			{Key: "count", Value: 1},
		}}},
	}

	cursor, err := reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Ratings{}, err
	}
	defer cursor.Close(ctx)

	var stats []models.Ratings
	if err := cursor.All(ctx, &stats); err != nil {
		return models.Ratings{}, err
	}
	if len(stats) == 0 {
		return models.Ratings{}, nil
	}
	return stats[0], nil
}

// salesByStatus sums order count and revenue per order status.
func salesByStatus(ctx context.Context, orders *mongo.Collection) ([]models.StatusSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "items", Value: bson.D{{Key: "$sum", Value: "$item_count"}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "orders", Value: 1},
			{Key: "items", Value: 1},
			{Key: "revenue", Value: bson.D{{Key: "$round", Value: bson.A{"$revenue", 2}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summary := []models.StatusSummary{}
	if err := cursor.All(ctx, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}
