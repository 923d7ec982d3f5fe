package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// mapError translates driver errors into the global error kinds.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return global.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return global.ErrConflict
	}
	return err
}

// pageOptions returns find options for a 1-based page sorted by sort.
func pageOptions(sort bson.D, page, limit int) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(sort).
		SetSkip(global.Skip(page, limit)).
		SetLimit(int64(limit))
}

// findPage runs filter against coll and decodes one page plus the total count.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, opts *options.FindOptionsBuilder) ([]T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// productFilter builds the catalog listing query. Only active products are listed.
func productFilter(f models.ProductFilter) bson.D {
	filter := bson.D{{Key: "status", Value: models.ProductStatusActive}}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	if f.Brand != "" {
		filter = append(filter, bson.E{Key: "brand", Value: f.Brand})
	}

	price := bson.D{}
	if f.MinPrice != nil {
		price = append(price, bson.E{Key: "$gte", Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		price = append(price, bson.E{Key: "$lte", Value: *f.MaxPrice})
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: "price", Value: price})
	}

	if f.InStock {
		filter = append(filter, bson.E{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}})
	}
	return filter
}

// productSort maps a sort key to a Mongo sort document. _id breaks ties so
// paging is stable.
func productSort(sort string) bson.D {
	switch sort {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortRating:
		return bson.D{{Key: "ratings.average", Value: -1}, {Key: "ratings.count", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortName:
		return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// orderStatusUpdate is the $set applied when an order enters status.
func orderStatusUpdate(to models.OrderStatus, at any) bson.D {
	set := bson.D{
		{Key: "status", Value: to},
		{Key: "updated_at", Value: at},
	}
	if field := models.TimelineField(to); field != "" {
		set = append(set, bson.E{Key: field, Value: at})
	}
	return bson.D{{Key: "$set", Value: set}}
}

// profileUpdate collects the non-nil fields of a partial profile update.
func profileUpdate(req models.UpdateProfileRequest, at any) bson.D {
	set := bson.D{}
	if req.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *req.Name})
	}
	if req.Phone != nil {
		set = append(set, bson.E{Key: "phone", Value: *req.Phone})
	}
	if req.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *req.Address})
	}
	set = append(set, bson.E{Key: "updated_at", Value: at})
	return bson.D{{Key: "$set", Value: set}}
}
