package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type ProductStore struct {
	products  *mongo.Collection
	inventory *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{
		products:  db.Collection(productsCollection),
		inventory: db.Collection(inventoryLogsCollection),
	}
}

func (s *ProductStore) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	return findPage[models.Product](ctx, s.products, productFilter(f), pageOptions(productSort(f.Sort), f.Page, f.Limit))
}

// Search runs a text search over name, tags and description, best match first.
func (s *ProductStore) Search(ctx context.Context, keyword string, page, limit int) ([]models.Product, int64, error) {
	filter := bson.D{
		{Key: "$text", Value: bson.D{{Key: "$search", Value: keyword}}},
		{Key: "status", Value: models.ProductStatusActive},
	}
	score := bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}
	opts := pageOptions(score, page, limit).SetProjection(score)
	return findPage[models.Product](ctx, s.products, filter, opts)
}

func (s *ProductStore) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	return categoryCounts(ctx, s.products)
}

func (s *ProductStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := s.products.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product); err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

func (s *ProductStore) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := s.products.FindOne(ctx, bson.D{{Key: "sku", Value: sku}}).Decode(&product); err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

func (s *ProductStore) CreateMany(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	_, err := s.products.InsertMany(ctx, products)
	return mapError(err)
}

// ReserveStock decrements stock in a single conditional update, so two
// concurrent orders can never take the same units. It reports
// global.ErrConflict when fewer than quantity units are left.
func (s *ProductStore) ReserveStock(ctx context.Context, id bson.ObjectID, quantity int, orderNumber string) error {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: models.ProductStatusActive},
		{Key: "stock", Value: bson.D{{Key: "$gte", Value: quantity}}},
	}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "stock", Value: -quantity}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	}

	result, err := s.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		exists, err := s.products.CountDocuments(ctx, bson.D{
			{Key: "_id", Value: id},
			{Key: "status", Value: models.ProductStatusActive},
		})
		if err != nil {
			return err
		}
		if exists == 0 {
			return global.ErrNotFound
		}
		return global.ErrConflict
	}

	s.logInventory(ctx, id, orderNumber, -quantity)
	return nil
}

func (s *ProductStore) ReleaseStock(ctx context.Context, id bson.ObjectID, quantity int, orderNumber string) error {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "stock", Value: quantity}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	}
	result, err := s.products.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return global.ErrNotFound
	}

	s.logInventory(ctx, id, orderNumber, quantity)
	return nil
}

func (s *ProductStore) UpdateRatings(ctx context.Context, id bson.ObjectID, ratings models.Ratings) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "ratings", Value: ratings},
		{Key: "updated_at", Value: time.Now()},
	}}}
	result, err := s.products.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return global.ErrNotFound
	}
	return nil
}

// LowStock lists active products with at most threshold units left.
func (s *ProductStore) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	filter := bson.D{
		{Key: "status", Value: models.ProductStatusActive},
		{Key: "stock", Value: bson.D{{Key: "$lte", Value: threshold}}},
	}
	cursor, err := s.products.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// logInventory writes the audit entry for a stock move. The stock change is
// already applied, so a failed write is only logged.
func (s *ProductStore) logInventory(ctx context.Context, id bson.ObjectID, orderNumber string, delta int) {
	entry := models.NewInventoryLog(id, orderNumber, delta)
	entry.ID = bson.NewObjectID()
	if _, err := s.inventory.InsertOne(ctx, entry); err != nil {
		log.Printf("Warning: failed to write inventory log for product %s: %v", id.Hex(), err)
	}
}
