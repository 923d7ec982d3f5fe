package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aquashop.ca/storefront/api/pkg/models"
)

type OrderStore struct {
	orders *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{orders: db.Collection(ordersCollection)}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	_, err := s.orders.InsertOne(ctx, order)
	return mapError(err)
}

func (s *OrderStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.orders.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order); err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

// ListByUser returns the user's orders newest first, optionally of one status.
func (s *OrderStore) ListByUser(ctx context.Context, userID bson.ObjectID, status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	filter := bson.D{{Key: "user_id", Value: userID}}
	if status != "" {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.Order](ctx, s.orders, filter, pageOptions(sort, page, limit))
}

// UpdateStatus is a compare-and-set on the status field: the update only
// applies while the order is still in from.
func (s *OrderStore) UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: from},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	if err := s.orders.FindOneAndUpdate(ctx, filter, orderStatusUpdate(to, at), opts).Decode(&order); err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

func (s *OrderStore) SalesByStatus(ctx context.Context) ([]models.StatusSummary, error) {
	return salesByStatus(ctx, s.orders)
}
