package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
	"aquashop.ca/storefront/api/pkg/service/mocks"
)

// memoryCarts wires a CartStore mock to a single in-memory cart with
// version checking.
func memoryCarts(ctrl *gomock.Controller, userID bson.ObjectID) (*mocks.MockCartStore, *models.Cart) {
	stored := models.NewCart(userID)
	carts := mocks.NewMockCartStore(ctrl)
	carts.EXPECT().Get(gomock.Any(), userID).DoAndReturn(func(context.Context, bson.ObjectID) (*models.Cart, error) {
		c := *stored
		c.Items = append([]models.CartItem(nil), stored.Items...)
		return &c, nil
	}).AnyTimes()
	carts.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *models.Cart) error {
		if c.Version != stored.Version {
			return models.ErrCartVersionConflict
		}
		c.Version++
		*stored = *c
		return nil
	}).AnyTimes()
	return carts, stored
}

func newCartService(carts CartStore, products ProductStore) *CartService {
	s := NewCartService(carts, products)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestAddItemTwiceSetsQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()
	ctx := customerCtx(userID)
	product := testProduct(100, 10)

	carts, stored := memoryCarts(ctrl, userID)
	products := mocks.NewMockProductStore(ctrl)
	products.EXPECT().GetByID(gomock.Any(), product.ID).Return(product, nil).Times(2)

	s := newCartService(carts, products)
	if _, err := s.AddItem(ctx, models.AddToCartRequest{ProductID: product.ID.Hex(), Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := s.AddItem(ctx, models.AddToCartRequest{ProductID: product.ID.Hex(), Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("items = %+v, want a single line of 3", cart.Items)
	}
	if cart.TotalPrice != 300 || cart.ItemCount != 3 {
		t.Errorf("totals = %v/%d, want 300/3", cart.TotalPrice, cart.ItemCount)
	}
	if stored.Version != 2 {
		t.Errorf("stored version = %d, want 2", stored.Version)
	}
}

func TestCartOperationsRequireSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: any store call fails the test.
	s := newCartService(mocks.NewMockCartStore(ctrl), mocks.NewMockProductStore(ctrl))
	ctx := context.Background()
	id := bson.NewObjectID().Hex()

	calls := map[string]func() error{
		"get":     func() error { _, err := s.GetCart(ctx); return err },
		"add":     func() error { _, err := s.AddItem(ctx, models.AddToCartRequest{ProductID: id, Quantity: 1}); return err },
		"set":     func() error { _, err := s.SetItemQuantity(ctx, id, 2); return err },
		"remove":  func() error { _, err := s.RemoveItem(ctx, id); return err },
		"replace": func() error { _, err := s.ReplaceItems(ctx, nil); return err },
		"clear":   func() error { _, err := s.Clear(ctx); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assertKind(t, call(), global.ErrUnauthorized)
		})
	}
}

func TestAddItemRejectsOverStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()
	product := testProduct(12.5, 2)

	products := mocks.NewMockProductStore(ctrl)
	products.EXPECT().GetByID(gomock.Any(), product.ID).Return(product, nil)

	s := newCartService(mocks.NewMockCartStore(ctrl), products)
	_, err := s.AddItem(customerCtx(userID), models.AddToCartRequest{ProductID: product.ID.Hex(), Quantity: 5})
	assertKind(t, err, global.ErrValidation)
}

func TestSetQuantityZeroRemovesWithoutStockCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()
	product := testProduct(4, 10)

	carts, stored := memoryCarts(ctrl, userID)
	stored.Items = []models.CartItem{{ProductID: product.ID, Name: product.Name, Price: 4, Quantity: 2}}
	stored.Recalculate()

	// The product store is never consulted for a removal.
	s := newCartService(carts, mocks.NewMockProductStore(ctrl))
	cart, err := s.SetItemQuantity(customerCtx(userID), product.ID.Hex(), 0)
	if err != nil {
		t.Fatalf("SetItemQuantity: %v", err)
	}
	if !cart.IsEmpty() || cart.TotalPrice != 0 || cart.ItemCount != 0 {
		t.Fatalf("cart = %+v, want empty", cart)
	}
}

func TestRemoveMissingItemIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()
	carts, _ := memoryCarts(ctrl, userID)

	s := newCartService(carts, mocks.NewMockProductStore(ctrl))
	_, err := s.RemoveItem(customerCtx(userID), bson.NewObjectID().Hex())
	assertKind(t, err, global.ErrNotFound)
}

func TestMutateCartRetriesOnVersionConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()

	carts := mocks.NewMockCartStore(ctrl)
	carts.EXPECT().Get(gomock.Any(), userID).DoAndReturn(func(context.Context, bson.ObjectID) (*models.Cart, error) {
		return models.NewCart(userID), nil
	}).Times(2)
	gomock.InOrder(
		carts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.ErrCartVersionConflict),
		carts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
	)

	if _, err := mutateCart(context.Background(), carts, userID, fixedNow, func(*models.Cart) error { return nil }); err != nil {
		t.Fatalf("mutateCart: %v", err)
	}
}

func TestMutateCartGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()

	carts := mocks.NewMockCartStore(ctrl)
	carts.EXPECT().Get(gomock.Any(), userID).Return(models.NewCart(userID), nil).Times(maxCartAttempts)
	carts.EXPECT().Save(gomock.Any(), gomock.Any()).Return(models.ErrCartVersionConflict).Times(maxCartAttempts)

	_, err := mutateCart(context.Background(), carts, userID, fixedNow, func(*models.Cart) error { return nil })
	assertKind(t, err, global.ErrConflict)
}

func TestReplaceItemsSkipsNonPositiveLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	userID := bson.NewObjectID()
	a := testProduct(10, 5)
	b := testProduct(2.5, 5)

	carts, _ := memoryCarts(ctrl, userID)
	products := mocks.NewMockProductStore(ctrl)
	products.EXPECT().GetByID(gomock.Any(), a.ID).Return(a, nil)
	products.EXPECT().GetByID(gomock.Any(), b.ID).Return(b, nil)

	s := newCartService(carts, products)
	cart, err := s.ReplaceItems(customerCtx(userID), []models.CartLine{
		{ProductID: a.ID.Hex(), Quantity: 1},
		{ProductID: bson.NewObjectID().Hex(), Quantity: 0},
		{ProductID: b.ID.Hex(), Quantity: 4},
	})
	if err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}
	if len(cart.Items) != 2 || cart.TotalPrice != 20 || cart.ItemCount != 5 {
		t.Fatalf("cart = %+v", cart)
	}
}
