package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// maxCartAttempts bounds the read-modify-write loop when concurrent
// mutations of the same cart collide.
const maxCartAttempts = 3

type CartService struct {
	carts    CartStore
	products ProductStore
	now      func() time.Time
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products, now: time.Now}
}

func (s *CartService) GetCart(ctx context.Context) (*models.Cart, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.carts.Get(ctx, session.UserID)
}

func (s *CartService) AddItem(ctx context.Context, req models.AddToCartRequest) (*models.Cart, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, global.NewValidationError("quantity", "Quantity must be at least 1")
	}
	product, err := s.loadProduct(ctx, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return mutateCart(ctx, s.carts, session.UserID, now, func(cart *models.Cart) error {
		return cart.AddItem(product, req.Quantity, now)
	})
}

// SetItemQuantity updates one line; quantity <= 0 removes it.
func (s *CartService) SetItemQuantity(ctx context.Context, productIDHex string, quantity int) (*models.Cart, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	productID, err := parseObjectID("product_id", productIDHex)
	if err != nil {
		return nil, err
	}
	if quantity > 0 {
		if _, err := s.loadProduct(ctx, productIDHex, quantity); err != nil {
			return nil, err
		}
	}

	return mutateCart(ctx, s.carts, session.UserID, s.now(), func(cart *models.Cart) error {
		return cart.SetQuantity(productID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, productIDHex string) (*models.Cart, error) {
	return s.SetItemQuantity(ctx, productIDHex, 0)
}

// ReplaceItems swaps the whole cart content for lines.
func (s *CartService) ReplaceItems(ctx context.Context, lines []models.CartLine) (*models.Cart, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		product, err := s.loadProduct(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.MainImage(),
			Price:     product.Price,
			Quantity:  line.Quantity,
			AddedAt:   now,
		})
	}

	return mutateCart(ctx, s.carts, session.UserID, now, func(cart *models.Cart) error {
		cart.ReplaceItems(items)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context) (*models.Cart, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	return mutateCart(ctx, s.carts, session.UserID, s.now(), func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
}

func (s *CartService) loadProduct(ctx context.Context, idHex string, quantity int) (*models.Product, error) {
	id, err := parseObjectID("product_id", idHex)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product_id", "Product not found")
	}
	if err := models.CheckStock(product, quantity); err != nil {
		return nil, err
	}
	return product, nil
}

// mutateCart applies fn to the freshest copy of the user's cart and saves it,
// retrying when another request saved the cart in between. Nothing is
// persisted when fn fails.
func mutateCart(ctx context.Context, carts CartStore, userID bson.ObjectID, now time.Time, fn func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		cart, err := carts.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := fn(cart); err != nil {
			return nil, err
		}
		cart.UpdatedAt = now

		err = carts.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, models.ErrCartVersionConflict) {
			return nil, err
		}
	}
	return nil, global.NewConflictError("cart", "Cart was updated by another request, please try again")
}
