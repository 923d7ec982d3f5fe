package service

import (
	"context"
	"errors"
	"time"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type OrderService struct {
	orders   OrderStore
	carts    CartStore
	products ProductStore
	cache    ProductCache
	now      func() time.Time
}

func NewOrderService(orders OrderStore, carts CartStore, products ProductStore, cache ProductCache) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, cache: cache, now: time.Now}
}

// PlaceOrder checks out the caller's cart. Once the order is stored the
// ordered lines leave the cart; lines added in the meantime stay.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.Order, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, global.NewValidationError("cart", "Your cart is empty")
	}

	now := s.now()
	order, err := models.NewOrder(session.UserID, models.OrderItemsFromCart(cart), req.ShippingAddress, req.PaymentMethod, req.Note, now)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	if err := s.clearCheckedOut(ctx, cart, order, now); err != nil {
		warn("order %s placed but cart of user %s was not cleared: %v", order.OrderNumber, session.UserID.Hex(), err)
	}
	return order, nil
}

// BuyNow orders a single product without touching the cart.
func (s *OrderService) BuyNow(ctx context.Context, req models.BuyNowRequest) (*models.Order, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, global.NewValidationError("quantity", "Quantity must be at least 1")
	}
	productID, err := parseObjectID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product_id", "Product not found")
	}
	if err := models.CheckStock(product, req.Quantity); err != nil {
		return nil, err
	}

	items := []models.OrderItem{{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.MainImage(),
		Price:     product.Price,
		Quantity:  req.Quantity,
	}}
	order, err := models.NewOrder(session.UserID, items, req.ShippingAddress, req.PaymentMethod, req.Note, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, status string, page, limit int) (global.Page[models.Order], error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return global.Page[models.Order]{}, err
	}
	filter := models.OrderStatus(status)
	if status != "" && !filter.IsValid() {
		return global.Page[models.Order]{}, global.NewValidationError("status", "Unknown order status")
	}

	page, limit = NormalizePage(page, limit)
	orders, total, err := s.orders.ListByUser(ctx, session.UserID, filter, page, limit)
	if err != nil {
		return global.Page[models.Order]{}, err
	}
	return global.NewPage(orders, page, limit, total), nil
}

// GetOrder returns one of the caller's orders. Orders of other users are
// reported as not found; admins can read any order.
func (s *OrderService) GetOrder(ctx context.Context, idHex string) (*models.Order, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseObjectID("id", idHex)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "id", "Order not found")
	}
	if order.UserID != session.UserID && !session.IsAdmin() {
		return nil, global.NewNotFoundError("id", "Order not found")
	}
	return order, nil
}

// CancelOrder cancels a pending order of the caller and returns its stock.
// The status check is repeated atomically by the store, so an order that
// left pending in the meantime is refused too.
func (s *OrderService) CancelOrder(ctx context.Context, idHex string) (*models.Order, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.GetOrder(ctx, idHex)
	if err != nil {
		return nil, err
	}
	if order.UserID != session.UserID {
		return nil, global.NewNotFoundError("id", "Order not found")
	}
	if !order.CanBeCancelled() {
		return nil, global.NewInvalidStateError("status", models.CancelRefusal(order.Status))
	}

	cancelled, err := s.orders.UpdateStatus(ctx, order.ID, models.StatusPending, models.StatusCancelled, s.now())
	if err != nil {
		if errors.Is(err, global.ErrNotFound) {
			return nil, s.refusal(ctx, order)
		}
		return nil, err
	}
	s.releaseStock(ctx, cancelled)
	return cancelled, nil
}

// UpdateStatus is the admin transition along the order state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, idHex string, next models.OrderStatus) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, global.NewValidationError("status", "Unknown order status")
	}
	order, err := s.GetOrder(ctx, idHex)
	if err != nil {
		return nil, err
	}

	current := order.Status
	if err := order.ApplyStatus(next, s.now()); err != nil {
		return nil, err
	}
	updated, err := s.orders.UpdateStatus(ctx, order.ID, current, next, order.UpdatedAt)
	if err != nil {
		if errors.Is(err, global.ErrNotFound) {
			return nil, global.NewConflictError("status", "Order status changed meanwhile, reload and try again")
		}
		return nil, err
	}
	if next == models.StatusCancelled {
		s.releaseStock(ctx, updated)
	}
	return updated, nil
}

// SalesReport summarizes all orders by status for admins.
func (s *OrderService) SalesReport(ctx context.Context) (models.SalesReport, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return models.SalesReport{}, err
	}
	byStatus, err := s.orders.SalesByStatus(ctx)
	if err != nil {
		return models.SalesReport{}, err
	}
	return models.NewSalesReport(byStatus), nil
}

// refusal re-reads the order to report the status that blocked cancellation.
func (s *OrderService) refusal(ctx context.Context, order *models.Order) error {
	status := order.Status
	if fresh, err := s.orders.GetByID(ctx, order.ID); err == nil {
		status = fresh.Status
	}
	return global.NewInvalidStateError("status", models.CancelRefusal(status))
}

// clearCheckedOut empties the cart read at checkout. When the cart was saved
// again since then, only the ordered lines are taken out of the newer copy.
func (s *OrderService) clearCheckedOut(ctx context.Context, cart *models.Cart, order *models.Order, now time.Time) error {
	cart.Clear()
	cart.UpdatedAt = now
	err := s.carts.Save(ctx, cart)
	if !errors.Is(err, models.ErrCartVersionConflict) {
		return err
	}

	_, err = mutateCart(ctx, s.carts, order.UserID, now, func(c *models.Cart) error {
		c.RemoveOrdered(order.Items)
		return nil
	})
	return err
}

// persist reserves stock for every line and stores the order, undoing the
// reservations when any step fails.
func (s *OrderService) persist(ctx context.Context, order *models.Order) error {
	reserved := make([]models.OrderItem, 0, len(order.Items))
	defer func() { s.invalidateProducts(ctx, reserved) }()
	rollback := func() {
		for _, item := range reserved {
			if err := s.products.ReleaseStock(ctx, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
				warn("failed to roll back stock for product %s: %v", item.ProductID.Hex(), err)
			}
		}
	}

	for _, item := range order.Items {
		if err := s.products.ReserveStock(ctx, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
			rollback()
			if errors.Is(err, global.ErrConflict) {
				return global.NewValidationError("items", "Not enough stock for "+item.Name)
			}
			return notFound(err, "items", "Product "+item.Name+" is no longer available")
		}
		reserved = append(reserved, item)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		rollback()
		return err
	}
	return nil
}

func (s *OrderService) releaseStock(ctx context.Context, order *models.Order) {
	released := make([]models.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := s.products.ReleaseStock(ctx, item.ProductID, item.Quantity, order.OrderNumber); err != nil {
			warn("failed to release stock for product %s of order %s: %v", item.ProductID.Hex(), order.OrderNumber, err)
			continue
		}
		released = append(released, item)
	}
	s.invalidateProducts(ctx, released)
}

// invalidateProducts drops cached copies of products whose stock moved.
func (s *OrderService) invalidateProducts(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.cache.InvalidateProduct(ctx, item.ProductID.Hex()); err != nil {
			warn("failed to invalidate cached product %s: %v", item.ProductID.Hex(), err)
		}
	}
}
