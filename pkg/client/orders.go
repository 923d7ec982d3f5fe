package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

const idempotencyHeader = "Idempotency-Key"

// PlaceOrder checks out the server-side cart. On success the held cart is
// emptied, matching what the server did.
func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/orders",
		body:    req,
		out:     &order,
		auth:    true,
		headers: map[string]string{idempotencyHeader: uuid.NewString()},
	})
	if err != nil {
		return nil, err
	}
	if cart := c.LastCart(); cart != nil {
		emptied := models.NewCart(cart.UserID)
		c.setCart(emptied)
	}
	return &order, nil
}

func (c *Client) BuyNow(ctx context.Context, req models.BuyNowRequest) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/orders/buy-now",
		body:    req,
		out:     &order,
		auth:    true,
		headers: map[string]string{idempotencyHeader: uuid.NewString()},
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context, status string, page, limit int) (*global.Page[models.Order], error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var orders global.Page[models.Order]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/my-orders", query: q, out: &orders, auth: true}); err != nil {
		return nil, err
	}
	return &orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(id), out: &order, auth: true}); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder re-reads the order and refuses locally unless it is still
// pending. The server repeats the check atomically.
func (c *Client) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	current, err := c.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.CanBeCancelled() {
		return nil, fmt.Errorf("%w: %s", ErrNotCancellable, models.CancelRefusal(current.Status))
	}

	var order models.Order
	if err := c.do(ctx, request{method: http.MethodPut, path: "/orders/" + url.PathEscape(id) + "/cancel", out: &order, auth: true}); err != nil {
		return nil, err
	}
	return &order, nil
}
