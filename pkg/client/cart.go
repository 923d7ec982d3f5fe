package client

import (
	"context"
	"net/http"
	"net/url"

	"aquashop.ca/storefront/api/pkg/models"
)

// cartCall runs a cart request and, only when the server confirms it,
// replaces the locally held cart.
func (c *Client) cartCall(ctx context.Context, method, path string, body any) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, request{method: method, path: path, body: body, out: &cart, auth: true}); err != nil {
		return nil, err
	}
	c.setCart(&cart)
	return &cart, nil
}

func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/cart", nil)
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, "/cart/items", models.AddToCartRequest{ProductID: productID, Quantity: quantity})
}

// UpdateCartItem sets a line's quantity; zero or less removes it.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(productID), models.UpdateCartItemRequest{Quantity: &quantity})
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil)
}

func (c *Client) ReplaceCart(ctx context.Context, lines []models.CartLine) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, "/cart", models.ReplaceCartRequest{Items: lines})
}

func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/cart", nil)
}
