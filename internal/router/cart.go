package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.Cart.GetCart(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.Cart.AddItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.Cart.SetItemQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	cart, err := h.Cart.RemoveItem(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err, "Failed to remove cart item")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) ReplaceCart(c *gin.Context) {
	var req models.ReplaceCartRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.Cart.ReplaceItems(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.Cart.Clear(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}
