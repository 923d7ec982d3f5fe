package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func (h *Handler) BuyNow(c *gin.Context) {
	var req models.BuyNowRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.BuyNow(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func (h *Handler) GetMyOrders(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	orders, err := h.Orders.ListMyOrders(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to get orders")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func (h *Handler) GetOrderByID(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.Orders.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func (h *Handler) GetSalesReport(c *gin.Context) {
	report, err := h.Orders.SalesReport(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build sales report")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(report))
}
