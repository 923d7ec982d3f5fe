package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func (h *Handler) GetReviewsForProduct(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	reviews, err := h.Reviews.ListByProduct(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to get reviews")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(reviews))
}

func (h *Handler) GetReviewSummary(c *gin.Context) {
	summary, err := h.Reviews.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to summarize reviews")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(summary))
}

func (h *Handler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.Reviews.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(review))
}

func (h *Handler) UpdateReview(c *gin.Context) {
	var req models.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.Reviews.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update review")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(review))
}

func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.Reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"id": c.Param("id")}))
}
