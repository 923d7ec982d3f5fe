package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func (h *Handler) GetAllBlogs(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	blogs, err := h.Blogs.List(c.Request.Context(), c.Query("tag"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to get blog posts")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(blogs))
}

func (h *Handler) GetBlogBySlug(c *gin.Context) {
	blog, err := h.Blogs.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to get blog post")
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(blog))
}

func (h *Handler) CreateBlog(c *gin.Context) {
	var req models.CreateBlogRequest
	if !bindJSON(c, &req) {
		return
	}
	blog, err := h.Blogs.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create blog post")
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(blog))
}
