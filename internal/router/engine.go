package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/service"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Catalog     *service.CatalogService
	Cart        *service.CartService
	Orders      *service.OrderService
	Reviews     *service.ReviewService
	Users       *service.UserService
	Blogs       *service.BlogService
	Idempotency IdempotencyGuard
	Health      []HealthCheck
}

// HealthCheck is one dependency probed by /api/health. A failing critical
// check turns the response into a 503.
type HealthCheck struct {
	Name     string
	Critical bool
	Ping     func(ctx context.Context) error
}

// NewEngine builds the gin engine with middleware and the full route table.
func NewEngine(cfg *global.Config, h *Handler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	configureValidator()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h.registerRoutes(router)
	return router
}

func (h *Handler) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.Use(Authenticate(h.Users))
	{
		api.GET("/health", h.HealthCheck)

		products := api.Group("/products")
		{
			products.GET("", h.GetAllProducts)
			products.POST("", RequireAdmin(), h.CreateNewProducts)
			products.GET("/search", h.SearchProducts)
			products.GET("/categories", h.GetAllCategories)
			products.GET("/low-stock", RequireAdmin(), h.GetLowStockProducts)
			products.GET("/sku/:sku", h.GetProductBySKU)
			products.GET("/:id", h.GetProductByID)
		}

		cart := api.Group("/cart")
		cart.Use(RequireAuth())
		{
			cart.GET("", h.GetCart)
			cart.PUT("", h.ReplaceCart)
			cart.DELETE("", h.ClearCart)
			cart.POST("/items", h.AddToCart)
			cart.PUT("/items/:productId", h.UpdateCartItem)
			cart.DELETE("/items/:productId", h.RemoveFromCart)
		}

		orders := api.Group("/orders")
		orders.Use(RequireAuth())
		{
			orders.POST("", Idempotent(h.Idempotency), h.PlaceOrder)
			orders.POST("/buy-now", Idempotent(h.Idempotency), h.BuyNow)
			orders.GET("/my-orders", h.GetMyOrders)
			orders.GET("/summary", RequireAdmin(), h.GetSalesReport)
			orders.GET("/:id", h.GetOrderByID)
			orders.PUT("/:id/cancel", h.CancelOrder)
			orders.PUT("/:id/status", RequireAdmin(), h.UpdateOrderStatus)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/products/:id/reviews", h.GetReviewsForProduct)
			reviews.GET("/products/:id/summary", h.GetReviewSummary)
			reviews.POST("", RequireAuth(), h.CreateReview)
			reviews.PUT("/:id", RequireAuth(), h.UpdateReview)
			reviews.DELETE("/:id", RequireAuth(), h.DeleteReview)
		}

		users := api.Group("/users")
		{
			users.POST("/register", h.Register)
			users.POST("/login", h.Login)
			users.POST("/logout", RequireAuth(), h.Logout)
			users.GET("/profile", RequireAuth(), h.GetProfile)
			users.PATCH("/profile", RequireAuth(), h.UpdateProfile)
			users.PATCH("/change-password", RequireAuth(), h.ChangePassword)
		}

		blogs := api.Group("/blogs")
		{
			blogs.GET("", h.GetAllBlogs)
			blogs.POST("", RequireAdmin(), h.CreateBlog)
			blogs.GET("/:slug", h.GetBlogBySlug)
		}
	}
}
