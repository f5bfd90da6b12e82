// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/invoice"
	"gorm.io/gorm"
)

// SetupRoutes wires services, handlers and route groups. Services are
// constructed once here and injected into handlers.
func SetupRoutes(router *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Shared dependencies
	jwtManager := auth.NewJWTManager(cfg)

	// Services
	cartService := cart.NewService(db, cfg)
	checkoutService := checkout.NewService(db, redisClient, cfg, cartService)
	cartService.OnMutation(checkoutService.InvalidateSnapshot)
	orderService := order.NewService(db, cfg)
	productService := product.NewService(db, cfg)
	categoryService := product.NewCategoryService(db, cfg)
	userService := user.NewService(db, cfg, jwtManager)
	invoiceService := invoice.NewService(cfg)

	// Handlers
	cartHandler := handlers.NewCartHandler(cartService, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, cfg)
	orderHandler := handlers.NewOrderHandler(orderService, cfg)
	adminOrderHandler := handlers.NewAdminOrderHandler(orderService, userService, invoiceService, cfg)
	authHandler := handlers.NewAuthHandler(userService, cfg)
	productHandler := handlers.NewProductHandler(productService, cfg)
	categoryHandler := handlers.NewCategoryHandler(categoryService, cfg)

	// Auth routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.GET("/profile", middleware.AuthMiddleware(jwtManager), authHandler.Profile)
	}

	// Catalog routes (public)
	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/slug/:slug", productHandler.GetProductBySlug)
	router.GET("/products/:id", productHandler.GetProduct)
	router.GET("/categories", categoryHandler.ListCategories)
	router.GET("/categories/:slug", categoryHandler.GetCategoryBySlug)
	router.GET("/collections", categoryHandler.ListCollections)
	router.GET("/collections/:slug", categoryHandler.GetCollectionBySlug)

	// Cart routes: guests get a session cookie, users an optional token
	cartRoutes := router.Group("/cart",
		middleware.Session(cfg),
		middleware.OptionalAuthMiddleware(jwtManager))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateItem)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
		cartRoutes.POST("/merge", cartHandler.MergeCart)
	}

	// Checkout routes
	checkoutRoutes := router.Group("/checkout",
		middleware.Session(cfg),
		middleware.OptionalAuthMiddleware(jwtManager))
	{
		checkoutRoutes.POST("/session", checkoutHandler.StartSession)
		checkoutRoutes.POST("/validate", checkoutHandler.Validate)
		checkoutRoutes.POST("/calculate", checkoutHandler.Calculate)
		checkoutRoutes.POST("/place-order", checkoutHandler.PlaceOrder)
	}

	// Order routes: authenticated users or guests with their order email
	orderRoutes := router.Group("/orders", middleware.OptionalAuthMiddleware(jwtManager))
	{
		orderRoutes.GET("", orderHandler.ListOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.GET("/:id/status", orderHandler.GetOrderStatus)
	}

	// Admin routes
	adminRoutes := router.Group("/admin",
		middleware.AuthMiddleware(jwtManager),
		middleware.AdminMiddleware())
	{
		adminRoutes.GET("/orders", adminOrderHandler.ListOrders)
		adminRoutes.GET("/orders/:id", adminOrderHandler.GetOrder)
		adminRoutes.PUT("/orders/:id/status", adminOrderHandler.UpdateStatus)
		adminRoutes.POST("/orders/:id/cancel", adminOrderHandler.CancelOrder)
		adminRoutes.GET("/orders/:id/invoice", adminOrderHandler.GetInvoice)

		adminRoutes.POST("/products", productHandler.CreateProduct)
		adminRoutes.PUT("/products/:id", productHandler.UpdateProduct)
		adminRoutes.DELETE("/products/:id", productHandler.DeleteProduct)
		adminRoutes.POST("/categories", categoryHandler.CreateCategory)
		adminRoutes.POST("/collections", categoryHandler.CreateCollection)
	}
}
