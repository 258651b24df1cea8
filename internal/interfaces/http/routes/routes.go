// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/infrastructure/credentials"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/remote"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/receipt"
)

// SetupRoutes wires all API routes onto the router group
func SetupRoutes(rg *gin.RouterGroup, snap *snapshot.Store, rs *remote.Store, cfg *config.Config, logger *logrus.Logger) {
	ids := identity.NewService(snap, rs, newCredentialsService(snap, cfg, logger), logger)
	cat := catalog.NewService(snap, logger)
	carts := cart.NewManager(snap, rs, cfg, logger)
	checkouts := checkout.NewService(snap, rs, carts, cfg, logger)
	history := order.NewHistory(snap, rs, logger)
	receipts := receipt.NewService(cfg)

	setupAuthRoutes(rg, ids, cfg)
	setupCatalogRoutes(rg, cat)
	setupCartRoutes(rg, carts, cat, cfg)
	setupCheckoutRoutes(rg, checkouts, ids, cfg)
	setupOrderRoutes(rg, history, receipts, cfg)
}

// newCredentialsService picks the configured credential backend
func newCredentialsService(snap *snapshot.Store, cfg *config.Config, logger *logrus.Logger) credentials.Service {
	if cfg.Credentials.Provider == "hosted" {
		return credentials.NewHostedService(cfg.Credentials, logger)
	}
	mailer := email.NewService(cfg.Email, logger)
	return credentials.NewLocalService(snap, mailer, cfg.Security, logger)
}

func setupAuthRoutes(rg *gin.RouterGroup, ids *identity.Service, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(ids, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.Profile)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, cat *catalog.Service) {
	catalogHandler := handlers.NewCatalogHandler(cat)

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, carts *cart.Manager, cat *catalog.Service, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(carts, cat)

	// Cart routes work for guests and signed-in users alike
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:index", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:index", cartHandler.RemoveItem)
		cartGroup.POST("/items/:index/save", cartHandler.SaveForLater)
		cartGroup.GET("/saved", cartHandler.GetSavedItems)
		cartGroup.POST("/saved/:index/move", cartHandler.MoveToCart)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, checkouts *checkout.Service, ids *identity.Service, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(checkouts)

	// Checkout requires a signed-in user; guests are redirected to login and
	// brought back afterwards.
	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.CheckoutAuthMiddleware(cfg, ids))
	{
		checkoutGroup.GET("", checkoutHandler.GetSession)
		checkoutGroup.PUT("/shipping", checkoutHandler.SetShipping)
		checkoutGroup.PUT("/payment", checkoutHandler.SetPayment)
		checkoutGroup.POST("/promo", checkoutHandler.ApplyPromo)
		checkoutGroup.DELETE("/promo", checkoutHandler.RemovePromo)
		checkoutGroup.POST("/next", checkoutHandler.NextStep)
		checkoutGroup.POST("/prev", checkoutHandler.PrevStep)
		checkoutGroup.POST("/order", checkoutHandler.PlaceOrder)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, history *order.History, receipts *receipt.Service, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(history, receipts)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)
	}
}
