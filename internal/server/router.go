package server

import (
	model "auction-marketplace/internal/models"
	handler "auction-marketplace/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// Identity is what the router needs from the identity store
type Identity interface {
	handler.IdentityServiceInterface
	SessionProvider
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService handler.AuctionServiceInterface, identity Identity) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware)

	authHandler := handler.NewAuthHandler(identity)
	auctionHandler := handler.NewAuctionHandler(auctionService)

	buyerOnly := RequireRole(identity, model.RoleBuyer)
	sellerOnly := RequireRole(identity, model.RoleSeller)
	adminOnly := RequireRole(identity, model.RoleAdmin)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.RegisterHandler)
		auth.POST("/login", authHandler.LoginHandler)
		auth.POST("/logout", authHandler.LogoutHandler)
		auth.GET("/session", authHandler.SessionHandler)
	}

	products := router.Group("/products")
	{
		products.GET("", auctionHandler.ListActiveProductsHandler)
		products.POST("", sellerOnly, auctionHandler.SubmitProductHandler)
		products.GET("/:product_id", auctionHandler.GetProductHandler)
		products.GET("/:product_id/bids", auctionHandler.GetBidsByProductHandler)
		products.GET("/:product_id/winning", auctionHandler.GetWinningBidHandler)
	}

	sellers := router.Group("/sellers", sellerOnly)
	{
		sellers.GET("/me/products", auctionHandler.ListSellerProductsHandler)
	}

	admin := router.Group("/admin", adminOnly)
	{
		admin.GET("/products/pending", auctionHandler.ListPendingProductsHandler)
		admin.POST("/products/:product_id/approve", auctionHandler.ApproveProductHandler)
		admin.POST("/products/:product_id/reject", auctionHandler.RejectProductHandler)
	}

	bids := router.Group("/bids", buyerOnly)
	{
		bids.POST("", auctionHandler.RecordBidHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/products", auctionHandler.GetProductsByUserHandler)
	}

	orders := router.Group("/orders", buyerOnly)
	{
		orders.POST("", auctionHandler.CheckoutHandler)
		orders.GET("", auctionHandler.ListOrdersHandler)
		orders.POST("/:order_id/deposit", auctionHandler.PayDepositHandler)
	}

	return router
}
