package handler

import (
	"context"

	auction "auction-marketplace/internal/auctionService"
	model "auction-marketplace/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=handler

type AuctionServiceInterface interface {
	SubmitProduct(ctx context.Context, seller model.Account, in model.ProductInput) (model.Product, error)
	ListActiveProducts(ctx context.Context, search string) ([]model.ProductDetails, error)
	ListPendingProducts(ctx context.Context) ([]model.Product, error)
	ListSellerProducts(ctx context.Context, sellerID string) ([]model.ProductDetails, error)
	GetProduct(ctx context.Context, productID string) (model.ProductDetails, error)
	ApproveProduct(ctx context.Context, productID string) (model.Product, error)
	RejectProduct(ctx context.Context, productID, reason string) (model.Product, error)
	PlaceBid(ctx context.Context, buyer model.Account, productID string, amount float64) (model.Bid, error)
	GetBidsForProduct(ctx context.Context, productID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, productID string) (model.Bid, error)
	GetProductsByBidder(ctx context.Context, buyerID string) ([]model.ProductDetails, error)
	Checkout(ctx context.Context, buyer model.Account, req auction.CheckoutRequest) (model.Order, error)
	GetOrdersForBuyer(ctx context.Context, buyerID string) ([]model.OrderDetails, error)
	PayDeposit(ctx context.Context, buyer model.Account, orderID string) (model.OrderDetails, error)
}

type IdentityServiceInterface interface {
	Register(ctx context.Context, email, credential, name string, role model.Role) (model.Account, error)
	Login(ctx context.Context, email, credential string, role model.Role) (model.Account, error)
	Logout(ctx context.Context) error
	CurrentSession() (model.Account, bool)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}
