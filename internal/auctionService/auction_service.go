package auction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/lifecycle"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
)

// DefaultDepositDelay is the simulated latency of a deposit payment
const DefaultDepositDelay = time.Second

const unknownSeller = "Unknown seller"

// SellerDirectory resolves account display names
type SellerDirectory interface {
	AccountName(accountID string) (string, bool)
}

// AuctionService implements the marketplace use cases on top of a CatalogDB
type AuctionService struct {
	repo         repository.CatalogDB
	sellers      SellerDirectory
	now          func() time.Time
	depositDelay time.Duration
	payments     sync.WaitGroup

	settlingMu sync.Mutex
	settling   map[string]struct{} // order ids with a payment in flight
}

// Option customises an AuctionService
type Option func(*AuctionService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *AuctionService) { s.now = now }
}

// WithDepositDelay sets the simulated payment latency
func WithDepositDelay(d time.Duration) Option {
	return func(s *AuctionService) { s.depositDelay = d }
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.CatalogDB, sellers SellerDirectory, opts ...Option) *AuctionService {
	s := &AuctionService{
		repo:         repo,
		sellers:      sellers,
		now:          time.Now,
		depositDelay: DefaultDepositDelay,
		settling:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuctionService) clock() time.Time {
	return s.now().UTC()
}

// SubmitProduct validates a seller's listing and stores it as pending
func (s *AuctionService) SubmitProduct(ctx context.Context, seller models.Account, in models.ProductInput) (models.Product, error) {
	if seller.Role != models.RoleSeller {
		return models.Product{}, fmt.Errorf("service: submit product: %w", auctionerrors.ErrForbidden)
	}
	if in.Category == "" {
		in.Category = models.CategoryGeneral
	}
	if err := lifecycle.ValidateListing(in); err != nil {
		return models.Product{}, fmt.Errorf("service: submit product: %w", err)
	}

	attrs := in.Attributes
	if attrs == nil {
		zero, err := models.DecodeAttributes(in.Category, nil)
		if err != nil {
			return models.Product{}, fmt.Errorf("service: submit product: %w", err)
		}
		attrs = zero
	}

	product := models.Product{
		ProductID:       utils.GenerateID(),
		SellerID:        seller.AccountID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Category:        in.Category,
		Attributes:      attrs,
		Images:          append([]string{}, in.Images...),
		EvidenceImages:  append([]string{}, in.EvidenceImages...),
		StartingPrice:   in.StartingPrice,
		BidStep:         in.BidStep,
		BuyNowPrice:     in.BuyNowPrice,
		DurationMinutes: in.DurationMinutes,
		Status:          models.StatusPending,
		CurrentPrice:    in.StartingPrice,
		CreatedAt:       s.clock(),
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("service: failed to create product %q: %w", product.Title, err)
	}
	return product, nil
}

// ListActiveProducts returns the auctions open for bidding right now, optionally filtered by search text
func (s *AuctionService) ListActiveProducts(ctx context.Context, search string) ([]models.ProductDetails, error) {
	products, err := s.repo.ListProducts(ctx, repository.ProductFilter{
		Statuses: []models.ProductStatus{models.StatusActive},
		Search:   search,
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list active products: %w", err)
	}

	now := s.clock()
	out := make([]models.ProductDetails, 0, len(products))
	for _, p := range products {
		if lifecycle.IsEnded(p, now) {
			continue
		}
		out = append(out, lifecycle.Details(p, now))
	}
	return out, nil
}

// ListPendingProducts returns the products waiting for an admin decision
func (s *AuctionService) ListPendingProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, repository.ProductFilter{
		Statuses: []models.ProductStatus{models.StatusPending},
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list pending products: %w", err)
	}
	return products, nil
}

// ListSellerProducts returns every product of one seller regardless of status
func (s *AuctionService) ListSellerProducts(ctx context.Context, sellerID string) ([]models.ProductDetails, error) {
	products, err := s.repo.ListProducts(ctx, repository.ProductFilter{SellerID: sellerID})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products of seller %s: %w", sellerID, err)
	}
	return s.details(products), nil
}

// GetProduct returns one product with its clock-derived fields
func (s *AuctionService) GetProduct(ctx context.Context, productID string) (models.ProductDetails, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return models.ProductDetails{}, fmt.Errorf("service: failed to get product %s: %w", productID, err)
	}
	return lifecycle.Details(p, s.clock()), nil
}

// ApproveProduct opens the auction now
func (s *AuctionService) ApproveProduct(ctx context.Context, productID string) (models.Product, error) {
	start := s.clock()
	p, err := s.repo.SetProductStatus(ctx, repository.StatusUpdate{
		ProductID: productID,
		Status:    models.StatusActive,
		StartTime: &start,
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to approve product %s: %w", productID, err)
	}
	return p, nil
}

// RejectProduct refuses a pending product with a reason
func (s *AuctionService) RejectProduct(ctx context.Context, productID, reason string) (models.Product, error) {
	p, err := s.repo.SetProductStatus(ctx, repository.StatusUpdate{
		ProductID:       productID,
		Status:          models.StatusRejected,
		RejectionReason: reason,
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("service: failed to reject product %s: %w", productID, err)
	}
	return p, nil
}

// PlaceBid validates and records a buyer's bid for a product
func (s *AuctionService) PlaceBid(ctx context.Context, buyer models.Account, productID string, amount float64) (models.Bid, error) {
	if productID == "" || buyer.AccountID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing productID or buyer", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ProductID: productID,
		BuyerID:   buyer.AccountID,
		BuyerName: buyer.Name,
		Amount:    amount,
		CreatedAt: s.clock(),
	}

	if _, err := s.repo.RecordBid(ctx, bid, buyer.Role); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for product %s by buyer %s: %w", productID, buyer.AccountID, err)
	}
	return bid, nil
}

// GetBidsForProduct returns the bid history of a product, newest first
func (s *AuctionService) GetBidsForProduct(ctx context.Context, productID string) ([]models.Bid, error) {
	if productID == "" {
		return nil, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByProduct(ctx, productID, repository.BidOrderNewest)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for product %s: %w", productID, err)
	}
	return bids, nil
}

// GetWinningBid returns the current leader of a product
func (s *AuctionService) GetWinningBid(ctx context.Context, productID string) (models.Bid, error) {
	if productID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty product ID", auctionerrors.ErrInvalidBid)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for product %s: %w", productID, err)
	}
	return winningBid, nil
}

// GetProductsByBidder returns all products a buyer has bid on
func (s *AuctionService) GetProductsByBidder(ctx context.Context, buyerID string) ([]models.ProductDetails, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("service: %w - empty buyer ID", auctionerrors.ErrInvalidBid)
	}

	products, err := s.repo.GetProductsByBidder(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get products for buyer %s: %w", buyerID, err)
	}
	return s.details(products), nil
}

// CheckoutRequest describes how a buyer wants to buy a product
type CheckoutRequest struct {
	ProductID       string
	Type            models.OrderType
	ShippingAddress string
}

// Checkout creates an order for a won auction or a buy-now purchase.
// A buy-now purchase closes the auction.
func (s *AuctionService) Checkout(ctx context.Context, buyer models.Account, req CheckoutRequest) (models.Order, error) {
	if buyer.Role != models.RoleBuyer {
		return models.Order{}, fmt.Errorf("service: checkout: %w", auctionerrors.ErrNotBuyer)
	}
	if !req.Type.Valid() {
		return models.Order{}, fmt.Errorf("service: checkout type %q: %w", req.Type, auctionerrors.ErrInvalidOrderType)
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return models.Order{}, fmt.Errorf("service: checkout: %w", auctionerrors.ErrShippingAddressRequired)
	}

	product, err := s.repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return models.Order{}, fmt.Errorf("service: checkout: %w", err)
	}

	now := s.clock()
	switch req.Type {
	case models.OrderTypeBid:
		if err := s.checkWinner(ctx, buyer, product, now); err != nil {
			return models.Order{}, err
		}
	case models.OrderTypeBuyNow:
		if product.BuyNowPrice == nil || lifecycle.EffectiveStatus(product, now) != models.StatusActive {
			return models.Order{}, fmt.Errorf("service: checkout product %s: %w", product.ProductID, auctionerrors.ErrBuyNowUnavailable)
		}
		// closing first means a concurrent buy-now for the same product loses the transition
		closed, err := s.repo.SetProductStatus(ctx, repository.StatusUpdate{ProductID: product.ProductID, Status: models.StatusEnded})
		if errors.Is(err, auctionerrors.ErrInvalidTransition) {
			return models.Order{}, fmt.Errorf("service: checkout product %s: %w", product.ProductID, auctionerrors.ErrBuyNowUnavailable)
		}
		if err != nil {
			return models.Order{}, fmt.Errorf("service: failed to close product %s: %w", product.ProductID, err)
		}
		product = closed
	}

	order := models.Order{
		OrderID:         utils.GenerateID(),
		ProductID:       product.ProductID,
		BuyerID:         buyer.AccountID,
		SellerName:      s.sellerName(product.SellerID),
		ProductTitle:    product.Title,
		FinalPrice:      lifecycle.FinalPrice(product, req.Type),
		ShippingAddress: address,
		Type:            req.Type,
		CreatedAt:       now,
	}
	if len(product.Images) > 0 {
		order.ProductImage = product.Images[0]
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("service: failed to create order for product %s: %w", product.ProductID, err)
	}
	return order, nil
}

// checkWinner allows a bid checkout only for the top bidder of a finished auction
func (s *AuctionService) checkWinner(ctx context.Context, buyer models.Account, product models.Product, now time.Time) error {
	if !lifecycle.IsEnded(product, now) {
		return fmt.Errorf("service: checkout product %s: %w", product.ProductID, auctionerrors.ErrAuctionRunning)
	}
	// a stored ended status only comes from a buy-now purchase
	if product.Status == models.StatusEnded {
		return fmt.Errorf("service: checkout product %s: sold through buy-now: %w", product.ProductID, auctionerrors.ErrNotWinningBidder)
	}

	winning, err := s.repo.GetWinningBid(ctx, product.ProductID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return fmt.Errorf("service: checkout product %s: %w", product.ProductID, auctionerrors.ErrNotWinningBidder)
	}
	if err != nil {
		return fmt.Errorf("service: failed to get winning bid for product %s: %w", product.ProductID, err)
	}
	if winning.BuyerID != buyer.AccountID {
		return fmt.Errorf("service: checkout product %s: %w", product.ProductID, auctionerrors.ErrNotWinningBidder)
	}
	return nil
}

// GetOrdersForBuyer returns a buyer's orders with their deposit figures
func (s *AuctionService) GetOrdersForBuyer(ctx context.Context, buyerID string) ([]models.OrderDetails, error) {
	orders, err := s.repo.GetOrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get orders for buyer %s: %w", buyerID, err)
	}

	out := make([]models.OrderDetails, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderDetails(o))
	}
	return out, nil
}

func (s *AuctionService) details(products []models.Product) []models.ProductDetails {
	now := s.clock()
	out := make([]models.ProductDetails, 0, len(products))
	for _, p := range products {
		out = append(out, lifecycle.Details(p, now))
	}
	return out
}

func (s *AuctionService) sellerName(sellerID string) string {
	if s.sellers == nil {
		return unknownSeller
	}
	if name, ok := s.sellers.AccountName(sellerID); ok && name != "" {
		return name
	}
	return unknownSeller
}

func orderDetails(o models.Order) models.OrderDetails {
	return models.OrderDetails{
		Order:     o,
		Deposit:   lifecycle.FormatAmount(lifecycle.DepositAmount(o.FinalPrice)),
		Remaining: lifecycle.FormatAmount(lifecycle.RemainingAmount(o.FinalPrice)),
	}
}
