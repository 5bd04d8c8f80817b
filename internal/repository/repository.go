package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/storage"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// CatalogDB defines the product, bid and order storage of the marketplace
type CatalogDB interface {
	CreateProduct(ctx context.Context, product model.Product) error
	SetProductStatus(ctx context.Context, update StatusUpdate) (model.Product, error)
	RecordBid(ctx context.Context, bid model.Bid, bidderRole model.Role) (model.Product, error)
	CreateOrder(ctx context.Context, order model.Order) error
	MarkDepositPaid(ctx context.Context, orderID string) (model.Order, error)

	GetProduct(ctx context.Context, productID string) (model.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetBidsByProduct(ctx context.Context, productID string, order BidOrder) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, productID string) (model.Bid, error)
	GetProductsByBidder(ctx context.Context, buyerID string) ([]model.Product, error)
	GetOrdersByBuyer(ctx context.Context, buyerID string) ([]model.Order, error)
	GetOrder(ctx context.Context, orderID string) (model.Order, error)
}

// StatusUpdate asks for a product status change. StartTime only matters when
// activating; RejectionReason only when rejecting.
type StatusUpdate struct {
	ProductID       string
	Status          model.ProductStatus
	RejectionReason string
	StartTime       *time.Time
}

// ProductFilter selects products. Zero values match everything.
type ProductFilter struct {
	Statuses []model.ProductStatus
	Search   string
	SellerID string
}

func (f ProductFilter) matches(p model.Product) bool {
	if f.SellerID != "" && p.SellerID != f.SellerID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if p.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return lifecycle.MatchesSearch(p, f.Search)
}

// BidOrder selects the sort order of a bid listing
type BidOrder int

const (
	// BidOrderNewest sorts by timestamp, latest first
	BidOrderNewest BidOrder = iota
	// BidOrderHighest sorts by amount, highest first, earliest first on ties
	BidOrderHighest
)

// MemoryRepo is a concurrency-safe in-memory implementation of CatalogDB that
// writes every changed collection through to a storage.Backend
type MemoryRepo struct {
	mu           sync.RWMutex
	products     []model.Product
	productIndex map[string]int // productID -> position in products
	bids         []model.Bid
	orders       []model.Order
	backend      storage.Backend
}

// NewMemoryRepo creates an empty repository persisting to backend.
// A nil backend keeps everything in memory only.
func NewMemoryRepo(backend storage.Backend) *MemoryRepo {
	return &MemoryRepo{
		productIndex: make(map[string]int),
		backend:      backend,
	}
}

// Load replaces the in-memory collections with the persisted snapshots
func (r *MemoryRepo) Load(ctx context.Context) error {
	if r.backend == nil {
		return nil
	}

	var products []model.Product
	var bids []model.Bid
	var orders []model.Order
	if _, err := storage.LoadJSON(ctx, r.backend, storage.KeyProducts, &products); err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if _, err := storage.LoadJSON(ctx, r.backend, storage.KeyBids, &bids); err != nil {
		return fmt.Errorf("load bids: %w", err)
	}
	if _, err := storage.LoadJSON(ctx, r.backend, storage.KeyOrders, &orders); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = products
	r.bids = bids
	r.orders = orders
	r.productIndex = make(map[string]int, len(products))
	for i, p := range products {
		r.productIndex[p.ProductID] = i
	}
	return nil
}

// CreateProduct appends a new product
func (r *MemoryRepo) CreateProduct(ctx context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.productIndex[product.ProductID]; exists {
		return fmt.Errorf("create product %s: already exists", product.ProductID)
	}
	r.productIndex[product.ProductID] = len(r.products)
	r.products = append(r.products, product.Clone())

	r.persist(ctx, storage.KeyProducts, r.products)
	return nil
}

// SetProductStatus applies a status change after checking it against the
// lifecycle transition table. Activating with a start time also sets the end time.
func (r *MemoryRepo) SetProductStatus(ctx context.Context, update StatusUpdate) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.productIndex[update.ProductID]
	if !ok {
		return model.Product{}, fmt.Errorf("set status of product %s: %w", update.ProductID, auctionerrors.ErrProductNotFound)
	}

	current := r.products[idx]
	var (
		next model.Product
		err  error
	)
	switch {
	case update.Status == model.StatusActive && update.StartTime != nil:
		next, err = lifecycle.Approve(current, *update.StartTime)
	case update.Status == model.StatusRejected:
		next, err = lifecycle.Reject(current, update.RejectionReason)
	default:
		next = current
		err = lifecycle.CheckTransition(current.Status, update.Status)
		next.Status = update.Status
	}
	if err != nil {
		return current.Clone(), fmt.Errorf("set status of product %s: %w", update.ProductID, err)
	}

	r.products[idx] = next
	r.persist(ctx, storage.KeyProducts, r.products)
	return next.Clone(), nil
}

// RecordBid appends a bid and raises the product's current price to its amount.
// The bid is checked against the lifecycle rules at bid.CreatedAt first.
func (r *MemoryRepo) RecordBid(ctx context.Context, bid model.Bid, bidderRole model.Role) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.productIndex[bid.ProductID]
	if !ok {
		return model.Product{}, fmt.Errorf("record bid for product %s: %w", bid.ProductID, auctionerrors.ErrProductNotFound)
	}

	product := r.products[idx]
	if err := lifecycle.ValidateBid(product, bidderRole, bid.Amount, bid.CreatedAt); err != nil {
		return product.Clone(), fmt.Errorf("record bid for product %s: %w", bid.ProductID, err)
	}

	r.bids = append(r.bids, bid)
	product.CurrentPrice = bid.Amount
	r.products[idx] = product

	r.persist(ctx, storage.KeyBids, r.bids)
	r.persist(ctx, storage.KeyProducts, r.products)
	return product.Clone(), nil
}

// CreateOrder appends an order. A buyer holds at most one order per product.
func (r *MemoryRepo) CreateOrder(ctx context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.productIndex[order.ProductID]; !ok {
		return fmt.Errorf("create order for product %s: %w", order.ProductID, auctionerrors.ErrProductNotFound)
	}
	for _, o := range r.orders {
		if o.ProductID == order.ProductID && o.BuyerID == order.BuyerID {
			return fmt.Errorf("create order for product %s: %w", order.ProductID, auctionerrors.ErrDuplicateOrder)
		}
	}

	r.orders = append(r.orders, order)
	r.persist(ctx, storage.KeyOrders, r.orders)
	return nil
}

// MarkDepositPaid flags the order's deposit as paid
func (r *MemoryRepo) MarkDepositPaid(ctx context.Context, orderID string) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			r.orders[i].DepositPaid = true
			r.persist(ctx, storage.KeyOrders, r.orders)
			return r.orders[i], nil
		}
	}
	return model.Order{}, fmt.Errorf("mark deposit paid for order %s: %w", orderID, auctionerrors.ErrOrderNotFound)
}

// GetProduct returns one product
func (r *MemoryRepo) GetProduct(_ context.Context, productID string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.productIndex[productID]
	if !ok {
		return model.Product{}, fmt.Errorf("get product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	return r.products[idx].Clone(), nil
}

// ListProducts returns the products matching filter in creation order
func (r *MemoryRepo) ListProducts(_ context.Context, filter ProductFilter) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, 0)
	for _, p := range r.products {
		if filter.matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// GetBidsByProduct returns all bids for a product in the requested order
func (r *MemoryRepo) GetBidsByProduct(_ context.Context, productID string, order BidOrder) ([]model.Bid, error) {
	r.mu.RLock()
	_, known := r.productIndex[productID]
	bids := r.bidsFor(productID)
	r.mu.RUnlock()

	if !known {
		return nil, fmt.Errorf("get bids for product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for product %s: %w", productID, auctionerrors.ErrNoBids)
	}

	switch order {
	case BidOrderHighest:
		sort.SliceStable(bids, func(i, j int) bool {
			if bids[i].Amount != bids[j].Amount {
				return bids[i].Amount > bids[j].Amount
			}
			return bids[i].CreatedAt.Before(bids[j].CreatedAt)
		})
	default:
		sort.SliceStable(bids, func(i, j int) bool {
			return bids[i].CreatedAt.After(bids[j].CreatedAt)
		})
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for a product, earliest on ties
func (r *MemoryRepo) GetWinningBid(_ context.Context, productID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.productIndex[productID]; !ok {
		return model.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, auctionerrors.ErrProductNotFound)
	}
	winning, ok := lifecycle.WinningBid(r.bidsFor(productID))
	if !ok {
		return model.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, auctionerrors.ErrNoBids)
	}
	return winning, nil
}

// GetProductsByBidder returns the products a buyer has bid on, in order of first bid
func (r *MemoryRepo) GetProductsByBidder(_ context.Context, buyerID string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	products := make([]model.Product, 0)
	for _, b := range r.bids {
		if b.BuyerID != buyerID || seen[b.ProductID] {
			continue
		}
		seen[b.ProductID] = true
		if idx, ok := r.productIndex[b.ProductID]; ok {
			products = append(products, r.products[idx].Clone())
		}
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("get products for bidder %s: %w", buyerID, auctionerrors.ErrUserNoBids)
	}
	return products, nil
}

// GetOrdersByBuyer returns a buyer's orders in creation order
func (r *MemoryRepo) GetOrdersByBuyer(_ context.Context, buyerID string) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]model.Order, 0)
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// GetOrder returns one order
func (r *MemoryRepo) GetOrder(_ context.Context, orderID string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return model.Order{}, fmt.Errorf("get order %s: %w", orderID, auctionerrors.ErrOrderNotFound)
}

// bidsFor copies the bids of one product. Callers hold r.mu.
func (r *MemoryRepo) bidsFor(productID string) []model.Bid {
	var bids []model.Bid
	for _, b := range r.bids {
		if b.ProductID == productID {
			bids = append(bids, b)
		}
	}
	return bids
}
