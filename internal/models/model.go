package models

import "time"

// Role is the capacity an account acts in
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// ProductStatus is the lifecycle state of a listing
type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusActive   ProductStatus = "active"
	StatusRejected ProductStatus = "rejected"
	StatusEnded    ProductStatus = "ended"
)

// OrderType tells how an order came about
type OrderType string

const (
	OrderTypeBid    OrderType = "bid"
	OrderTypeBuyNow OrderType = "buynow"
)

// Valid reports whether t is a known order type
func (t OrderType) Valid() bool {
	return t == OrderTypeBid || t == OrderTypeBuyNow
}

// Account represents a registered participant. Unique per (Email, Role).
type Account struct {
	AccountID  string `json:"account_id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Credential string `json:"credential,omitempty"`
}

// Public returns the account without its credential
func (a Account) Public() Account {
	a.Credential = ""
	return a
}

// Product represents a seller-submitted auction listing
type Product struct {
	ProductID       string        `json:"product_id"`
	SellerID        string        `json:"seller_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        Category      `json:"category"`
	Attributes      Attributes    `json:"-"`
	Images          []string      `json:"images"`
	EvidenceImages  []string      `json:"evidence_images"`
	StartingPrice   float64       `json:"starting_price"`
	BidStep         float64       `json:"bid_step"`
	BuyNowPrice     *float64      `json:"buy_now_price,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          ProductStatus `json:"status"`
	CurrentPrice    float64       `json:"current_price"`
	StartTime       *time.Time    `json:"start_time,omitempty"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Clone returns a copy that shares no slices or pointers with p
func (p Product) Clone() Product {
	c := p
	c.Images = append([]string(nil), p.Images...)
	c.EvidenceImages = append([]string(nil), p.EvidenceImages...)
	if p.BuyNowPrice != nil {
		v := *p.BuyNowPrice
		c.BuyNowPrice = &v
	}
	if p.StartTime != nil {
		v := *p.StartTime
		c.StartTime = &v
	}
	if p.EndTime != nil {
		v := *p.EndTime
		c.EndTime = &v
	}
	return c
}

// ProductInput carries the seller-supplied fields of a new listing
type ProductInput struct {
	Title           string
	Description     string
	Category        Category
	Attributes      Attributes
	Images          []string
	EvidenceImages  []string
	StartingPrice   float64
	BidStep         float64
	BuyNowPrice     *float64
	DurationMinutes int
}

// Bid represents a buyer's bid on a product
type Bid struct {
	BidID     string    `json:"bid_id"`
	ProductID string    `json:"product_id"`
	BuyerID   string    `json:"buyer_id"`
	BuyerName string    `json:"buyer_name"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Order represents a purchase, either a won auction or a buy-now
type Order struct {
	OrderID         string    `json:"order_id"`
	ProductID       string    `json:"product_id"`
	BuyerID         string    `json:"buyer_id"`
	SellerName      string    `json:"seller_name"`
	ProductTitle    string    `json:"product_title"`
	ProductImage    string    `json:"product_image"`
	FinalPrice      float64   `json:"final_price"`
	ShippingAddress string    `json:"shipping_address"`
	DepositPaid     bool      `json:"deposit_paid"`
	Type            OrderType `json:"type"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProductDetails is a product snapshot plus the fields derived from the clock
type ProductDetails struct {
	Product         Product
	EffectiveStatus ProductStatus
	Remaining       time.Duration
	Countdown       string
	MinimumBid      float64
}

// OrderDetails is an order plus its deposit figures rendered to two decimals
type OrderDetails struct {
	Order     Order
	Deposit   string
	Remaining string
}
