package helpers

import (
	"encoding/json"
	"time"

	model "auction-marketplace/internal/models"
)

// Request DTOs
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=buyer seller admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=buyer seller admin"`
}

type SubmitProductRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Attributes      json.RawMessage `json:"attributes"`
	Images          []string        `json:"images"`
	EvidenceImages  []string        `json:"evidence_images"`
	StartingPrice   float64         `json:"starting_price" binding:"required,gt=0"`
	BidStep         float64         `json:"bid_step" binding:"required,gt=0"`
	BuyNowPrice     *float64        `json:"buy_now_price" binding:"omitempty,gt=0"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,gt=0"`
}

type RejectProductRequest struct {
	Reason string `json:"reason"`
}

type PlaceBidRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	ProductID       string `json:"product_id" binding:"required"`
	Type            string `json:"type" binding:"required,oneof=bid buynow"`
	ShippingAddress string `json:"shipping_address"`
}

// Response DTOs
type AccountResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

type ProductResponse struct {
	ProductID        string           `json:"product_id"`
	SellerID         string           `json:"seller_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Attributes       model.Attributes `json:"attributes,omitempty"`
	Images           []string         `json:"images"`
	EvidenceImages   []string         `json:"evidence_images"`
	StartingPrice    float64          `json:"starting_price"`
	BidStep          float64          `json:"bid_step"`
	BuyNowPrice      *float64         `json:"buy_now_price,omitempty"`
	DurationMinutes  int              `json:"duration_minutes"`
	Status           string           `json:"status"`
	CurrentPrice     float64          `json:"current_price"`
	StartTime        string           `json:"start_time,omitempty"`
	EndTime          string           `json:"end_time,omitempty"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	CreatedAt        string           `json:"created_at"`
	EffectiveStatus  string           `json:"effective_status,omitempty"`
	RemainingSeconds int64            `json:"remaining_seconds"`
	Countdown        string           `json:"countdown,omitempty"`
	MinimumBid       float64          `json:"minimum_bid,omitempty"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ProductID string  `json:"product_id"`
	BuyerID   string  `json:"buyer_id"`
	BuyerName string  `json:"buyer_name"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type OrderResponse struct {
	OrderID         string  `json:"order_id"`
	ProductID       string  `json:"product_id"`
	BuyerID         string  `json:"buyer_id"`
	SellerName      string  `json:"seller_name"`
	ProductTitle    string  `json:"product_title"`
	ProductImage    string  `json:"product_image"`
	FinalPrice      float64 `json:"final_price"`
	ShippingAddress string  `json:"shipping_address"`
	DepositPaid     bool    `json:"deposit_paid"`
	Type            string  `json:"type"`
	CreatedAt       string  `json:"created_at"`
	Deposit         string  `json:"deposit,omitempty"`
	Remaining       string  `json:"remaining,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func NewAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      string(a.Role),
	}
}

// NewProductResponse renders the stored fields of a product
func NewProductResponse(p model.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	evidence := p.EvidenceImages
	if evidence == nil {
		evidence = []string{}
	}
	return ProductResponse{
		ProductID:       p.ProductID,
		SellerID:        p.SellerID,
		Title:           p.Title,
		Description:     p.Description,
		Category:        string(p.Category),
		Attributes:      p.Attributes,
		Images:          images,
		EvidenceImages:  evidence,
		StartingPrice:   p.StartingPrice,
		BidStep:         p.BidStep,
		BuyNowPrice:     p.BuyNowPrice,
		DurationMinutes: p.DurationMinutes,
		Status:          string(p.Status),
		CurrentPrice:    p.CurrentPrice,
		StartTime:       formatOptionalTime(p.StartTime),
		EndTime:         formatOptionalTime(p.EndTime),
		RejectionReason: p.RejectionReason,
		CreatedAt:       formatTime(p.CreatedAt),
	}
}

// NewProductDetailsResponse adds the clock-derived fields
func NewProductDetailsResponse(d model.ProductDetails) ProductResponse {
	resp := NewProductResponse(d.Product)
	resp.EffectiveStatus = string(d.EffectiveStatus)
	resp.RemainingSeconds = int64(d.Remaining / time.Second)
	resp.Countdown = d.Countdown
	resp.MinimumBid = d.MinimumBid
	return resp
}

func NewProductDetailsResponses(details []model.ProductDetails) []ProductResponse {
	out := make([]ProductResponse, 0, len(details))
	for _, d := range details {
		out = append(out, NewProductDetailsResponse(d))
	}
	return out
}

func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		ProductID: b.ProductID,
		BuyerID:   b.BuyerID,
		BuyerName: b.BuyerName,
		Amount:    b.Amount,
		CreatedAt: formatTime(b.CreatedAt),
	}
}

func NewOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		OrderID:         o.OrderID,
		ProductID:       o.ProductID,
		BuyerID:         o.BuyerID,
		SellerName:      o.SellerName,
		ProductTitle:    o.ProductTitle,
		ProductImage:    o.ProductImage,
		FinalPrice:      o.FinalPrice,
		ShippingAddress: o.ShippingAddress,
		DepositPaid:     o.DepositPaid,
		Type:            string(o.Type),
		CreatedAt:       formatTime(o.CreatedAt),
	}
}

// NewOrderDetailsResponse adds the deposit and remaining amounts
func NewOrderDetailsResponse(d model.OrderDetails) OrderResponse {
	resp := NewOrderResponse(d.Order)
	resp.Deposit = d.Deposit
	resp.Remaining = d.Remaining
	return resp
}
