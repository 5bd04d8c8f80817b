// Package lifecycle holds the auction rules: status transitions, bid acceptance,
// winner selection, deposits and the clock-derived views of a product. Every
// function here is pure; callers pass the current time in.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"

	"github.com/shopspring/decimal"
)

var transitions = map[models.ProductStatus][]models.ProductStatus{
	models.StatusPending: {models.StatusActive, models.StatusRejected},
	models.StatusActive:  {models.StatusEnded},
}

// CheckTransition reports whether a product may move from one status to another
func CheckTransition(from, to models.ProductStatus) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", auctionerrors.ErrInvalidTransition, from, to)
}

// EndTime is start plus the listing duration in minutes
func EndTime(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// Approve moves a pending product to active, starting its clock at now
func Approve(p models.Product, now time.Time) (models.Product, error) {
	if err := CheckTransition(p.Status, models.StatusActive); err != nil {
		return p, err
	}
	start := now.UTC()
	end := EndTime(start, p.DurationMinutes)
	p.Status = models.StatusActive
	p.StartTime = &start
	p.EndTime = &end
	p.RejectionReason = ""
	return p, nil
}

// Reject moves a pending product to rejected. The reason must not be blank.
func Reject(p models.Product, reason string) (models.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return p, auctionerrors.ErrRejectionReasonRequired
	}
	if err := CheckTransition(p.Status, models.StatusRejected); err != nil {
		return p, err
	}
	p.Status = models.StatusRejected
	p.RejectionReason = reason
	return p, nil
}

// MinimumBid is the lowest amount the next bid may carry
func MinimumBid(p models.Product) float64 {
	return minimumBid(p).InexactFloat64()
}

// minimumBid sums in decimal so 0.1 + 0.2 is exactly 0.3
func minimumBid(p models.Product) decimal.Decimal {
	return decimal.NewFromFloat(p.CurrentPrice).Add(decimal.NewFromFloat(p.BidStep))
}

// ValidateBid decides whether a bid of amount by an account in role is acceptable now
func ValidateBid(p models.Product, role models.Role, amount float64, now time.Time) error {
	if role != models.RoleBuyer {
		return auctionerrors.ErrNotBuyer
	}
	if p.Status != models.StatusActive || p.EndTime == nil || !now.Before(*p.EndTime) {
		return auctionerrors.ErrAuctionEnded
	}
	if minBid := minimumBid(p); decimal.NewFromFloat(amount).LessThan(minBid) {
		return fmt.Errorf("%w: minimum bid is %s", auctionerrors.ErrBidTooLow, FormatAmount(minBid))
	}
	return nil
}

// WinningBid picks the highest bid; on equal amounts the earliest wins.
// Bids with identical amount and timestamp keep their slice order.
func WinningBid(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, true
}

// IsEnded reports whether the auction is over at now. A stored "active" status
// does not count once the end time has passed.
func IsEnded(p models.Product, now time.Time) bool {
	if p.Status == models.StatusEnded {
		return true
	}
	return p.Status == models.StatusActive && p.EndTime != nil && !now.Before(*p.EndTime)
}

// EffectiveStatus is the stored status with time-based expiry applied
func EffectiveStatus(p models.Product, now time.Time) models.ProductStatus {
	if IsEnded(p, now) {
		return models.StatusEnded
	}
	return p.Status
}

// TimeRemaining until the end time, never negative
func TimeRemaining(p models.Product, now time.Time) time.Duration {
	if p.EndTime == nil {
		return 0
	}
	if d := p.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

// FormatCountdown renders a remaining duration as "3h 12m" or "3h 12m 5s"
func FormatCountdown(d time.Duration, withSeconds bool) string {
	if d <= 0 {
		return "Ended"
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if !withSeconds {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// Details derives the clock-dependent view of p at now
func Details(p models.Product, now time.Time) models.ProductDetails {
	remaining := TimeRemaining(p, now)
	countdown := ""
	if p.EndTime != nil {
		countdown = FormatCountdown(remaining, true)
	}
	return models.ProductDetails{
		Product:         p,
		EffectiveStatus: EffectiveStatus(p, now),
		Remaining:       remaining,
		Countdown:       countdown,
		MinimumBid:      MinimumBid(p),
	}
}

// ValidateListing checks the seller-supplied fields of a new product
func ValidateListing(in models.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", auctionerrors.ErrInvalidListing)
	case in.StartingPrice <= 0:
		return fmt.Errorf("%w: starting price must be positive", auctionerrors.ErrInvalidListing)
	case in.BidStep <= 0:
		return fmt.Errorf("%w: bid step must be positive", auctionerrors.ErrInvalidListing)
	case in.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration must be positive", auctionerrors.ErrInvalidListing)
	case in.BuyNowPrice != nil && *in.BuyNowPrice < in.StartingPrice:
		return fmt.Errorf("%w: buy-now price below starting price", auctionerrors.ErrInvalidListing)
	}
	switch in.Category {
	case models.CategoryGeneral, models.CategoryHandbag, models.CategoryShoe:
	default:
		return fmt.Errorf("%w: unknown category %q", auctionerrors.ErrInvalidListing, in.Category)
	}
	if in.Attributes != nil && in.Attributes.Category() != in.Category {
		return fmt.Errorf("%w: %s attributes on a %s listing", auctionerrors.ErrInvalidListing, in.Attributes.Category(), in.Category)
	}
	return nil
}

// FinalPrice is what a buyer pays for p through the given order type
func FinalPrice(p models.Product, orderType models.OrderType) float64 {
	if orderType == models.OrderTypeBuyNow && p.BuyNowPrice != nil {
		return *p.BuyNowPrice
	}
	return p.CurrentPrice
}

// MatchesSearch does a case-insensitive substring match on title and category
func MatchesSearch(p models.Product, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(string(p.Category)), search) {
		return true
	}
	if g, ok := p.Attributes.(models.GeneralAttributes); ok {
		return strings.Contains(strings.ToLower(g.Label), search)
	}
	return false
}
