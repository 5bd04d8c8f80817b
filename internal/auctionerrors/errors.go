package auctionerrors

import "errors"

// ErrDeclined matches every business-rule rejection
var ErrDeclined = errors.New("declined")

// DeclinedError is a business-rule rejection carrying a user-facing reason
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string { return e.Reason }

// Is lets errors.Is(err, ErrDeclined) match any declined result
func (e *DeclinedError) Is(target error) bool {
	return target == ErrDeclined
}

func declined(reason string) error {
	return &DeclinedError{Reason: reason}
}

// Repository-level errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrNoBids          = errors.New("no bids found for product")
	ErrUserNoBids      = errors.New("user has not placed any bids")
)

// Declined results
var (
	ErrAuctionEnded            = declined("auction ended")
	ErrBidTooLow               = declined("bid too low")
	ErrNotBuyer                = declined("not a buyer")
	ErrDuplicateAccount        = declined("duplicate account")
	ErrInvalidCredentials      = declined("invalid credentials")
	ErrRejectionReasonRequired = declined("rejection reason required")
	ErrInvalidTransition       = declined("invalid status transition")
	ErrNotWinningBidder        = declined("not the winning bidder")
	ErrShippingAddressRequired = declined("shipping address required")
	ErrBuyNowUnavailable       = declined("buy-now unavailable")
	ErrAuctionRunning          = declined("auction still running")
	ErrDuplicateOrder          = declined("duplicate order")
	ErrInvalidListing          = declined("invalid listing")
	ErrInvalidBid              = declined("invalid bid")
	ErrInvalidOrderType        = declined("invalid order type")
	ErrNoSession               = declined("no active session")
	ErrForbidden               = declined("role not permitted")
)

// Reason returns the declined reason carried by err, or "" when err is not declined
func Reason(err error) string {
	var d *DeclinedError
	if errors.As(err, &d) {
		return d.Reason
	}
	return ""
}
