package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// AccountKey is the gin context key holding the signed-in account
const AccountKey = "account"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload", "")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, auctionerrors.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, auctionerrors.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for product"
	case errors.Is(err, auctionerrors.ErrUserNoBids):
		return http.StatusOK, "no products found for user"
	case errors.Is(err, auctionerrors.ErrNoSession),
		errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, auctionerrors.Reason(err)
	case errors.Is(err, auctionerrors.ErrForbidden),
		errors.Is(err, auctionerrors.ErrNotBuyer):
		return http.StatusForbidden, auctionerrors.Reason(err)
	case errors.Is(err, auctionerrors.ErrInvalidBid),
		errors.Is(err, auctionerrors.ErrInvalidListing),
		errors.Is(err, auctionerrors.ErrInvalidOrderType),
		errors.Is(err, auctionerrors.ErrShippingAddressRequired),
		errors.Is(err, auctionerrors.ErrRejectionReasonRequired):
		return http.StatusBadRequest, auctionerrors.Reason(err)
	case errors.Is(err, auctionerrors.ErrDeclined):
		return http.StatusConflict, auctionerrors.Reason(err)
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error response and logs it at a level
// matching its status: server faults as errors, declined requests as warnings.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, auctionerrors.Reason(err))

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request declined", fields)
}

// CurrentAccount returns the account stored by the role middleware
func CurrentAccount(c *gin.Context) (model.Account, bool) {
	v, ok := c.Get(AccountKey)
	if !ok {
		return model.Account{}, false
	}
	account, ok := v.(model.Account)
	return account, ok
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
