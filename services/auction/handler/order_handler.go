package handler

import (
	"net/http"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles POST /orders
func (h *AuctionHandler) CheckoutHandler(c *gin.Context) {
	buyer, ok := helpers.CurrentAccount(c)
	if !ok {
		helpers.RespondError(c, "CheckoutHandler", auctionerrors.ErrNoSession, nil)
		return
	}

	var req helpers.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CheckoutHandler", err)
		return
	}

	order, err := h.service.Checkout(c.Request.Context(), buyer, auction.CheckoutRequest{
		ProductID:       req.ProductID,
		Type:            model.OrderType(req.Type),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		helpers.RespondError(c, "CheckoutHandler", err, map[string]any{
			"product_id": req.ProductID,
			"buyer_id":   buyer.AccountID,
			"type":       req.Type,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewOrderResponse(order), "order placed successfully")
	helpers.LogSuccess("CheckoutHandler", "order placed successfully", map[string]any{
		"order_id":    order.OrderID,
		"product_id":  order.ProductID,
		"final_price": order.FinalPrice,
		"type":        order.Type,
	})
}

// ListOrdersHandler handles GET /orders
func (h *AuctionHandler) ListOrdersHandler(c *gin.Context) {
	buyer, ok := helpers.CurrentAccount(c)
	if !ok {
		helpers.RespondError(c, "ListOrdersHandler", auctionerrors.ErrNoSession, nil)
		return
	}

	orders, err := h.service.GetOrdersForBuyer(c.Request.Context(), buyer.AccountID)
	if err != nil {
		helpers.RespondError(c, "ListOrdersHandler", err, map[string]any{"buyer_id": buyer.AccountID})
		return
	}

	resp := make([]helpers.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, helpers.NewOrderDetailsResponse(o))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "orders retrieved successfully")
}

// PayDepositHandler handles POST /orders/:order_id/deposit. The payment
// settles asynchronously, so an unpaid order answers 202.
func (h *AuctionHandler) PayDepositHandler(c *gin.Context) {
	buyer, ok := helpers.CurrentAccount(c)
	if !ok {
		helpers.RespondError(c, "PayDepositHandler", auctionerrors.ErrNoSession, nil)
		return
	}

	orderID := c.Param("order_id")
	details, err := h.service.PayDeposit(c.Request.Context(), buyer, orderID)
	if err != nil {
		helpers.RespondError(c, "PayDepositHandler", err, map[string]any{"order_id": orderID})
		return
	}

	if details.Order.DepositPaid {
		utils.JSONResponse(c, http.StatusOK, helpers.NewOrderDetailsResponse(details), "deposit already paid")
		return
	}
	utils.JSONResponse(c, http.StatusAccepted, helpers.NewOrderDetailsResponse(details), "deposit payment started")
	helpers.LogSuccess("PayDepositHandler", "deposit payment started", map[string]any{
		"order_id": orderID,
		"deposit":  details.Deposit,
	})
}
