package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// ListActiveProductsHandler handles GET /products?search=
func (h *AuctionHandler) ListActiveProductsHandler(c *gin.Context) {
	search := c.Query("search")
	products, err := h.service.ListActiveProducts(c.Request.Context(), search)
	if err != nil {
		helpers.RespondError(c, "ListActiveProductsHandler", err, map[string]any{"search": search})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductDetailsResponses(products), "products retrieved successfully")
	helpers.LogSuccess("ListActiveProductsHandler", "products retrieved successfully", map[string]any{
		"search": search,
		"count":  len(products),
	})
}

// GetProductHandler handles GET /products/:product_id
func (h *AuctionHandler) GetProductHandler(c *gin.Context) {
	productID := c.Param("product_id")
	product, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		helpers.RespondError(c, "GetProductHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductDetailsResponse(product), "product retrieved successfully")
}

// SubmitProductHandler handles POST /products
func (h *AuctionHandler) SubmitProductHandler(c *gin.Context) {
	seller, ok := helpers.CurrentAccount(c)
	if !ok {
		helpers.RespondError(c, "SubmitProductHandler", auctionerrors.ErrNoSession, nil)
		return
	}

	var req helpers.SubmitProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitProductHandler", err)
		return
	}

	category := model.Category(req.Category)
	if category == "" {
		category = model.CategoryGeneral
	}
	attrs, err := model.DecodeAttributes(category, req.Attributes)
	if err != nil {
		helpers.RespondError(c, "SubmitProductHandler", fmt.Errorf("%w: %v", auctionerrors.ErrInvalidListing, err), map[string]any{"category": req.Category})
		return
	}

	product, err := h.service.SubmitProduct(c.Request.Context(), seller, model.ProductInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        category,
		Attributes:      attrs,
		Images:          req.Images,
		EvidenceImages:  req.EvidenceImages,
		StartingPrice:   req.StartingPrice,
		BidStep:         req.BidStep,
		BuyNowPrice:     req.BuyNowPrice,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		helpers.RespondError(c, "SubmitProductHandler", err, map[string]any{"seller_id": seller.AccountID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewProductResponse(product), "product submitted for review")
	helpers.LogSuccess("SubmitProductHandler", "product submitted for review", map[string]any{
		"product_id": product.ProductID,
		"seller_id":  seller.AccountID,
	})
}

// ListSellerProductsHandler handles GET /sellers/me/products
func (h *AuctionHandler) ListSellerProductsHandler(c *gin.Context) {
	seller, ok := helpers.CurrentAccount(c)
	if !ok {
		helpers.RespondError(c, "ListSellerProductsHandler", auctionerrors.ErrNoSession, nil)
		return
	}

	products, err := h.service.ListSellerProducts(c.Request.Context(), seller.AccountID)
	if err != nil {
		helpers.RespondError(c, "ListSellerProductsHandler", err, map[string]any{"seller_id": seller.AccountID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductDetailsResponses(products), "products retrieved successfully")
}

// ListPendingProductsHandler handles GET /admin/products/pending
func (h *AuctionHandler) ListPendingProductsHandler(c *gin.Context) {
	products, err := h.service.ListPendingProducts(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListPendingProductsHandler", err, nil)
		return
	}

	resp := make([]helpers.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, helpers.NewProductResponse(p))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "pending products retrieved successfully")
}

// ApproveProductHandler handles POST /admin/products/:product_id/approve
func (h *AuctionHandler) ApproveProductHandler(c *gin.Context) {
	productID := c.Param("product_id")
	product, err := h.service.ApproveProduct(c.Request.Context(), productID)
	if err != nil {
		helpers.RespondError(c, "ApproveProductHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductResponse(product), "product approved")
	helpers.LogSuccess("ApproveProductHandler", "product approved", map[string]any{
		"product_id": productID,
		"end_time":   product.EndTime,
	})
}

// RejectProductHandler handles POST /admin/products/:product_id/reject
func (h *AuctionHandler) RejectProductHandler(c *gin.Context) {
	productID := c.Param("product_id")

	// an empty body is a rejection without a reason
	var req helpers.RejectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		helpers.HandleBindError(c, "RejectProductHandler", err)
		return
	}

	product, err := h.service.RejectProduct(c.Request.Context(), productID, req.Reason)
	if err != nil {
		helpers.RespondError(c, "RejectProductHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProductResponse(product), "product rejected")
	helpers.LogSuccess("RejectProductHandler", "product rejected", map[string]any{
		"product_id": productID,
		"reason":     product.RejectionReason,
	})
}
