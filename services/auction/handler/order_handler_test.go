package handler

import (
	"net/http"
	"testing"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           any
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedReason string
	}{
		{
			name: "buy_now",
			body: helpers.CheckoutRequest{ProductID: "p1", Type: "buynow", ShippingAddress: "1 Main St"},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Checkout(gomock.Any(), testBuyer, auction.CheckoutRequest{
					ProductID:       "p1",
					Type:            model.OrderTypeBuyNow,
					ShippingAddress: "1 Main St",
				}).Return(model.Order{OrderID: "o1", ProductID: "p1", FinalPrice: 500, Type: model.OrderTypeBuyNow}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown_type",
			body:           helpers.CheckoutRequest{ProductID: "p1", Type: "swap", ShippingAddress: "x"},
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing_address",
			body: helpers.CheckoutRequest{ProductID: "p1", Type: "bid"},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Checkout(gomock.Any(), testBuyer, gomock.Any()).Return(model.Order{}, auctionerrors.ErrShippingAddressRequired)
			},
			expectedStatus: http.StatusBadRequest,
			expectedReason: "shipping address required",
		},
		{
			name: "not_winner",
			body: helpers.CheckoutRequest{ProductID: "p1", Type: "bid", ShippingAddress: "x"},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Checkout(gomock.Any(), testBuyer, gomock.Any()).Return(model.Order{}, auctionerrors.ErrNotWinningBidder)
			},
			expectedStatus: http.StatusConflict,
			expectedReason: "not the winning bidder",
		},
		{
			name: "duplicate",
			body: helpers.CheckoutRequest{ProductID: "p1", Type: "bid", ShippingAddress: "x"},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Checkout(gomock.Any(), testBuyer, gomock.Any()).Return(model.Order{}, auctionerrors.ErrDuplicateOrder)
			},
			expectedStatus: http.StatusConflict,
			expectedReason: "duplicate order",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, handler, mockService := newAuctionRouter(t, &testBuyer)
			router.POST("/orders", handler.CheckoutHandler)
			tc.mockSetup(mockService)

			code, resp := executeRequest(t, router, http.MethodPost, "/orders", tc.body)
			require.Equal(t, tc.expectedStatus, code)
			if tc.expectedReason != "" {
				require.Equal(t, tc.expectedReason, resp["reason"])
			}
		})
	}
}

func TestListOrdersHandler(t *testing.T) {
	t.Parallel()

	router, handler, mockService := newAuctionRouter(t, &testBuyer)
	router.GET("/orders", handler.ListOrdersHandler)
	mockService.EXPECT().GetOrdersForBuyer(gomock.Any(), testBuyer.AccountID).Return([]model.OrderDetails{
		{Order: model.Order{OrderID: "o1", FinalPrice: 1234.56}, Deposit: "123.46", Remaining: "1111.10"},
	}, nil)

	code, resp := executeRequest(t, router, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, code)
	orders := resp["data"].([]any)
	require.Len(t, orders, 1)
	o := orders[0].(map[string]any)
	require.Equal(t, "123.46", o["deposit"])
	require.Equal(t, "1111.10", o["remaining"])
}

func TestPayDepositHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		account        *model.Account
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:    "started",
			account: &testBuyer,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PayDeposit(gomock.Any(), testBuyer, "o1").
					Return(model.OrderDetails{Order: model.Order{OrderID: "o1"}, Deposit: "100.00", Remaining: "400.00"}, nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedMsg:    "deposit payment started",
		},
		{
			name:    "already_paid",
			account: &testBuyer,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PayDeposit(gomock.Any(), testBuyer, "o1").
					Return(model.OrderDetails{Order: model.Order{OrderID: "o1", DepositPaid: true}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "deposit already paid",
		},
		{
			name:    "someone_elses_order",
			account: &testBuyer,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PayDeposit(gomock.Any(), testBuyer, "o1").Return(model.OrderDetails{}, auctionerrors.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "role not permitted",
		},
		{
			name:    "unknown_order",
			account: &testBuyer,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PayDeposit(gomock.Any(), testBuyer, "o1").Return(model.OrderDetails{}, auctionerrors.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "order not found",
		},
		{
			name:           "anonymous",
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "no active session",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, handler, mockService := newAuctionRouter(t, tc.account)
			router.POST("/orders/:order_id/deposit", handler.PayDepositHandler)
			tc.mockSetup(mockService)

			code, resp := executeRequest(t, router, http.MethodPost, "/orders/o1/deposit", nil)
			require.Equal(t, tc.expectedStatus, code)
			require.Equal(t, tc.expectedMsg, resp["message"])
		})
	}
}
