package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/identity"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *identity.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := identity.NewStore(nil)
	service := auction.NewAuctionService(repository.NewMemoryRepo(nil), store, auction.WithDepositDelay(0))
	t.Cleanup(service.Wait)
	return SetupRouter(service, store), store
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		role       model.Role
		signedIn   bool
		method     string
		path       string
		wantStatus int
	}{
		{name: "anonymous_bid", method: http.MethodPost, path: "/bids", wantStatus: http.StatusUnauthorized},
		{name: "seller_bid", signedIn: true, role: model.RoleSeller, method: http.MethodPost, path: "/bids", wantStatus: http.StatusForbidden},
		{name: "buyer_admin_queue", signedIn: true, role: model.RoleBuyer, method: http.MethodGet, path: "/admin/products/pending", wantStatus: http.StatusForbidden},
		{name: "admin_admin_queue", signedIn: true, role: model.RoleAdmin, method: http.MethodGet, path: "/admin/products/pending", wantStatus: http.StatusOK},
		{name: "buyer_orders", signedIn: true, role: model.RoleBuyer, method: http.MethodGet, path: "/orders", wantStatus: http.StatusOK},
		{name: "seller_listing", signedIn: true, role: model.RoleSeller, method: http.MethodGet, path: "/sellers/me/products", wantStatus: http.StatusOK},
		{name: "anonymous_catalog", method: http.MethodGet, path: "/products", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, store := setupTestRouter(t)
			if tc.signedIn {
				_, err := store.Register(context.Background(), "who@example.com", "pw", "Who", tc.role)
				require.NoError(t, err)
			}

			code, _ := do(t, router, tc.method, tc.path, nil)
			require.Equal(t, tc.wantStatus, code)
		})
	}
}

func TestRouter_ListingToBid(t *testing.T) {
	t.Parallel()

	router, _ := setupTestRouter(t)

	code, _ := do(t, router, http.MethodPost, "/auth/register", map[string]string{
		"email": "sal@example.com", "password": "pw", "name": "Sal", "role": "seller",
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp := do(t, router, http.MethodPost, "/products", map[string]any{
		"title": "Radio", "starting_price": 50, "bid_step": 5, "duration_minutes": 60,
	})
	require.Equal(t, http.StatusCreated, code)
	productID := resp["data"].(map[string]any)["product_id"].(string)

	code, _ = do(t, router, http.MethodPost, "/auth/register", map[string]string{
		"email": "root@example.com", "password": "pw", "name": "Root", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, router, http.MethodPost, "/admin/products/"+productID+"/approve", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, router, http.MethodPost, "/auth/register", map[string]string{
		"email": "bea@example.com", "password": "pw", "name": "Bea", "role": "buyer",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, router, http.MethodPost, "/bids", map[string]any{"product_id": productID, "amount": 55})
	require.Equal(t, http.StatusCreated, code)

	code, resp = do(t, router, http.MethodPost, "/bids", map[string]any{"product_id": productID, "amount": 50})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "bid too low", resp["reason"])

	code, resp = do(t, router, http.MethodGet, "/products/"+productID, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 55.0, resp["data"].(map[string]any)["current_price"])
}
