package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var (
	testBuyer  = model.Account{AccountID: "buyer1", Name: "Bea", Email: "bea@example.com", Role: model.RoleBuyer}
	testSeller = model.Account{AccountID: "seller1", Name: "Sal", Email: "sal@example.com", Role: model.RoleSeller}
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withAccount stands in for the role middleware
func withAccount(account *model.Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		if account != nil {
			c.Set(helpers.AccountKey, *account)
		}
		c.Next()
	}
}

// newAuctionRouter returns a router signed in as account (nil for anonymous)
func newAuctionRouter(t *testing.T, account *model.Account) (*gin.Engine, *AuctionHandler, *MockAuctionServiceInterface) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := NewMockAuctionServiceInterface(ctrl)
	router := gin.New()
	router.Use(withAccount(account))
	return router, NewAuctionHandler(mockService), mockService
}

// executeRequest sends body (a raw string or a value to marshal) and parses the envelope
func executeRequest(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}
