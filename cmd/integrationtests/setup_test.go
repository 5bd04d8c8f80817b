package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/identity"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock shared by the service under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// TestEnv bundles a router with the pieces a test may need to poke at
type TestEnv struct {
	Router  *gin.Engine
	Service *auction.AuctionService
	Clock   *testClock
	Backend storage.Backend
}

// SetupTestRouter wires the full stack over the given backend. A nil backend
// gets a fresh in-memory one.
func SetupTestRouter(t *testing.T, backend storage.Backend) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	repo := repository.NewMemoryRepo(backend)
	require.NoError(t, repo.Load(context.Background()))
	accounts := identity.NewStore(backend)
	require.NoError(t, accounts.Load(context.Background()))

	clock := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	service := auction.NewAuctionService(repo, accounts,
		auction.WithClock(clock.Now),
		auction.WithDepositDelay(10*time.Millisecond),
	)
	t.Cleanup(service.Wait)

	return &TestEnv{
		Router:  server.SetupRouter(service, accounts),
		Service: service,
		Clock:   clock,
		Backend: backend,
	}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// decodes the response envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// DataMap returns the envelope's data as an object
func DataMap(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", resp["data"])
	return data
}

// DataList returns the envelope's data as an array
func DataList(t *testing.T, resp map[string]any) []any {
	t.Helper()
	data, ok := resp["data"].([]any)
	require.True(t, ok, "data is not an array: %v", resp["data"])
	return data
}

// Register signs up an account, which also signs it in
func Register(t *testing.T, router *gin.Engine, email, name, role string) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auth/register", map[string]string{
		"email": email, "password": "secret", "name": name, "role": role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return DataMap(t, resp)["account_id"].(string)
}

// Login signs in an account registered through Register
func Login(t *testing.T, router *gin.Engine, email, role string) {
	t.Helper()
	_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": "secret", "role": role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// ListApproved submits a listing as the seller and approves it as the admin.
// Both accounts must already exist.
func ListApproved(t *testing.T, router *gin.Engine, listing map[string]any) string {
	t.Helper()

	Login(t, router, "seller@example.com", "seller")
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/products", listing)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID := DataMap(t, resp)["product_id"].(string)

	Login(t, router, "admin@example.com", "admin")
	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/admin/products/"+productID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return productID
}

// SeedAccounts registers the seller, admin and two buyers used across tests
func SeedAccounts(t *testing.T, router *gin.Engine) (alice, bob string) {
	t.Helper()
	Register(t, router, "seller@example.com", "Sally", "seller")
	Register(t, router, "admin@example.com", "Ada", "admin")
	alice = Register(t, router, "alice@example.com", "Alice", "buyer")
	bob = Register(t, router, "bob@example.com", "Bob", "buyer")
	return alice, bob
}
