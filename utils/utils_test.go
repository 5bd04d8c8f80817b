package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestJSONEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONResponse(c, http.StatusCreated, map[string]string{"id": "1"}, "created")

	var ok Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	require.Equal(t, http.StatusCreated, ok.Status)
	require.Equal(t, "created", ok.Message)
	require.Empty(t, ok.Error)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONError(c, http.StatusConflict, errors.New("boom"), "failed", "bid too low")

	var failed Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "boom", failed.Error)
	require.Equal(t, "bid too low", failed.Reason)
	require.Nil(t, failed.Data)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		_ = SetLevel("info")
		SetOutput(os.Stdout)
	})

	require.NoError(t, SetLevel("warn"))
	Info("hidden", nil)
	require.Zero(t, buf.Len())

	Warn("shown", map[string]any{"k": "v"})
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"k":"v"`)
	require.Contains(t, buf.String(), `"app":"auction-marketplace"`)

	require.NoError(t, SetLevel("debug"))
	Debug("detail", map[string]any{"key": "auction_bids"})
	require.Contains(t, buf.String(), `"msg":"detail"`)
	require.Contains(t, buf.String(), `"level":"debug"`)

	require.Error(t, SetLevel("loud"))
}
