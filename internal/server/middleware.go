package server

import (
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// SessionProvider exposes the signed-in account
type SessionProvider interface {
	CurrentSession() (model.Account, bool)
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// RequireRole aborts unless the session account holds one of roles.
// On success the account is stored under helpers.AccountKey.
func RequireRole(sessions SessionProvider, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := sessions.CurrentSession()
		if !ok {
			helpers.RespondError(c, "RequireRole", auctionerrors.ErrNoSession, map[string]any{"path": c.Request.URL.Path})
			c.Abort()
			return
		}

		for _, r := range roles {
			if account.Role == r {
				c.Set(helpers.AccountKey, account)
				c.Next()
				return
			}
		}

		helpers.RespondError(c, "RequireRole", auctionerrors.ErrForbidden, map[string]any{
			"path":       c.Request.URL.Path,
			"account_id": account.AccountID,
			"role":       account.Role,
		})
		c.Abort()
	}
}
