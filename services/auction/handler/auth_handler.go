package handler

import (
	"net/http"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	identity IdentityServiceInterface
}

func NewAuthHandler(identity IdentityServiceInterface) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// RegisterHandler handles POST /auth/register
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	account, err := h.identity.Register(c.Request.Context(), req.Email, req.Password, req.Name, model.Role(req.Role))
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{"email": req.Email, "role": req.Role})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAccountResponse(account), "account registered successfully")
	helpers.LogSuccess("RegisterHandler", "account registered successfully", map[string]any{
		"account_id": account.AccountID,
		"role":       account.Role,
	})
}

// LoginHandler handles POST /auth/login
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	account, err := h.identity.Login(c.Request.Context(), req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, map[string]any{"email": req.Email, "role": req.Role})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAccountResponse(account), "logged in successfully")
	helpers.LogSuccess("LoginHandler", "logged in successfully", map[string]any{"account_id": account.AccountID})
}

// LogoutHandler handles POST /auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.identity.Logout(c.Request.Context()); err != nil {
		helpers.RespondError(c, "LogoutHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
	helpers.LogSuccess("LogoutHandler", "logged out successfully", nil)
}

// SessionHandler handles GET /auth/session
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	account, ok := h.identity.CurrentSession()
	if !ok {
		helpers.RespondError(c, "SessionHandler", auctionerrors.ErrNoSession, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAccountResponse(account), "session retrieved successfully")
}
