package handler

import (
	"net/http"

	"github.com/SergeiKhy/ulink-shortener/internal/middleware"
	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	service service.AccountService
	logger  *zap.Logger
}

func NewAccountHandler(service service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

type RegisterResponse struct {
	AccountID string `json:"account_id"`
}

type LoginRequest struct {
	AccountID string `json:"account_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Register godoc
// @Summary Register an account
// @Description Create a new account and return its 8-digit id. The cookie is set by /login, not here.
// @Tags accounts
// @Produce json
// @Success 200 {object} RegisterResponse
// @Failure 500 {object} ErrorResponse
// @Router /register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	accountID, err := h.service.Register(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to register account", err)
		return
	}

	h.logger.Info("Account registered", zap.String("account_id", accountID))
	c.JSON(http.StatusOK, RegisterResponse{AccountID: accountID})
}

// Login godoc
// @Summary Log in
// @Description Check that the account exists and set the account_id cookie for a year
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Account to log in as"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} map[string]interface{}
// @Router /login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid login body", zap.Error(err))
		badRequest(c)
		return
	}

	if err := h.service.Login(c.Request.Context(), req.AccountID); err != nil {
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			respondError(c, h.logger, "Failed to login", err)
			return
		}
		c.JSON(status, gin.H{"success": false, "error": message})
		return
	}

	middleware.SetAccountCookie(c, req.AccountID)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Logout godoc
// @Summary Log out
// @Description Expire the account_id cookie. Safe to call without a cookie.
// @Tags accounts
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	middleware.ClearAccountCookie(c)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
