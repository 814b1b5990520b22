package handler

import (
	"errors"
	"net/http"

	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidRequest = "Invalid request"
	msgInvalidAccount = "Invalid account"
	msgInvalidURL     = "Invalid URL. Please provide a valid URL with scheme (e.g., http:// or https://)"
	msgNotFound       = "Link not found or unauthorized"
	msgNotLoggedIn    = "Not logged in"
	msgLoginFailed    = "Invalid account ID"
	msgInternal       = "Internal server error"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor сопоставляет ошибку сервиса со статусом и текстом ответа
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidAccount):
		return http.StatusUnauthorized, msgInvalidAccount
	case errors.Is(err, service.ErrNotLoggedIn):
		return http.StatusUnauthorized, msgNotLoggedIn
	case errors.Is(err, service.ErrLoginFailed):
		return http.StatusUnauthorized, msgLoginFailed
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, msgInvalidURL
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// respondError пишет {error} и логирует неожиданные ошибки
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(op, zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		logger.Debug(op, zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: message})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidRequest})
}
