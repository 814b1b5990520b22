package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/clientinfo"
	"github.com/SergeiKhy/ulink-shortener/internal/middleware"
	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LinkHandler struct {
	service service.LinkService
	logger  *zap.Logger
}

func NewLinkHandler(service service.LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		logger:  logger,
	}
}

type CreateLinkRequest struct {
	AccountID string `json:"account_id"`
	URL       string `json:"url"`
}

type CreateLinkResponse struct {
	ShortURL string `json:"short_url"`
}

type UpdateLinkRequest struct {
	URL string `json:"url"`
}

// CreateLink godoc
// @Summary Create a short link
// @Description Create a short link owned by the given account
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link creation request"
// @Success 200 {object} CreateLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /create [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid create body", zap.Error(err))
		badRequest(c)
		return
	}

	link, err := h.service.CreateLink(c.Request.Context(), req.AccountID, req.URL)
	if err != nil {
		respondError(c, h.logger, "Failed to create link", err)
		return
	}

	h.logger.Info("Link created",
		zap.String("short_id", link.ShortID),
		zap.String("account_id", link.AccountID),
	)
	c.JSON(http.StatusOK, CreateLinkResponse{ShortURL: link.ShortURL()})
}

// Redirect godoc
// @Summary Redirect to target URL
// @Description Record a visit and redirect with 302. A missing link gets a plain text 404.
// @Tags links
// @Produce plain
// @Param short_id path string true "Short id"
// @Success 302 {object} nil
// @Failure 404 {string} string "Link not found"
// @Router /l/{short_id} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	shortID := c.Param("short_id")

	info := clientinfo.Extract(c.Request, time.Now().UTC())
	link, err := h.service.Visit(c.Request.Context(), shortID, info)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "Link not found")
			return
		}
		h.logger.Error("Failed to resolve link", zap.String("short_id", shortID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.Redirect(http.StatusFound, link.TargetURL)
}

// DeleteLink godoc
// @Summary Delete a short link
// @Description Delete a link owned by the cookie account together with its analytics
// @Tags links
// @Produce json
// @Param short_id path string true "Short id"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /delete/{short_id} [delete]
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	shortID := c.Param("short_id")

	if err := h.service.DeleteLink(c.Request.Context(), middleware.GetAccountID(c), shortID); err != nil {
		respondError(c, h.logger, "Failed to delete link", err)
		return
	}

	h.logger.Info("Link deleted", zap.String("short_id", shortID))
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// UpdateLink godoc
// @Summary Change link target
// @Description Point a link owned by the cookie account at a new URL
// @Tags links
// @Accept json
// @Produce json
// @Param short_id path string true "Short id"
// @Param request body UpdateLinkRequest true "New target URL"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /link/{short_id} [patch]
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	shortID := c.Param("short_id")
	accountID := middleware.GetAccountID(c)
	if accountID == "" {
		respondError(c, h.logger, "Failed to update link", service.ErrNotLoggedIn)
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.service.UpdateTarget(c.Request.Context(), accountID, shortID, req.URL); err != nil {
		respondError(c, h.logger, "Failed to update link", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
