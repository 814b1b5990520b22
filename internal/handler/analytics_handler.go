package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/middleware"
	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  *zap.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Dashboard godoc
// @Summary Dashboard page
// @Description Render the HTML dashboard with global statistics
// @Tags analytics
// @Produce html
// @Success 200 {string} string "HTML page"
// @Failure 500 {string} string "Error generating stats"
// @Router / [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats(c)
	if err != nil {
		h.logger.Error("Failed to generate stats", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error generating stats")
		return
	}

	c.HTML(http.StatusOK, dashboardTemplate, gin.H{"stats": stats})
}

// Stats godoc
// @Summary Global statistics
// @Description Same statistics as the dashboard, as JSON
// @Tags analytics
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} ErrorResponse
// @Router /api/stats [get]
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.stats(c)
	if err != nil {
		respondError(c, h.logger, "Failed to generate stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) stats(c *gin.Context) (*models.Stats, error) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		return nil, err
	}

	view := *stats
	view.LoggedIn = middleware.IsLoggedIn(c)
	return &view, nil
}

// AccountAnalytics godoc
// @Summary Account analytics
// @Description List the account's links and all visit events on them
// @Tags analytics
// @Produce json
// @Param account_id path string true "Account id"
// @Success 200 {object} models.AccountAnalytics
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/{account_id} [get]
func (h *AnalyticsHandler) AccountAnalytics(c *gin.Context) {
	result, err := h.service.AccountAnalytics(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get analytics", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LinkAnalytics godoc
// @Summary Link analytics
// @Description Visit events of one link owned by the account
// @Tags analytics
// @Produce json
// @Param account_id path string true "Account id"
// @Param short_id path string true "Short id"
// @Success 200 {object} models.LinkAnalytics
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/{account_id}/{short_id} [get]
func (h *AnalyticsHandler) LinkAnalytics(c *gin.Context) {
	result, err := h.service.LinkAnalytics(c.Request.Context(), c.Param("account_id"), c.Param("short_id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get link analytics", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Health godoc
// @Summary Health check
// @Description Ping the store
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *AnalyticsHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Service: "ulink"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: "ulink"})
}
