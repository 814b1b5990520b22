package handler

import (
	"github.com/SergeiKhy/ulink-shortener/internal/middleware"
	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	accountService service.AccountService,
	linkService service.LinkService,
	analyticsService service.AnalyticsService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Логирование, метрики и account_id из cookie для всех запросов
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.OptionalAccount())

	router.SetHTMLTemplate(loadTemplates())

	accountHandler := NewAccountHandler(accountService, logger)
	linkHandler := NewLinkHandler(linkService, logger)
	analyticsHandler := NewAnalyticsHandler(analyticsService, logger)

	router.GET("/", analyticsHandler.Dashboard)
	router.GET("/health", analyticsHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/register", accountHandler.Register)
	router.POST("/login", accountHandler.Login)
	router.POST("/logout", accountHandler.Logout)

	router.POST("/create", linkHandler.CreateLink)
	router.GET("/l/:short_id", linkHandler.Redirect)
	router.DELETE("/delete/:short_id", linkHandler.DeleteLink)
	router.PATCH("/link/:short_id", linkHandler.UpdateLink)

	router.GET("/analytics/:account_id", analyticsHandler.AccountAnalytics)
	router.GET("/analytics/:account_id/:short_id", analyticsHandler.LinkAnalytics)

	api := router.Group("/api")
	{
		api.GET("/stats", analyticsHandler.Stats)
	}

	return router
}
