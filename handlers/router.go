package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-marketplace/middleware"
	"stock-marketplace/models"
)

type RouterConfig struct {
	// Auth resolves bearer tokens; see middleware.TokenAuth.
	Auth        gin.HandlerFunc
	Metrics     *middleware.Metrics
	Logger      logrus.FieldLogger
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func NewRouter(h *Handler, rc RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(rc.Logger))
	if rc.Metrics != nil {
		router.Use(rc.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(rc.Metrics.Handler()))
	}
	router.Use(cors.New(corsConfig(rc.CORSOrigins)))
	router.NoRoute(NotFound)

	api := router.Group("/api")

	// Public routes
	api.GET("/health", Health)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/applications", h.SubmitApplication)

	// Any authenticated user
	user := api.Group("/", rc.Auth)
	{
		user.GET("/stocks", h.ListStocks)
		user.GET("/portfolio", h.GetPortfolio)
		user.POST("/buy/:id", h.BuyStock)
		user.DELETE("/portfolio/:id", h.SellStock)
	}

	admin := api.Group("/admin", rc.Auth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/applications", h.ListApplications)
		admin.POST("/applications/:id/accept", h.AcceptApplication)
		admin.POST("/applications/:id/reject", h.RejectApplication)

		admin.GET("/stocks", h.ListStocks)
		admin.POST("/stocks", h.CreateStock)
		admin.PUT("/stocks/:id", h.UpdateStock)
		admin.DELETE("/stocks/:id", h.DeleteStock)
		admin.GET("/stocks/:id/analytics", h.StockAnalytics)
	}

	return router
}
