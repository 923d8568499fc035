package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, sessions *service.SessionService, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(repos, logger))
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", handlers.HandleGetCart(sessions, logger))
			cart.POST("/items", handlers.HandleAddItem(sessions, logger))
			cart.DELETE("/items/:id", handlers.HandleRemoveItem(sessions, logger))
			cart.POST("/items/:id/increment", handlers.HandleIncrementItem(sessions, logger))
			cart.POST("/items/:id/decrement", handlers.HandleDecrementItem(sessions, logger))
		}

		checkout := v1.Group("/checkout")
		{
			checkout.GET("/address", handlers.HandleGetAddress(sessions, logger))
			checkout.PATCH("/address", handlers.HandleUpdateAddress(sessions, logger))
			checkout.POST("", handlers.HandleSubmitOrder(sessions, logger))
		}

		v1.GET("/orders", handlers.HandleListOrders(repos, logger))
		v1.GET("/orders/:id", handlers.HandleGetOrder(repos, logger))
	}

	return router
}
