package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
)

// HandleGetCart handles GET /v1/cart
func HandleGetCart(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, service.NewCartView(sess.Cart.Items()))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}

		var req domain.CartItemInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		sess.Cart.Add(req)
		c.JSON(http.StatusOK, service.NewCartView(sess.Cart.Items()))
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id
func HandleRemoveItem(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}

		sess.Cart.Remove(c.Request.Context(), c.Param("id"))
		c.JSON(http.StatusOK, service.NewCartView(sess.Cart.Items()))
	}
}

// HandleIncrementItem handles POST /v1/cart/items/:id/increment
func HandleIncrementItem(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return handleAdjustItem(sessions, logger, func(sess *service.Session, id string) bool {
		_, found := sess.Cart.Increment(id)
		return found
	})
}

// HandleDecrementItem handles POST /v1/cart/items/:id/decrement
func HandleDecrementItem(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return handleAdjustItem(sessions, logger, func(sess *service.Session, id string) bool {
		_, found := sess.Cart.Decrement(id)
		return found
	})
}

func handleAdjustItem(sessions *service.SessionService, logger *zap.Logger, adjust func(*service.Session, string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}

		if !adjust(sess, c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusOK, service.NewCartView(sess.Cart.Items()))
	}
}
