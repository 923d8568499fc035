package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

// HandleGetAddress handles GET /v1/checkout/address
func HandleGetAddress(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sess.Address.Draft())
	}
}

// HandleUpdateAddress handles PATCH /v1/checkout/address
func HandleUpdateAddress(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}

		var req address.Patch
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, sess.Address.Update(req))
	}
}

// HandleSubmitOrder handles POST /v1/checkout
func HandleSubmitOrder(sessions *service.SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := currentSession(c, sessions, logger)
		if !ok {
			return
		}

		order, err := sess.Submitter.Submit(c.Request.Context(), sess.User)
		if err != nil {
			var vErr *errors.ValidationError
			var pErr *errors.PersistenceError
			switch {
			case stderrors.As(err, &vErr):
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error": vErr.UserMessage(),
					"kind":  vErr.Kind,
					"field": vErr.Field,
				})
			case stderrors.Is(err, errors.ErrSubmissionInProgress):
				c.JSON(http.StatusConflict, gin.H{"error": "order submission already in progress"})
			case stderrors.As(err, &pErr):
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to place the order"})
			default:
				logger.Error("Failed to submit order", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}
