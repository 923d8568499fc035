package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/service"
)

// currentSession resolves the session of the authenticated user, writing the
// error response itself when it cannot.
func currentSession(c *gin.Context, sessions *service.SessionService, logger *zap.Logger) (*service.Session, bool) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	sess, err := sessions.Get(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to load session", zap.String("user_id", user.ID.String()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cart unavailable"})
		return nil, false
	}
	return sess, true
}
