package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/utils"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID      = "user_id"
	CtxRole        = "role"
	CtxTokenID     = "token_id"
	CtxTokenExpiry = "token_expiry"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		revoked, err := utils.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			utils.ErrorLogger.Printf("Blacklist lookup failed: %v", err)
			utils.RespondRetry(c, http.StatusServiceUnavailable, errors.New("session store unavailable"))
			c.Abort()
			return
		}
		if revoked {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token has been revoked"))
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExpiry, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
