package middlewares

import (
	"net/http"
	"strings"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates a Bearer JWT and attaches the authenticated user to
// the request context. Tokens are checked against the Redis session key written
// at login so logout revokes them before expiry. When Redis is down the JWT
// signature alone decides (nil-safe helpers report a miss as absent-key).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.Next()
			return
		}
		auth = strings.TrimPrefix(auth, "Bearer ")

		validated, err := utils.JwtValidate(auth)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok || claims.UserId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		// Revocation check: logout removes Session:<jti>.
		if config.GetRedisDB() != nil {
			_, exists, err := config.GetRedisValue("Session:" + claims.Id)
			if err != nil || !exists {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				c.Abort()
				return
			}
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), claims.Id)
		ctx = utils.SetUserIdInContext(ctx, claims.UserId)
		ctx = utils.SetUserEmailInContext(ctx, claims.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireUser aborts with 401 unless AuthMiddleware put a user id in context.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userId, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
