package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	userRepo "blaccbook/database/repository/user"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const authCacheTTL = time.Hour

// JWTAuthUserMiddleware validates the bearer token, checks its hash against
// the auth cache with a DB fallback, and sets "userID" on the context.
func JWTAuthUserMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractUserIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + userID

		authCache := utils.GetAuthCacheClient()
		if cachedHash, err := authCache.Get(ctx, cacheKey).Result(); err == nil {
			if cachedHash != computedHash {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				return
			}
			// Refresh TTL on the hot path.
			_ = authCache.Expire(ctx, cacheKey, authCacheTTL).Err()
			c.Set("userID", userID)
			c.Next()
			return
		}

		// Cache miss: fall back to the stored token hash.
		user, err := users.GetByIDWithProjection(userID, bson.M{"id": 1, "token_hash": 1})
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if user.TokenHash == "" || user.TokenHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		if err := authCache.Set(ctx, cacheKey, computedHash, authCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("Failed to cache auth token hash", zap.Error(err))
		}

		c.Set("userID", userID)
		c.Next()
	}
}
