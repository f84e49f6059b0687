package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spiritcity/spirit-api/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
)

// AuthRequired ensures the request is authenticated via a bearer JWT.
// A 401 here is the signal the client uses to clear its stored token.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortDetail(ctx, http.StatusUnauthorized, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.AbortDetail(ctx, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.AbortDetail(ctx, http.StatusUnauthorized, "empty bearer token")
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.AbortDetail(ctx, http.StatusUnauthorized, "token revoked")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.AbortDetail(ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID())
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}
