package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tablero-dev/tablero/internal/auth"
	"github.com/tablero-dev/tablero/internal/repository"
	"github.com/tablero-dev/tablero/internal/types"
)

// AuthMiddleware verifies the bearer token (or the token cookie),
// loads the user record and stores the principal on the gin context.
func AuthMiddleware(users *repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		email, ok := claims["email"].(string)

		if !ok || email == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email in token claims"})
			return
		}

		user, err := users.Get(email)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, types.Principal{
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
			Theme: user.Theme,
		})
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}

		return ""
	}

	cookie, err := ctx.Cookie("token")

	if err != nil {
		return ""
	}

	return cookie
}
