package middleware

import (
	"net/http"
	"strings"

	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// VerifyTokenMiddleware verifies the JWT token provided in the Authorization
// header and aborts with 401 when it is missing or invalid.
func VerifyTokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseAccessToken(c, cfg)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// SoftVerifyTokenMiddleware parses the Authorization header when present
// but lets unauthenticated requests through. Read endpoints use it so the
// caller-scoped fields (is_favorited, is_in_shopping_cart, is_subscribed)
// can still be computed for logged-in callers.
func SoftVerifyTokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := parseAccessToken(c, cfg); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// parseAccessToken extracts and validates the bearer access token,
// returning the user id claim.
func parseAccessToken(c *gin.Context, cfg *config.Config) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return 0, false
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.EnvVars.JwtSecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, false
	}

	// Ensure this is an access token, not a refresh token
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, false
	}

	// JSON numbers decode as float64
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(idFloat), true
}
