// Package httputil holds HTTP helpers shared by the service handlers.
package httputil

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

// SecretProvider returns the shared secret used to sign and verify tokens.
type SecretProvider func() []byte

// UserKey is the gin context key under which AuthRequired stores the
// authenticated user id.
const UserKey = "userID"

// AuthRequired returns middleware that rejects requests without a valid
// bearer token and stores the token's user id in the request context.
func AuthRequired(secretProvider SecretProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing token"})
			return
		}
		token, err := jwt.Parse(
			tokenString,
			func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secretProvider(), nil
			},
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		var userID string
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if v, ok := claims["username"]; ok {
				if u, ok := v.(string); ok {
					userID = u
				}
			}
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		c.Set(UserKey, userID)
		c.Next()
	}
}

// RateLimit returns middleware enforcing the given request rate across
// all clients of the service.
func RateLimit(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
