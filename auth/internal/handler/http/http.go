// Package http implements the JSON HTTP surface of the auth service.
package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/abhishek622/screenscene/internal/httputil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Handler defines the auth service HTTP handler.
type Handler struct {
	secretProvider httputil.SecretProvider
}

// New creates a new auth HTTP handler signing tokens with the secret
// from the given provider.
func New(secretProvider httputil.SecretProvider) *Handler {
	return &Handler{secretProvider: secretProvider}
}

// Register attaches the auth routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/token", h.GetToken)
	rg.POST("/validate", h.ValidateToken)
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GetToken issues a signed token for the given credentials.
func (h *Handler) GetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}
	if !validCredentials(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": req.Username,
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(h.secretProvider())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": tokenString})
}

func validCredentials(username string, password string) bool {
	if username == "" || password == "" {
		return false
	}

	return true
}

type validateRequest struct {
	Token string `json:"token"`
}

// ValidateToken checks a token's signature and returns its username.
func (h *Handler) ValidateToken(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}
	token, err := jwt.Parse(
		req.Token,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.secretProvider(), nil
		},
	)
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	var username string
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if v, ok := claims["username"]; ok {
			if u, ok := v.(string); ok {
				username = u
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "username": username})
}
