package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(func() []byte { return []byte("test-secrets") })
	router := gin.New()
	h.Register(router.Group("/auth"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/auth/token", gin.H{"username": "alice", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	var tokenResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.Token)

	w = doJSON(t, router, "/auth/validate", gin.H{"token": tokenResp.Token})
	require.Equal(t, http.StatusOK, w.Code)
	var validateResp struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validateResp))
	assert.Equal(t, "alice", validateResp.Username)
}

func TestTokenMissingCredentials(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/auth/token", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, "/auth/token", gin.H{"password": "hunter2"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateBadToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "/auth/validate", gin.H{"token": "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
