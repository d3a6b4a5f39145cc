package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/DavCode46/wander-whiskers-server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(tokens *services.TokenService) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authenticate(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	return r
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	token, err := tokens.GenerateToken("user-123", "dav")
	assert.NoError(t, err)

	r := newAuthTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	r := newAuthTestRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	r := newAuthTestRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthenticate_TokenFromOtherSecret(t *testing.T) {
	token, err := services.NewTokenService("other-secret").GenerateToken("user-123", "dav")
	assert.NoError(t, err)

	r := newAuthTestRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
