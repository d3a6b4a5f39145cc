package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(http.StatusInternalServerError, "Internal server error", cause)

	assert.Equal(t, "Internal server error: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWithMessage_LeavesTaxonomyUntouched(t *testing.T) {
	derived := ErrValidation.WithMessage("Cart is empty")

	assert.Equal(t, http.StatusBadRequest, derived.Code)
	assert.Equal(t, "Cart is empty", derived.Message)
	assert.Equal(t, "Validation error", ErrValidation.Message)
}

func TestErrorMiddleware_TranslatesAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/fail", func(c *gin.Context) {
		c.Error(ErrSignatureInvalid)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid webhook signature"}`, w.Body.String())
}

func TestErrorMiddleware_WrapsUnknownError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/fail", func(c *gin.Context) {
		c.Error(errors.New("mongo: write concern failure"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal causes never leak to clients.
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestErrorMiddleware_NoErrorPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
