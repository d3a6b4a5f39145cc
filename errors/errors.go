package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// WithMessage returns a copy of the error carrying a more specific
// human-readable message. The taxonomy variables stay untouched.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message, Err: e.Err}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error taxonomy. Handlers attach one of these (or a WithMessage derivative)
// via c.Error and ErrorMiddleware translates it into the response.
var (
	ErrValidation     = New(http.StatusBadRequest, "Validation error", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Payment error types
var (
	ErrPaymentGateway   = New(http.StatusBadGateway, "Payment gateway error", nil)
	ErrSignatureInvalid = New(http.StatusBadRequest, "Invalid webhook signature", nil)
)

// ErrorMiddleware translates errors attached to the gin context into JSON
// responses. Handlers call c.Error(...) instead of writing the response
// themselves. Clients only ever see a human-readable message, never the
// internal cause.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = New(http.StatusInternalServerError, "Internal server error", err)
			}

			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			c.Abort()
		}
	}
}
