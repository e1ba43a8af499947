// Package middleware provides shared gin middleware for Pactum services.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXRequestID is the request ID header name.
const HeaderXRequestID = "X-Request-ID"

// requestIDKey is the context key for the request ID.
type requestIDKey struct{}

// RequestID returns a middleware that attaches a unique request ID to
// each request. An ID supplied by the client is preserved; otherwise a
// UUID is generated. The ID is set on the response header and stored in
// the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(HeaderXRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
