package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// Recovery returns a middleware that recovers from panics. The panic is
// logged with its stack trace and converted to a JSON 500 response; the
// stack never leaks to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("panic recovered",
					"panic", fmt.Sprintf("%v", r),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"request_id", GetRequestID(c.Request.Context()),
					"stack", string(debug.Stack()),
				)
				response.Fail(c, errors.ErrInternal.WithMessagef("panic: %v", r))
			}
		}()
		c.Next()
	}
}
