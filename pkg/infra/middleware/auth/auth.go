// Package auth provides authentication and authorization middleware.
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/pkg/infra/middleware/internal/pathutil"
	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// options holds authentication middleware configuration.
type options struct {
	authScheme       string
	skipPaths        []string
	skipPathPrefixes []string
	errorHandler     func(c *gin.Context, err error)
}

// Option is a functional option for the Authenticate middleware.
type Option func(*options)

// WithAuthScheme sets the Authorization header scheme. Default "Bearer".
func WithAuthScheme(scheme string) Option {
	return func(o *options) {
		o.authScheme = scheme
	}
}

// WithSkipPaths sets exact paths that skip authentication.
func WithSkipPaths(paths ...string) Option {
	return func(o *options) {
		o.skipPaths = paths
	}
}

// WithSkipPathPrefixes sets path prefixes that skip authentication.
func WithSkipPathPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.skipPathPrefixes = prefixes
	}
}

// WithErrorHandler overrides the default 401 response.
func WithErrorHandler(handler func(c *gin.Context, err error)) Option {
	return func(o *options) {
		o.errorHandler = handler
	}
}

// Authenticate returns a middleware that verifies the bearer token on
// each request, builds the authorization subject from its claims and
// injects both into the request context. Refresh tokens are rejected:
// only access tokens grant resource access.
func Authenticate(tokens *authn.Service, opts ...Option) gin.HandlerFunc {
	o := &options{authScheme: "Bearer"}
	for _, opt := range opts {
		opt(o)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if pathutil.ShouldSkip(path, o.skipPaths, o.skipPathPrefixes) {
			c.Next()
			return
		}

		if tokens == nil {
			handleAuthError(c, o, errors.ErrInternal.WithMessage("token service not configured"))
			return
		}

		tokenString := extractToken(c, o.authScheme)
		if tokenString == "" {
			handleAuthError(c, o, errors.ErrUnauthorized.WithMessage("missing authentication token"))
			return
		}

		intro := tokens.Verify(c.Request.Context(), tokenString)
		if !intro.Valid {
			logAuthFailure(c, tokenString, intro.Err)
			handleAuthError(c, o, intro.Err)
			return
		}

		if intro.Claims.IsRefresh() {
			err := errors.ErrInvalidToken.WithMessage("refresh token cannot access resources")
			logAuthFailure(c, tokenString, err)
			handleAuthError(c, o, err)
			return
		}

		newCtx := authn.InjectAuth(c.Request.Context(), intro.Claims, tokenString)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}

// extractToken extracts the bearer token from the Authorization header.
func extractToken(c *gin.Context, scheme string) string {
	token := c.GetHeader("Authorization")
	if scheme != "" && strings.HasPrefix(token, scheme+" ") {
		token = strings.TrimPrefix(token, scheme+" ")
	}
	return strings.TrimSpace(token)
}

// handleAuthError handles authentication errors.
func handleAuthError(c *gin.Context, o *options, err error) {
	if o.errorHandler != nil {
		o.errorHandler(c, err)
		return
	}
	response.Fail(c, errors.FromError(err))
}

// logAuthFailure logs authentication failures for security audit. Only a
// token prefix is recorded, never the complete token.
func logAuthFailure(c *gin.Context, token string, err error) {
	req := c.Request
	if req == nil {
		return
	}

	tokenPrefix := ""
	if len(token) > 20 {
		tokenPrefix = token[:20] + "..."
	} else if len(token) > 0 {
		tokenPrefix = token[:len(token)/2] + "..."
	}

	logger.Warnw("authentication failed",
		"error", err.Error(),
		"remote_addr", req.RemoteAddr,
		"token_prefix", tokenPrefix,
		"path", req.URL.Path,
		"method", req.Method,
		"user_agent", req.UserAgent(),
	)
}
