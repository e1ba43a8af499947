package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/pactum-io/pactum/pkg/security/authn"
	"github.com/pactum-io/pactum/pkg/security/authz"
	"github.com/pactum-io/pactum/pkg/utils/errors"
	"github.com/pactum-io/pactum/pkg/utils/response"
)

// RequestBuilder constructs the authorization request for a route. It
// typically reads path parameters and loads resource state (for
// contracts, the visibility and participant list).
type RequestBuilder func(c *gin.Context) (authz.RequestContext, error)

// StaticRequest is a RequestBuilder for routes whose authorization
// request does not depend on the HTTP request.
func StaticRequest(req authz.RequestContext) RequestBuilder {
	return func(*gin.Context) (authz.RequestContext, error) {
		return req, nil
	}
}

// Authorize returns a middleware that evaluates the policy chain for the
// authenticated subject. A denial aborts with 403 and a body carrying
// the decision reason and the deciding policy.
//
// Authenticate must run earlier in the chain; a request without a
// subject is rejected with 401.
func Authorize(engine *authz.Engine, build RequestBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := authn.SubjectFromContext(c.Request.Context())
		if !ok {
			response.Fail(c, errors.ErrUnauthorized.WithMessage("no subject found"))
			return
		}

		req, err := build(c)
		if err != nil {
			logger.Errorw("failed to build authorization request",
				"error", err,
				"subject", subject.ID,
				"path", c.Request.URL.Path,
			)
			response.Fail(c, errors.FromError(err))
			return
		}

		decision := engine.Authorize(c.Request.Context(), subject, req)
		if !decision.Allow {
			logAuthzDenial(c, subject, req, decision)
			response.FailWithData(c, errors.ErrAccessDenied, gin.H{
				"reason": decision.Reason,
				"policy": decision.Policy,
			})
			return
		}

		c.Next()
	}
}

// logAuthzDenial logs authorization denials for security audit.
func logAuthzDenial(c *gin.Context, subject authz.Subject, req authz.RequestContext, d authz.Decision) {
	logger.Warnw("authorization denied",
		"subject", subject.ID,
		"resource_type", req.ResourceType,
		"resource_id", req.ResourceID,
		"action", req.Action,
		"reason", d.Reason,
		"policy", d.Policy,
		"remote_addr", c.Request.RemoteAddr,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
}
