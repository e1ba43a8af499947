// Package response provides unified API response structures.
// This package defines standard response formats for HTTP APIs,
// ensuring consistent response structures across all endpoints.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pactum-io/pactum/pkg/utils/errors"
)

// Response is the unified API response structure.
// All API responses should use this format for consistency.
type Response struct {
	// Code is the business error code (0 = success)
	Code int `json:"code"`

	// Message is a human-readable message
	Message string `json:"message"`

	// Data contains the response payload (nil for errors)
	Data interface{} `json:"data,omitempty"`

	// RequestID is the unique request identifier for tracing
	RequestID string `json:"request_id,omitempty"`
}

// Success creates a successful response with data.
func Success(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// Err creates an error response from an Errno type.
func Err(e *errors.Errno) *Response {
	if e == nil {
		return Success(nil)
	}
	return &Response{
		Code:    e.Code,
		Message: e.MessageEN,
	}
}

// ErrWithData creates an error response carrying additional data,
// e.g. the `{reason, policy}` body of an authorization denial.
func ErrWithData(e *errors.Errno, data interface{}) *Response {
	r := Err(e)
	r.Data = data
	return r
}

// WithRequestID adds request ID to the response.
func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

// OK writes a successful response to the gin context.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Success(data))
}

// Fail writes an error response to the gin context.
// The HTTP status is derived from the errno.
func Fail(c *gin.Context, err error) {
	errno := errors.FromError(err)
	c.AbortWithStatusJSON(errno.HTTPStatus(), Err(errno))
}

// FailWithData writes an error response with an additional payload.
func FailWithData(c *gin.Context, err error, data interface{}) {
	errno := errors.FromError(err)
	c.AbortWithStatusJSON(errno.HTTPStatus(), ErrWithData(errno, data))
}
