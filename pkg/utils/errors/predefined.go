package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Common errors (service 00).
var (
	// ErrInvalidParam indicates a request/validation error.
	ErrInvalidParam = Register(New(
		MakeCode(ServiceCommon, CategoryRequest, 1),
		http.StatusBadRequest, codes.InvalidArgument,
		"Invalid parameter", "参数无效"))

	// ErrUnauthorized indicates a missing or unverifiable identity.
	ErrUnauthorized = Register(New(
		MakeCode(ServiceCommon, CategoryAuth, 1),
		http.StatusUnauthorized, codes.Unauthenticated,
		"Unauthorized", "未认证"))

	// ErrNoPermission indicates an authenticated subject lacks access.
	ErrNoPermission = Register(New(
		MakeCode(ServiceCommon, CategoryPermission, 1),
		http.StatusForbidden, codes.PermissionDenied,
		"Permission denied", "没有权限"))

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = Register(New(
		MakeCode(ServiceCommon, CategoryResource, 1),
		http.StatusNotFound, codes.NotFound,
		"Resource not found", "资源不存在"))

	// ErrInternal indicates an unexpected server error.
	ErrInternal = Register(New(
		MakeCode(ServiceCommon, CategoryInternal, 1),
		http.StatusInternalServerError, codes.Internal,
		"Internal server error", "服务器内部错误"))
)

// Session token service errors (service 02).
var (
	// ErrInvalidToken indicates a malformed or mis-signed token.
	ErrInvalidToken = Register(New(
		MakeCode(ServiceToken, CategoryAuth, 1),
		http.StatusUnauthorized, codes.Unauthenticated,
		"Invalid token", "令牌无效"))

	// ErrTokenExpired indicates a token past its expiry.
	ErrTokenExpired = Register(New(
		MakeCode(ServiceToken, CategoryAuth, 2),
		http.StatusUnauthorized, codes.Unauthenticated,
		"Token expired", "令牌已过期"))

	// ErrWrongIssuer indicates an issuer or audience mismatch.
	ErrWrongIssuer = Register(New(
		MakeCode(ServiceToken, CategoryAuth, 3),
		http.StatusUnauthorized, codes.Unauthenticated,
		"Token issuer or audience mismatch", "令牌签发者或受众不匹配"))

	// ErrNotRefreshToken indicates an access token was presented where a
	// refresh token is required.
	ErrNotRefreshToken = Register(New(
		MakeCode(ServiceToken, CategoryAuth, 4),
		http.StatusUnauthorized, codes.Unauthenticated,
		"Not a refresh token", "不是刷新令牌"))

	// ErrKeyMaterial indicates unusable signing key material.
	ErrKeyMaterial = Register(New(
		MakeCode(ServiceToken, CategoryInternal, 1),
		http.StatusInternalServerError, codes.Internal,
		"Invalid key material", "密钥材料无效"))
)

// Authorization service errors (service 03).
var (
	// ErrAccessDenied carries a policy denial out to the HTTP boundary.
	ErrAccessDenied = Register(New(
		MakeCode(ServiceAuthz, CategoryPermission, 1),
		http.StatusForbidden, codes.PermissionDenied,
		"Access denied", "访问被拒绝"))

	// ErrPolicyRegistration indicates a malformed policy registration.
	ErrPolicyRegistration = Register(New(
		MakeCode(ServiceAuthz, CategoryInternal, 1),
		http.StatusInternalServerError, codes.Internal,
		"Invalid policy registration", "策略注册无效"))
)

// Infrastructure errors (service 10).
var (
	// ErrDatabase indicates a backing store failure.
	ErrDatabase = Register(New(
		MakeCode(ServiceInfraDB, CategoryDatabase, 1),
		http.StatusInternalServerError, codes.Internal,
		"Database error", "数据库错误"))
)
