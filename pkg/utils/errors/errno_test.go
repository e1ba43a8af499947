package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		want     int
	}{
		{ServiceCommon, CategoryRequest, 1, 1001},
		{ServiceToken, CategoryAuth, 2, 202002},
		{ServiceAuthz, CategoryPermission, 1, 303001},
		{ServiceInfraDB, CategoryDatabase, 1, 1008001},
	}

	for _, tt := range tests {
		got := MakeCode(tt.service, tt.category, tt.sequence)
		assert.Equal(t, tt.want, got)

		service, category, sequence := ParseCode(got)
		assert.Equal(t, tt.service, service)
		assert.Equal(t, tt.category, category)
		assert.Equal(t, tt.sequence, sequence)
	}
}

func TestErrnoWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrDatabase.WithCause(cause)

	// WithCause must not mutate the registered errno.
	assert.Nil(t, ErrDatabase.Unwrap())
	assert.Equal(t, ErrDatabase.Code, err.Code)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrnoIs(t *testing.T) {
	err := ErrInvalidToken.WithMessage("bad signature")
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.False(t, errors.Is(err, ErrTokenExpired))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, ErrNoPermission.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, (&Errno{Code: 1}).HTTPStatus())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Equal(t, ErrAccessDenied, FromError(ErrAccessDenied))

	wrapped := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, wrapped.Code)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(New(ErrInternal.Code, http.StatusInternalServerError, 0, "dup", ""))
	})
}
