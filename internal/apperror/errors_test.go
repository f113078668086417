package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MapsHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, New(ErrCodeNotFound, "x").HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, New(ErrCodeSessionExpired, "x").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, New(ErrCodeForbidden, "x").HTTPStatus)
	assert.Equal(t, http.StatusConflict, New(ErrCodeConflict, "x").HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, New(ErrCodeTooManyRequests, "x").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(ErrCodeInternal, "x").HTTPStatus)
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation(map[string]string{"amount": "must be greater than 0"})
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "must be greater than 0", err.Fields["amount"])
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("review failed: %w", ErrRequestNotFound)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsForbidden(wrapped))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "database unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by: connection refused")
}
