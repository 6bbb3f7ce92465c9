package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("game mode %q not found", "gm-1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrInvalidInput))
	assert.Equal(t, `game mode "gm-1" not found`, err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("loading stats: %w", InvalidInput("bad period"))

	assert.True(t, Is(err, ErrInvalidInput))

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeInvalidInput, domainErr.Code)
}

func TestInternal_HidesCauseInMessage(t *testing.T) {
	cause := New("database is locked")
	err := Internal(cause)

	assert.Equal(t, "internal error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestWithDetails_CopiesError(t *testing.T) {
	base := InvalidInput("validation failed")
	detailed := base.WithDetails(map[string]string{"wpm": "is required"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"wpm": "is required"}, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)
}
