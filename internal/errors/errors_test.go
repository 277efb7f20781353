package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid input")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Nil(t, err.Cause)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid input")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("addon not found")

	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, "addon not found", err.Message)
	assert.Nil(t, err.Cause)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
	assert.Contains(t, err.Error(), "not_found")
}

func TestConflictError(t *testing.T) {
	err := ConflictError("addon already installed")

	assert.Equal(t, TypeConflict, err.Type)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
	assert.Contains(t, err.Error(), "conflict")
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("database connection failed")
	err := InternalError("failed to save install", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.Nil(t, err.Cause)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestExternalError(t *testing.T) {
	cause := fmt.Errorf("twitch api timeout")
	err := ExternalError("failed to call twitch api", cause)

	assert.Equal(t, TypeExternal, err.Type)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())
	assert.Contains(t, err.Error(), "twitch api timeout")
}

func TestWithFieldChaining(t *testing.T) {
	err := NotFoundError("overlay not found").
		WithField("overlay_id", "abc-123").
		WithField("addon_slug", "emote-rain")

	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "abc-123", err.Fields["overlay_id"])
	assert.Equal(t, "emote-rain", err.Fields["addon_slug"])
}

func TestWithFieldAllocatesLazily(t *testing.T) {
	err := ValidationError("test")
	require.Nil(t, err.Fields)

	err = err.WithField("key", "value")
	require.NotNil(t, err.Fields)
	assert.Equal(t, "value", err.Fields["key"])
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InternalError("wrapper", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestToResponse(t *testing.T) {
	err := NotFoundError("addon not found").WithField("key", "emote-rain")
	resp := err.ToResponse()

	assert.Equal(t, "addon not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "emote-rain", resp.Fields["key"])
}

func TestAsStructuredError(t *testing.T) {
	structured := ValidationError("bad value")
	assert.Same(t, structured, AsStructuredError(structured))

	wrapped := AsStructuredError(fmt.Errorf("plain error"))
	assert.Equal(t, TypeInternal, wrapped.Type)
	assert.Contains(t, wrapped.Error(), "plain error")

	assert.Nil(t, AsStructuredError(nil))
}
