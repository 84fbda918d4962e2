package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = stderrors.New("sentinel")

func TestAppErrorStatusCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeRecipeNotFound, http.StatusNotFound},
		{CodeEmptyCatalog, http.StatusConflict},
		{CodeMalformedRecord, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeStorageError, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, NewAppError(tt.code, "msg", "").StatusCode())
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: Recipe not found", NewNotFoundError("Recipe").Error())
	assert.Equal(t,
		"STORAGE_ERROR: Storage operation failed (Failed to append record)",
		NewStorageError("append record", errSentinel).Error(),
	)
}

func TestAppErrorUnwrapKeepsSentinel(t *testing.T) {
	err := NewRecipeNotFoundError("Soup", errSentinel)

	assert.ErrorIs(t, err, errSentinel)
	assert.Equal(t, "Soup", err.Metadata["name"])

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, Is(wrapped, CodeRecipeNotFound))
	assert.Equal(t, CodeRecipeNotFound, GetCode(wrapped))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	app := NewEmptyCatalogError(errSentinel)
	assert.Same(t, app, Wrap(app, "ignored"))

	plain := Wrap(errSentinel, "boom")
	require.NotNil(t, plain)
	assert.Equal(t, CodeInternal, plain.Code)
	assert.ErrorIs(t, plain, errSentinel)
}

func TestGetCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, GetCode(errSentinel))
	assert.False(t, Is(errSentinel, CodeNotFound))
}

func TestValidationErrors(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())

	errs := []ValidationError{
		{Field: "Name", Tag: "required", Message: "Name is required"},
		{Field: "Calories", Tag: "min", Message: "Calories must be at least 0"},
	}
	app := NewValidationErrors(errs)

	assert.Equal(t, CodeValidationFailed, app.Code)
	assert.Equal(t, "Name is required; Calories must be at least 0", app.Details)
	assert.Len(t, app.Metadata["validation_errors"], 2)
}

func TestMalformedRecordErrorCarriesLine(t *testing.T) {
	app := NewMalformedRecordError(4, errSentinel)

	assert.Equal(t, 4, app.Metadata["line"])
	assert.Equal(t, "sentinel", app.Details)
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewBadRequestError("bad calories"), "req-1")

	assert.Equal(t, CodeBadRequest, resp.Error.Code)
	assert.Equal(t, "bad calories", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.NotEmpty(t, resp.Error.Timestamp)
}

func TestRateLimitedErrorRoundsUp(t *testing.T) {
	err := NewRateLimitedError(1500 * time.Millisecond)
	assert.Equal(t, CodeRateLimited, err.Code)
	assert.Equal(t, 2, err.RetryAfterSeconds())

	assert.Equal(t, 1, NewRateLimitedError(0).RetryAfterSeconds())
	assert.Equal(t, 0, NewBadRequestError("x").RetryAfterSeconds())
}
