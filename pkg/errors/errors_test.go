package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	genErr := NewGenerationError("gemini", fmt.Errorf("connection refused"))
	wrapped := fmt.Errorf("analyze meal: %w", genErr)

	assert.True(t, IsGeneration(wrapped))
	assert.False(t, IsMalformed(wrapped))
	assert.Equal(t, CodeGeneration, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestTimeoutUnwrapsToDeadline(t *testing.T) {
	err := NewTimeoutError("gemini generateContent", 30*time.Second, context.DeadlineExceeded)

	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, err.StatusCode())
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("image is required"), http.StatusBadRequest},
		{NewEncodingError("decode", assert.AnError), http.StatusUnprocessableEntity},
		{NewGenerationError("openai", assert.AnError), http.StatusBadGateway},
		{NewMalformedResponseError("gemini", "no candidates"), http.StatusBadGateway},
		{NewInternalError(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrapKeepsAppError(t *testing.T) {
	original := NewMalformedResponseError("gemini", "no parts")
	assert.Same(t, original, Wrap(fmt.Errorf("ctx: %w", original), "ignored"))

	wrapped := Wrap(assert.AnError, "boom")
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, assert.AnError)

	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestToErrorResponseAddsHint(t *testing.T) {
	resp := ToErrorResponse(NewGenerationError("gemini", assert.AnError), "req-1")

	assert.Equal(t, CodeGeneration, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.NotEmpty(t, resp.Error.Hint)
	assert.Equal(t, "gemini", resp.Error.Metadata["provider"])
}
