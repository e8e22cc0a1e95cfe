package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Class
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ClassConfiguration},
		{name: "forbidden", status: http.StatusForbidden, want: ClassConfiguration},
		{name: "rate limited", status: http.StatusTooManyRequests, want: ClassTransient},
		{name: "server error", status: http.StatusBadGateway, want: ClassTransient},
		{name: "not found", status: http.StatusNotFound, want: ClassPermanent},
		{name: "bad request", status: http.StatusBadRequest, want: ClassPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse("ticketing", response(tt.status, "nope"))
			require.Error(t, err)
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestCheckResponse_SuccessIsNil(t *testing.T) {
	assert.NoError(t, CheckResponse("social", response(http.StatusOK, "{}")))
	assert.NoError(t, CheckResponse("social", response(http.StatusNoContent, "")))
}

func TestCheckResponse_KeepsBodyInMessage(t *testing.T) {
	err := CheckResponse("social", response(http.StatusBadRequest, `{"error":"bad caption"}`))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "bad caption")
}

func TestClassify_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to fetch deals: %w", ErrNotConfigured)
	assert.Equal(t, ClassConfiguration, Classify(wrapped))

	transient := fmt.Errorf("failed to publish: %w", WrapTransportError("social", errors.New("connection reset")))
	assert.Equal(t, ClassTransient, Classify(transient))

	assert.Equal(t, ClassPermanent, Classify(errors.New("boom")))
	assert.Equal(t, Class(""), Classify(nil))
}

func TestWrapTransportError_LeavesCancellation(t *testing.T) {
	err := WrapTransportError("ticketing", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ClassPermanent, Classify(err))
	assert.NoError(t, WrapTransportError("ticketing", nil))
}
