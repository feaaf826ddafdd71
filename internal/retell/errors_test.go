package retell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "upstream error keeps status and message",
			err:        &UpstreamError{Operation: OpListCalls, StatusCode: http.StatusNotFound, Message: "call not found"},
			wantStatus: http.StatusNotFound,
			wantMsg:    "call not found",
		},
		{
			name:       "wrapped upstream error",
			err:        fmt.Errorf("list calls: %w", &UpstreamError{StatusCode: http.StatusTooManyRequests, Message: "slow down"}),
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "slow down",
		},
		{
			name:       "transport error is internal",
			err:        &TransportError{Operation: OpGetCall, Err: context.DeadlineExceeded},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal error",
		},
		{
			name:       "unknown error is internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := Describe(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	err := &TransportError{Operation: OpGetCall, Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "get_call: context deadline exceeded", err.Error())
}

func TestUpstreamMessage(t *testing.T) {
	assert.Equal(t, "Upstream error (503)", upstreamMessage(503, nil))
	assert.Equal(t, "nope", upstreamMessage(400, []byte("nope")))
}
