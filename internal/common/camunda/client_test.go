// internal/common/camunda/client_test.go
package camunda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "collegepath-workers/internal/common/errors"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"connection refused", errors.New("rpc error: connection refused"), true},
		{"deadline exceeded", errors.New("context deadline exceeded"), true},
		{"broker unavailable", errors.New("code = Unavailable desc = transport closing"), true},
		{"invalid argument", errors.New("code = InvalidArgument desc = bad variables"), false},
		{"process not found", errors.New("process definition not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableZeebeError(tt.err))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"timeout", errors.New("request timeout after 10s"), "TIMEOUT_ERROR"},
		{"not found", errors.New("element not found"), "RESOURCE_NOT_FOUND"},
		{"connection", errors.New("connection refused"), "EXTERNAL_SERVICE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapZeebeError(tt.err, "complete-job", 2)

			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, mapped, &stdErr)
			assert.Equal(t, tt.wantCode, string(stdErr.Code))
			assert.Contains(t, stdErr.Details, "complete-job")
			assert.Contains(t, stdErr.Details, "after 2 attempts")
		})
	}
}
