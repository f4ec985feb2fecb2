package provider_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurevia/walletsync/internal/platform/provider"
	apperrors "github.com/aurevia/walletsync/internal/shared/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{"user rejected", &provider.RPCError{Code: provider.CodeUserRejected}, apperrors.ErrCodeUserRejected},
		{"request pending", &provider.RPCError{Code: provider.CodeRequestPending}, apperrors.ErrCodeRequestPending},
		{"unauthorized", &provider.RPCError{Code: provider.CodeUnauthorized}, apperrors.ErrCodeUnauthorized},
		{"unsupported method", &provider.RPCError{Code: provider.CodeUnsupportedMethod}, apperrors.ErrCodeUnsupportedMethod},
		{"chain not recognized", &provider.RPCError{Code: provider.CodeChainNotRecognized}, apperrors.ErrCodeNetworkError},
		{"unknown rpc code", &provider.RPCError{Code: -32603}, apperrors.ErrCodeUnknown},
		{"provider missing", provider.ErrProviderMissing, apperrors.ErrCodeProviderMissing},
		{"deadline exceeded", context.DeadlineExceeded, apperrors.ErrCodeTimeout},
		{"plain error", errors.New("boom"), apperrors.ErrCodeNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := provider.Classify(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.expectedCode, appErr.Code)
			assert.NotEmpty(t, appErr.Message)
		})
	}

	t.Run("nil maps to nil", func(t *testing.T) {
		assert.Nil(t, provider.Classify(nil))
	})

	t.Run("wrapped rpc errors are unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("request failed: %w", &provider.RPCError{Code: provider.CodeUserRejected})
		appErr := provider.Classify(wrapped)
		assert.Equal(t, apperrors.ErrCodeUserRejected, appErr.Code)
	})
}

func TestRPCErrorHelpers(t *testing.T) {
	rejection := &provider.RPCError{Code: provider.CodeUserRejected, Message: "denied"}

	assert.True(t, provider.IsUserRejected(rejection))
	assert.False(t, provider.IsUserRejected(errors.New("denied")))

	assert.True(t, provider.IsChainNotRecognized(&provider.RPCError{Code: provider.CodeChainNotRecognized}))
	assert.False(t, provider.IsChainNotRecognized(rejection))

	extracted, ok := provider.AsRPCError(fmt.Errorf("outer: %w", rejection))
	require.True(t, ok)
	assert.Equal(t, provider.CodeUserRejected, extracted.Code)
}
