package provider

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/aurevia/walletsync/internal/shared/errors"
)

var (
	// ErrProviderMissing indicates no provider was injected
	ErrProviderMissing = errors.New("no wallet provider available")
	// ErrNotConnected indicates an operation that requires an active session
	ErrNotConnected = errors.New("wallet is not connected")
)

// Provider error codes per EIP-1193 / EIP-1474
const (
	CodeUserRejected       = 4001
	CodeUnauthorized       = 4100
	CodeUnsupportedMethod  = 4200
	CodeChainNotRecognized = 4902
	CodeRequestPending     = -32002
)

// RPCError is a tagged error returned by a wallet provider
type RPCError struct {
	Code    int
	Message string
}

// Error implements the error interface
func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// AsRPCError extracts an RPCError from an error chain
func AsRPCError(err error) (*RPCError, bool) {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}

// IsUserRejected reports whether the error is a tagged user rejection
func IsUserRejected(err error) bool {
	rpcErr, ok := AsRPCError(err)
	return ok && rpcErr.Code == CodeUserRejected
}

// IsChainNotRecognized reports whether the provider does not know the chain
func IsChainNotRecognized(err error) bool {
	rpcErr, ok := AsRPCError(err)
	return ok && rpcErr.Code == CodeChainNotRecognized
}

// Classify maps a provider failure to an application error with a
// user-facing message. Every provider call funnels its error through here
// so no raw RPC error crosses a component boundary.
func Classify(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrProviderMissing) {
		return apperrors.Wrap(err, apperrors.ErrCodeProviderMissing,
			"no wallet provider detected, please install a wallet extension")
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "wallet request timed out")
	}

	rpcErr, ok := AsRPCError(err)
	if !ok {
		return apperrors.Wrap(err, apperrors.ErrCodeNetworkError, "wallet request failed")
	}

	switch rpcErr.Code {
	case CodeUserRejected:
		return apperrors.Wrap(err, apperrors.ErrCodeUserRejected, "request was rejected in the wallet")
	case CodeRequestPending:
		return apperrors.Wrap(err, apperrors.ErrCodeRequestPending,
			"a wallet request is already pending, check your wallet")
	case CodeUnauthorized:
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "wallet access not authorized")
	case CodeUnsupportedMethod:
		return apperrors.Wrap(err, apperrors.ErrCodeUnsupportedMethod,
			"the wallet does not support this operation")
	case CodeChainNotRecognized:
		return apperrors.Wrap(err, apperrors.ErrCodeNetworkError,
			"the wallet does not recognize the requested network")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeUnknown, "unexpected wallet error")
	}
}
