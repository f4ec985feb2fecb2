package balance

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/aurevia/walletsync/internal/platform/provider"
	"github.com/aurevia/walletsync/pkg/logger"
)

// DefaultCallTimeout caps every chain read
const DefaultCallTimeout = 10 * time.Second

// ChainReader is the read surface of the chain this package needs
type ChainReader interface {
	// NativeBalance returns the native-currency balance in base units
	NativeBalance(ctx context.Context, address string) (*big.Int, error)

	// CodeAt returns the contract bytecode deployed at the address
	CodeAt(ctx context.Context, address string) ([]byte, error)

	// TokenBalance returns the token balance of holder via balanceOf
	TokenBalance(ctx context.Context, tokenContract, holder string) (*big.Int, error)
}

// TokenFetchInput carries everything a token balance fetch depends on
type TokenFetchInput struct {
	Address          string
	TokenContract    string
	IsCorrectNetwork bool
}

// Fetcher reads native and token balances and folds each result into a view.
// Failures never escape: every outcome is a view with a classified ErrorState.
type Fetcher struct {
	reader  ChainReader
	timeout time.Duration
	logger  *logger.Logger
}

// NewFetcher creates a balance fetcher with the default call timeout
func NewFetcher(reader ChainReader, log *logger.Logger) *Fetcher {
	return NewFetcherWithTimeout(reader, DefaultCallTimeout, log)
}

// NewFetcherWithTimeout creates a balance fetcher with a custom call timeout
func NewFetcherWithTimeout(reader ChainReader, timeout time.Duration, log *logger.Logger) *Fetcher {
	return &Fetcher{
		reader:  reader,
		timeout: timeout,
		logger:  log.WithField("component", "balance"),
	}
}

// FetchToken fetches the token balance per the input, starting from the
// previously committed view. Validation order: placeholder sentinel, address
// syntax, contract code presence, then the balance call raced against the
// timeout. Placeholder and invalid-address outcomes zero the balance; every
// other failure retains the previous display value.
func (f *Fetcher) FetchToken(ctx context.Context, in TokenFetchInput, prev View) View {
	// Nothing to do while disconnected or off the target network
	if in.Address == "" || !in.IsCorrectNetwork {
		return prev
	}

	if IsPlaceholderAddress(in.TokenContract) {
		f.logger.Debug("token contract is a placeholder, skipping chain call",
			"contract", in.TokenContract)
		return prev.Zeroed(ErrorPlaceholderContract,
			"token contract is not deployed yet")
	}

	if _, err := provider.ValidateAddress(in.TokenContract); err != nil {
		return prev.Zeroed(ErrorInvalidAddress, "invalid token contract address")
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	code, err := f.reader.CodeAt(callCtx, in.TokenContract)
	if err != nil {
		return prev.WithError(f.classify(err), "failed to inspect token contract")
	}
	if len(code) == 0 {
		return prev.WithError(ErrorNoContractCode,
			"no contract found at the token address")
	}

	raw, err := f.reader.TokenBalance(callCtx, in.TokenContract, in.Address)
	if err != nil {
		state := f.classify(err)
		f.logger.Warn("token balance fetch failed",
			"address", in.Address, "state", string(state), "error", err)
		return prev.WithError(state, "failed to fetch token balance")
	}

	return prev.WithBalance(raw, time.Now())
}

// FetchNative fetches the native-currency balance for the address. No
// placeholder case applies; the same timeout discipline is used.
func (f *Fetcher) FetchNative(ctx context.Context, address string, prev View) View {
	if address == "" {
		return prev
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	raw, err := f.reader.NativeBalance(callCtx, address)
	if err != nil {
		state := f.classify(err)
		f.logger.Warn("native balance fetch failed",
			"address", address, "state", string(state), "error", err)
		return prev.WithError(state, "failed to fetch balance")
	}

	return prev.WithBalance(raw, time.Now())
}

// classify maps a chain read failure to an error state. The timeout race is
// decided here: a deadline loss always reports as Timeout.
func (f *Fetcher) classify(err error) ErrorState {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	case errors.Is(err, context.Canceled):
		return ErrorNetwork
	default:
		return ErrorNetwork
	}
}
