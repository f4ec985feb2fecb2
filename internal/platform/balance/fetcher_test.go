package balance_test

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurevia/walletsync/internal/platform/balance"
	"github.com/aurevia/walletsync/pkg/logger"
)

const (
	walletAddr   = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	contractAddr = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
)

// fakeReader is a scriptable chain reader that counts calls
type fakeReader struct {
	mu sync.Mutex

	nativeBalance *big.Int
	nativeErr     error
	code          []byte
	codeErr       error
	tokenBalance  *big.Int
	tokenErr      error

	// block makes every call wait until the context expires
	block bool

	nativeCalls int
	codeCalls   int
	tokenCalls  int
}

func (f *fakeReader) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	f.mu.Lock()
	f.nativeCalls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.nativeBalance, f.nativeErr
}

func (f *fakeReader) CodeAt(ctx context.Context, address string) ([]byte, error) {
	f.mu.Lock()
	f.codeCalls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.code, f.codeErr
}

func (f *fakeReader) TokenBalance(ctx context.Context, tokenContract, holder string) (*big.Int, error) {
	f.mu.Lock()
	f.tokenCalls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.tokenBalance, f.tokenErr
}

func (f *fakeReader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nativeCalls + f.codeCalls + f.tokenCalls
}

func newFetcher(reader *fakeReader) *balance.Fetcher {
	return balance.NewFetcher(reader, logger.New("development", io.Discard))
}

func input(contract string) balance.TokenFetchInput {
	return balance.TokenFetchInput{
		Address:          walletAddr,
		TokenContract:    contract,
		IsCorrectNetwork: true,
	}
}

func TestFetchToken_Success(t *testing.T) {
	reader := &fakeReader{
		code:         []byte{0x60, 0x80},
		tokenBalance: big.NewInt(7e18),
	}

	view := newFetcher(reader).FetchToken(context.Background(), input(contractAddr),
		balance.NewView(balance.TokenDecimals))

	assert.Equal(t, "7", view.DisplayBalance)
	assert.Equal(t, balance.ErrorNone, view.ErrorState)
	assert.False(t, view.AsOf.IsZero())
}

func TestFetchToken_PlaceholderShortCircuits(t *testing.T) {
	reader := &fakeReader{}
	prev := balance.NewView(balance.TokenDecimals).WithBalance(big.NewInt(3e18), time.Now())

	view := newFetcher(reader).FetchToken(context.Background(),
		input("0x1234567890123456789012345678901234567890"), prev)

	assert.Equal(t, balance.ErrorPlaceholderContract, view.ErrorState)
	assert.Equal(t, "0", view.DisplayBalance, "placeholder zeroes the balance")
	assert.Zero(t, reader.calls(), "no chain call may be made for a placeholder contract")
}

func TestFetchToken_InvalidContractAddress(t *testing.T) {
	reader := &fakeReader{}

	view := newFetcher(reader).FetchToken(context.Background(), input("0xnothex"),
		balance.NewView(balance.TokenDecimals))

	assert.Equal(t, balance.ErrorInvalidAddress, view.ErrorState)
	assert.Zero(t, reader.calls())
}

func TestFetchToken_NoContractCodeRetainsPrevious(t *testing.T) {
	reader := &fakeReader{code: nil}
	prev := balance.NewView(balance.TokenDecimals).WithBalance(big.NewInt(4e18), time.Now())

	view := newFetcher(reader).FetchToken(context.Background(), input(contractAddr), prev)

	assert.Equal(t, balance.ErrorNoContractCode, view.ErrorState)
	assert.Equal(t, "4", view.DisplayBalance, "previous balance is retained")
	assert.Equal(t, 1, reader.codeCalls)
	assert.Zero(t, reader.tokenCalls, "balanceOf is skipped when no code is deployed")
}

func TestFetchToken_DisconnectedOrWrongNetworkIsNoop(t *testing.T) {
	reader := &fakeReader{}
	prev := balance.NewView(balance.TokenDecimals).WithBalance(big.NewInt(1e18), time.Now())

	t.Run("no address", func(t *testing.T) {
		in := input(contractAddr)
		in.Address = ""
		view := newFetcher(reader).FetchToken(context.Background(), in, prev)
		assert.True(t, view.Equal(prev))
	})

	t.Run("wrong network", func(t *testing.T) {
		in := input(contractAddr)
		in.IsCorrectNetwork = false
		view := newFetcher(reader).FetchToken(context.Background(), in, prev)
		assert.True(t, view.Equal(prev))
	})

	assert.Zero(t, reader.calls())
}

func TestFetchToken_TimeoutClassification(t *testing.T) {
	reader := &fakeReader{block: true}
	prev := balance.NewView(balance.TokenDecimals).WithBalance(big.NewInt(9e18), time.Now())

	fetcher := balance.NewFetcherWithTimeout(reader, 20*time.Millisecond,
		logger.New("development", io.Discard))

	start := time.Now()
	view := fetcher.FetchToken(context.Background(), input(contractAddr), prev)

	require.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, balance.ErrorTimeout, view.ErrorState, "deadline loss always reports as timeout")
	assert.Equal(t, "9", view.DisplayBalance, "previous balance survives the timeout")
}

func TestFetchToken_NetworkErrorRetainsPrevious(t *testing.T) {
	reader := &fakeReader{
		code:     []byte{0x60},
		tokenErr: errors.New("connection refused"),
	}
	prev := balance.NewView(balance.TokenDecimals).WithBalance(big.NewInt(2e18), time.Now())

	view := newFetcher(reader).FetchToken(context.Background(), input(contractAddr), prev)

	assert.Equal(t, balance.ErrorNetwork, view.ErrorState)
	assert.Equal(t, "2", view.DisplayBalance)
}

func TestFetchNative_Success(t *testing.T) {
	reader := &fakeReader{nativeBalance: big.NewInt(5e17)}

	view := newFetcher(reader).FetchNative(context.Background(), walletAddr,
		balance.NewView(balance.TokenDecimals))

	assert.Equal(t, "0.5", view.DisplayBalance)
	assert.Equal(t, balance.ErrorNone, view.ErrorState)
}

func TestFetchNative_EmptyAddressIsNoop(t *testing.T) {
	reader := &fakeReader{}
	prev := balance.NewView(balance.TokenDecimals)

	view := newFetcher(reader).FetchNative(context.Background(), "", prev)

	assert.True(t, view.Equal(prev))
	assert.Zero(t, reader.calls())
}

func TestFetchNative_Timeout(t *testing.T) {
	reader := &fakeReader{block: true}
	fetcher := balance.NewFetcherWithTimeout(reader, 20*time.Millisecond,
		logger.New("development", io.Discard))

	view := fetcher.FetchNative(context.Background(), walletAddr,
		balance.NewView(balance.TokenDecimals))

	assert.Equal(t, balance.ErrorTimeout, view.ErrorState)
}
