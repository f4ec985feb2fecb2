package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// balanceOfSelector is the 4-byte selector of balanceOf(address)
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// Client wraps an ethclient connection and exposes the three chain reads
// this service needs: native balance, contract code presence, and the
// balanceOf token call.
type Client struct {
	ec *ethclient.Client
}

// Dial connects to an RPC endpoint
func Dial(rpcURL string) (*Client, error) {
	ec, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint: %w", err)
	}
	return &Client{ec: ec}, nil
}

// DialAny tries each endpoint in order and returns the first that answers
func DialAny(ctx context.Context, rpcURLs []string) (*Client, error) {
	var lastErr error
	for _, url := range rpcURLs {
		client, err := Dial(url)
		if err != nil {
			lastErr = err
			continue
		}
		if _, err := client.ec.ChainID(ctx); err != nil {
			client.Close()
			lastErr = err
			continue
		}
		return client, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no rpc endpoints configured")
	}
	return nil, fmt.Errorf("all rpc endpoints failed: %w", lastErr)
}

// Close releases the underlying connection
func (c *Client) Close() {
	c.ec.Close()
}

// ChainID returns the chain id reported by the node
func (c *Client) ChainID(ctx context.Context) (int64, error) {
	id, err := c.ec.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query chain id: %w", err)
	}
	return id.Int64(), nil
}

// NativeBalance returns the native-currency balance in base units
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	bal, err := c.ec.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch native balance: %w", err)
	}
	return bal, nil
}

// CodeAt returns the contract bytecode deployed at the address
func (c *Client) CodeAt(ctx context.Context, address string) ([]byte, error) {
	code, err := c.ec.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contract code: %w", err)
	}
	return code, nil
}

// TokenBalance calls balanceOf(holder) on the token contract and returns the
// balance in base units
func (c *Client) TokenBalance(ctx context.Context, tokenContract, holder string) (*big.Int, error) {
	tokenAddr := common.HexToAddress(tokenContract)
	msg := ethereum.CallMsg{
		To:   &tokenAddr,
		Data: PackBalanceOf(common.HexToAddress(holder)),
	}

	result, err := c.ec.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

// PackBalanceOf builds the calldata for balanceOf(address)
func PackBalanceOf(holder common.Address) []byte {
	data := make([]byte, 4+32)
	copy(data[0:4], balanceOfSelector)
	copy(data[4+12:], holder.Bytes())
	return data
}
