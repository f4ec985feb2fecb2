package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/aurevia/walletsync/internal/platform/provider"
	"github.com/aurevia/walletsync/pkg/config"
	"github.com/aurevia/walletsync/pkg/logger"
)

// NodeProvider is a watch-only wallet provider backed by RPC nodes. It
// mirrors a configured wallet address instead of prompting a user, but
// speaks the same provider surface: tagged rejection codes, chain switch
// with add-chain fallback, and push events on chain changes.
//
// It also implements the balance ChainReader by delegating reads to the
// connection of the currently selected network.
type NodeProvider struct {
	networks *config.NetworksConfig
	accounts []string
	logger   *logger.Logger

	mu          sync.Mutex
	active      *Client
	activeChain int64
	authorized  bool
	closed      bool

	events chan provider.Event
}

// NewNodeProvider creates a node provider watching the given accounts,
// connected to the network identified by initialChainID.
func NewNodeProvider(ctx context.Context, networks *config.NetworksConfig, initialChainID int64, accounts []string, log *logger.Logger) (*NodeProvider, error) {
	network, ok := networks.GetNetwork(initialChainID)
	if !ok {
		return nil, &provider.RPCError{
			Code:    provider.CodeChainNotRecognized,
			Message: "initial chain is not configured",
		}
	}

	client, err := DialAny(ctx, network.RPCURLs)
	if err != nil {
		return nil, err
	}

	return &NodeProvider{
		networks:    networks,
		accounts:    accounts,
		logger:      log.WithField("component", "node_provider"),
		active:      client,
		activeChain: initialChainID,
		events:      make(chan provider.Event, 16),
	}, nil
}

// RequestAccounts grants access to the configured watch accounts
func (p *NodeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.accounts) == 0 {
		return nil, &provider.RPCError{
			Code:    provider.CodeUnauthorized,
			Message: "no watch accounts configured",
		}
	}

	p.authorized = true
	return append([]string(nil), p.accounts...), nil
}

// Accounts returns the accounts without prompting; empty until authorized
func (p *NodeProvider) Accounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.authorized {
		return nil, nil
	}
	return append([]string(nil), p.accounts...), nil
}

// ChainID returns the currently selected chain
func (p *NodeProvider) ChainID(ctx context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeChain, nil
}

// SwitchChain selects another configured network, reconnecting the
// underlying client and emitting a chainChanged event. Unconfigured chains
// fail with the tagged unrecognized-chain code so callers can fall back to
// AddChain.
func (p *NodeProvider) SwitchChain(ctx context.Context, chainID int64) error {
	network, ok := p.networks.GetNetwork(chainID)
	if !ok {
		return &provider.RPCError{
			Code:    provider.CodeChainNotRecognized,
			Message: "chain is not configured",
		}
	}

	return p.connect(ctx, network)
}

// AddChain registers a network descriptor at runtime and switches to it
func (p *NodeProvider) AddChain(ctx context.Context, network config.Network) error {
	if len(network.RPCURLs) == 0 || network.ChainID <= 0 {
		return &provider.RPCError{
			Code:    provider.CodeUnsupportedMethod,
			Message: "incomplete network descriptor",
		}
	}

	p.logger.Info("registering network", "chain_id", network.ChainID, "name", network.Name)
	return p.connect(ctx, &network)
}

func (p *NodeProvider) connect(ctx context.Context, network *config.Network) error {
	client, err := DialAny(ctx, network.RPCURLs)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		client.Close()
		return nil
	}
	old := p.active
	p.active = client
	p.activeChain = network.ChainID
	p.mu.Unlock()

	if old != nil {
		old.Close()
	}

	p.emit(provider.Event{Type: provider.EventChainChanged, ChainID: network.ChainID})
	return nil
}

// Events returns the push event stream
func (p *NodeProvider) Events() <-chan provider.Event {
	return p.events
}

// emit sends an event under the provider mutex. The closed check and the
// send share the lock with Close, so a send can never hit the closed
// channel: Close marks closed before closing, and no emitter can be between
// the check and the send when that happens.
func (p *NodeProvider) emit(ev provider.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		p.logger.Warn("dropping provider event, subscriber is slow", "type", ev.Type)
	}
}

// Close releases the active connection and ends the event stream
func (p *NodeProvider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	active := p.active
	p.active = nil
	p.mu.Unlock()

	if active != nil {
		active.Close()
	}
	close(p.events)
}

// NativeBalance delegates to the active network connection
func (p *NodeProvider) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	return client.NativeBalance(ctx, address)
}

// CodeAt delegates to the active network connection
func (p *NodeProvider) CodeAt(ctx context.Context, address string) ([]byte, error) {
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	return client.CodeAt(ctx, address)
}

// TokenBalance delegates to the active network connection
func (p *NodeProvider) TokenBalance(ctx context.Context, tokenContract, holder string) (*big.Int, error) {
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	return client.TokenBalance(ctx, tokenContract, holder)
}

func (p *NodeProvider) activeClient() (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil, provider.ErrProviderMissing
	}
	return p.active, nil
}
