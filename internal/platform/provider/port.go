package provider

import (
	"context"

	"github.com/aurevia/walletsync/pkg/config"
)

// EventType identifies a provider push event
type EventType string

const (
	// EventAccountsChanged is emitted when the set of exposed accounts changes
	EventAccountsChanged EventType = "accountsChanged"
	// EventChainChanged is emitted when the selected chain changes
	EventChainChanged EventType = "chainChanged"
)

// Event is a provider push event
type Event struct {
	Type     EventType
	Accounts []string // set for EventAccountsChanged
	ChainID  int64    // set for EventChainChanged
}

// Provider is the wallet provider surface this service consumes. It is always
// passed in explicitly, never read from a global, so tests can substitute a fake.
type Provider interface {
	// RequestAccounts asks the provider for account access
	RequestAccounts(ctx context.Context) ([]string, error)

	// Accounts returns the accounts currently exposed without prompting
	Accounts(ctx context.Context) ([]string, error)

	// ChainID returns the currently selected chain
	ChainID(ctx context.Context) (int64, error)

	// SwitchChain asks the provider to select another chain
	SwitchChain(ctx context.Context, chainID int64) error

	// AddChain registers a network the provider does not recognize
	AddChain(ctx context.Context, network config.Network) error

	// Events returns the provider push event stream. The channel is closed
	// when the provider shuts down.
	Events() <-chan Event
}
