package provider

import (
	"context"
	"sync"

	"github.com/aurevia/walletsync/pkg/config"
	"github.com/aurevia/walletsync/pkg/logger"
)

// Status is the connection state of the wallet session
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// Session is a point-in-time snapshot of the wallet session.
// Address is non-empty exactly when the session is connected.
type Session struct {
	Address          string `json:"address"`
	ChainID          int64  `json:"chain_id"`
	IsCorrectNetwork bool   `json:"is_correct_network"`
	Status           Status `json:"status"`
	ErrorText        string `json:"error,omitempty"`
}

// Hooks are callbacks the session manager fires on state transitions.
// They let the refresh coordinator react without the manager depending on it.
type Hooks struct {
	// OnCorrectNetwork fires when the session lands on the target network
	OnCorrectNetwork func()
	// OnWrongNetwork fires when the session leaves the target network
	OnWrongNetwork func()
	// OnAccountChanged fires when the provider swaps the active account
	OnAccountChanged func(address string)
	// OnDisconnect fires when the session ends, explicitly or provider-driven
	OnDisconnect func()
}

// SessionManager tracks the active wallet session against an injected
// provider. It owns the provider event subscription: listeners are registered
// exactly once per Start/Stop pair.
type SessionManager struct {
	provider      Provider
	targetChainID int64
	network       config.Network
	hooks         Hooks
	logger        *logger.Logger

	mu      sync.RWMutex
	session Session

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stopCh    chan struct{}
	done      chan struct{}
}

// NewSessionManager creates a new session manager. The provider may be nil,
// in which case Connect fails with a ProviderMissing classification.
func NewSessionManager(p Provider, targetChainID int64, network config.Network, hooks Hooks, log *logger.Logger) *SessionManager {
	return &SessionManager{
		provider:      p,
		targetChainID: targetChainID,
		network:       network,
		hooks:         hooks,
		logger:        log.WithField("component", "session"),
		session:       Session{Status: StatusDisconnected},
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start begins consuming provider push events. Safe to call once; subsequent
// calls are no-ops so duplicate event delivery cannot occur.
func (m *SessionManager) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.started = true
		if m.provider == nil {
			close(m.done)
			return
		}
		go m.eventLoop(ctx)
	})
}

// Stop tears down the event subscription. Idempotent.
func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	if m.started {
		<-m.done
	}
}

func (m *SessionManager) eventLoop(ctx context.Context) {
	defer close(m.done)

	events := m.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		}
	}
}

func (m *SessionManager) handleEvent(ev Event) {
	switch ev.Type {
	case EventAccountsChanged:
		m.handleAccountsChanged(ev.Accounts)
	case EventChainChanged:
		m.handleChainChanged(ev.ChainID)
	default:
		m.logger.Debug("ignoring unknown provider event", "type", ev.Type)
	}
}

// handleAccountsChanged reacts to the provider swapping or revoking accounts.
// An empty account list is treated identically to an explicit disconnect.
func (m *SessionManager) handleAccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		m.logger.Info("provider reported zero accounts, disconnecting")
		m.Disconnect()
		return
	}

	next := accounts[0]

	m.mu.Lock()
	changed := !AddressesEqual(m.session.Address, next)
	if changed {
		// Swap the address in place. Balances are not reset here; the
		// dependent fetchers pick up the new address on their next run.
		m.session.Address = next
		m.session.Status = StatusConnected
	}
	m.mu.Unlock()

	if changed {
		m.logger.Info("active account changed", "address", next)
		if m.hooks.OnAccountChanged != nil {
			m.hooks.OnAccountChanged(next)
		}
	}
}

// handleChainChanged recomputes the network match. The derived flag is never
// served stale: it is recomputed under lock before any hook fires.
func (m *SessionManager) handleChainChanged(chainID int64) {
	m.mu.Lock()
	wasCorrect := m.session.IsCorrectNetwork
	m.session.ChainID = chainID
	m.session.IsCorrectNetwork = chainID == m.targetChainID
	nowCorrect := m.session.IsCorrectNetwork
	connected := m.session.Status == StatusConnected
	m.mu.Unlock()

	m.logger.Info("chain changed", "chain_id", chainID, "correct_network", nowCorrect)

	if !connected {
		return
	}

	if nowCorrect && !wasCorrect {
		if m.hooks.OnCorrectNetwork != nil {
			m.hooks.OnCorrectNetwork()
		}
	} else if !nowCorrect {
		if m.hooks.OnWrongNetwork != nil {
			m.hooks.OnWrongNetwork()
		}
	}
}

// Connect requests account access from the provider and resolves the chain.
// On user rejection the session is left as it was: disconnected.
func (m *SessionManager) Connect(ctx context.Context) (Session, error) {
	if m.provider == nil {
		appErr := Classify(ErrProviderMissing)
		m.setError(appErr.Message)
		return m.Snapshot(), appErr
	}

	m.setStatus(StatusConnecting)

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		appErr := Classify(err)
		m.mu.Lock()
		m.session.Status = StatusDisconnected
		m.session.ErrorText = appErr.Message
		m.mu.Unlock()
		m.logger.Warn("connect failed", "code", appErr.Code, "error", err)
		return m.Snapshot(), appErr
	}

	if len(accounts) == 0 {
		m.mu.Lock()
		m.session.Status = StatusDisconnected
		m.session.ErrorText = "no accounts available"
		m.mu.Unlock()
		return m.Snapshot(), ErrNotConnected
	}

	chainID, err := m.provider.ChainID(ctx)
	if err != nil {
		// Connected but the network is unknown; treat as wrong network
		// until the next chainChanged event resolves it.
		appErr := Classify(err)
		m.mu.Lock()
		m.session = Session{
			Address:   accounts[0],
			Status:    StatusConnected,
			ErrorText: appErr.Message,
		}
		m.mu.Unlock()
		m.logger.Warn("connected but chain query failed", "error", err)
		return m.Snapshot(), nil
	}

	m.mu.Lock()
	m.session = Session{
		Address:          accounts[0],
		ChainID:          chainID,
		IsCorrectNetwork: chainID == m.targetChainID,
		Status:           StatusConnected,
	}
	snap := m.session
	m.mu.Unlock()

	m.logger.Info("wallet connected",
		"address", snap.Address,
		"chain_id", snap.ChainID,
		"correct_network", snap.IsCorrectNetwork)

	if snap.IsCorrectNetwork && m.hooks.OnCorrectNetwork != nil {
		m.hooks.OnCorrectNetwork()
	}

	return snap, nil
}

// Disconnect resets the local session state. This cannot revoke provider-level
// permission; it only clears what this service tracks. Idempotent.
func (m *SessionManager) Disconnect() {
	m.mu.Lock()
	wasConnected := m.session.Address != ""
	m.session = Session{Status: StatusDisconnected}
	m.mu.Unlock()

	if wasConnected {
		m.logger.Info("wallet disconnected")
		if m.hooks.OnDisconnect != nil {
			m.hooks.OnDisconnect()
		}
	}
}

// SwitchNetwork asks the provider to select the target network, falling back
// to registering the network when the provider does not recognize the chain.
// Failures are retryable and never end the session.
func (m *SessionManager) SwitchNetwork(ctx context.Context) error {
	if m.provider == nil {
		appErr := Classify(ErrProviderMissing)
		m.setError(appErr.Message)
		return appErr
	}

	err := m.provider.SwitchChain(ctx, m.targetChainID)
	if err == nil {
		m.clearErrorText()
		return nil
	}

	if IsChainNotRecognized(err) {
		m.logger.Info("network not recognized by provider, requesting add",
			"chain_id", m.targetChainID, "network", m.network.Name)
		if addErr := m.provider.AddChain(ctx, m.network); addErr != nil {
			appErr := Classify(addErr)
			m.setError(appErr.Message)
			return appErr
		}
		m.clearErrorText()
		return nil
	}

	appErr := Classify(err)
	m.setError(appErr.Message)
	m.logger.Warn("network switch failed", "code", appErr.Code, "error", err)
	return appErr
}

// Snapshot returns a copy of the current session state
func (m *SessionManager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// ClearError dismisses the current user-visible error text
func (m *SessionManager) ClearError() {
	m.clearErrorText()
}

func (m *SessionManager) setStatus(s Status) {
	m.mu.Lock()
	m.session.Status = s
	m.mu.Unlock()
}

func (m *SessionManager) setError(text string) {
	m.mu.Lock()
	m.session.ErrorText = text
	m.mu.Unlock()
}

func (m *SessionManager) clearErrorText() {
	m.mu.Lock()
	m.session.ErrorText = ""
	m.mu.Unlock()
}
