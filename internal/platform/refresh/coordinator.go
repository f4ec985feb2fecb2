package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurevia/walletsync/internal/platform/balance"
	"github.com/aurevia/walletsync/internal/platform/history"
	"github.com/aurevia/walletsync/pkg/logger"
)

// Balance view kinds, used as cache keys and sequence buckets
const (
	KindToken  = "token"
	KindNative = "native"
)

// DefaultSilentInterval is the background refresh cadence
const DefaultSilentInterval = 15 * time.Second

// DefaultLoadingDelay is how long a fetch may run before the loading
// indicator shows, avoiding flicker on fast networks.
const DefaultLoadingDelay = 500 * time.Millisecond

// Config holds coordinator tuning
type Config struct {
	TokenContract  string
	SilentInterval time.Duration
	LoadingDelay   time.Duration
	UserID         *uuid.UUID
}

// Coordinator composes the session, balance fetchers, and history loader
// under two cadences: a fast silent background tick for the cheap balance
// reads, and an explicit refresh that re-fetches everything. Both funnel
// through the same fetch functions; only the silent flag differs.
//
// Concurrent fetches of different kinds may complete in any order; each kind
// carries a monotonically increasing sequence number and only the
// highest-sequence completion is allowed to commit, so a stale completion
// can never overwrite a newer one.
type Coordinator struct {
	session SessionSource
	fetcher BalanceFetcher
	loader  HistoryLoader
	cache   SnapshotCache
	visible Visibility
	cfg     Config
	logger  *logger.Logger

	scheduler *Scheduler

	mu         sync.RWMutex
	tokenView  balance.View
	nativeView balance.View
	records    []history.TransactionRecord
	historyErr string
	loading    bool
	revision   uint64

	seqMu       sync.Mutex
	nextSeq     map[string]uint64
	acceptedSeq map[string]uint64

	inflightMu sync.Mutex
	inflight   int
}

// NewCoordinator creates a refresh coordinator. cache and visible may be nil.
func NewCoordinator(session SessionSource, fetcher BalanceFetcher, loader HistoryLoader, cache SnapshotCache, visible Visibility, cfg Config, log *logger.Logger) *Coordinator {
	if cfg.SilentInterval <= 0 {
		cfg.SilentInterval = DefaultSilentInterval
	}
	if cfg.LoadingDelay <= 0 {
		cfg.LoadingDelay = DefaultLoadingDelay
	}
	if visible == nil {
		visible = func() bool { return true }
	}

	return &Coordinator{
		session:     session,
		fetcher:     fetcher,
		loader:      loader,
		cache:       cache,
		visible:     visible,
		cfg:         cfg,
		logger:      log.WithField("component", "refresh"),
		scheduler:   NewScheduler(),
		tokenView:   balance.NewView(balance.TokenDecimals),
		nativeView:  balance.NewView(balance.TokenDecimals),
		nextSeq:     make(map[string]uint64),
		acceptedSeq: make(map[string]uint64),
	}
}

// Start hydrates cached views and arms the silent background tick
func (c *Coordinator) Start(ctx context.Context) {
	c.hydrate(ctx)

	interval := c.cfg.SilentInterval
	c.scheduler.Set(func() {
		c.silentTick(ctx)
	}, &interval)

	c.logger.Info("refresh coordinator started", "silent_interval", interval)
}

// Stop releases the background timer. Idempotent.
func (c *Coordinator) Stop() {
	c.scheduler.Stop()
}

// hydrate restores last-known balance views from the snapshot cache
func (c *Coordinator) hydrate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	address := c.session.Snapshot().Address
	if address == "" {
		return
	}

	if view, ok, err := c.cache.Get(ctx, KindToken, address); err == nil && ok {
		c.mu.Lock()
		c.tokenView = view
		c.mu.Unlock()
	}
	if view, ok, err := c.cache.Get(ctx, KindNative, address); err == nil && ok {
		c.mu.Lock()
		c.nativeView = view
		c.mu.Unlock()
	}
}

// silentTick runs the cheap, idempotent balance reads in the background.
// Fully suppressed while disconnected, off the target network, pointed at a
// placeholder token contract, or not foreground-visible.
func (c *Coordinator) silentTick(ctx context.Context) {
	session := c.session.Snapshot()
	if session.Address == "" || !session.IsCorrectNetwork {
		return
	}
	if balance.IsPlaceholderAddress(c.cfg.TokenContract) {
		return
	}
	if !c.visible() {
		return
	}

	c.refreshBalances(ctx, session.Address, session.IsCorrectNetwork)
}

// Refresh is the explicit, user-triggered path: it re-fetches balances and
// transaction history, shows loading indicators, and surfaces errors. With
// silent set it behaves like a background pass over everything instead.
func (c *Coordinator) Refresh(ctx context.Context, silent bool) {
	session := c.session.Snapshot()

	var loadingTimer *time.Timer
	if !silent {
		c.beginLoad()
		loadingTimer = time.AfterFunc(c.cfg.LoadingDelay, func() {
			c.markLoading()
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.refreshBalances(ctx, session.Address, session.IsCorrectNetwork)
	}()
	go func() {
		defer wg.Done()
		c.refreshHistory(ctx, session.Address, silent)
	}()
	wg.Wait()

	if !silent {
		loadingTimer.Stop()
		c.endLoad()
	}
}

func (c *Coordinator) refreshBalances(ctx context.Context, address string, correctNetwork bool) {
	tokenSeq := c.claimSeq(KindToken)
	nativeSeq := c.claimSeq(KindNative)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		view := c.fetcher.FetchToken(ctx, balance.TokenFetchInput{
			Address:          address,
			TokenContract:    c.cfg.TokenContract,
			IsCorrectNetwork: correctNetwork,
		}, c.TokenBalance())
		c.commitToken(ctx, address, view, tokenSeq)
	}()
	go func() {
		defer wg.Done()
		view := c.fetcher.FetchNative(ctx, address, c.NativeBalance())
		c.commitNative(ctx, address, view, nativeSeq)
	}()
	wg.Wait()
}

func (c *Coordinator) refreshHistory(ctx context.Context, address string, silent bool) {
	seq := c.claimSeq("history")

	records, err := c.loader.Load(ctx, address, c.cfg.UserID)
	if err != nil {
		// Silent refreshes swallow errors so transient blips never
		// interrupt the user; the existing error text stays as-is.
		if !silent {
			c.mu.Lock()
			c.historyErr = "failed to load transaction history"
			c.mu.Unlock()
			c.bumpRevision()
		}
		c.logger.Warn("history load failed", "silent", silent, "error", err)
		return
	}

	c.commitHistory(records, seq, silent)
}

// claimSeq hands out the next sequence number for a fetch kind
func (c *Coordinator) claimSeq(kind string) uint64 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	c.nextSeq[kind]++
	return c.nextSeq[kind]
}

// acceptSeq records a completion; returns false for stale completions
func (c *Coordinator) acceptSeq(kind string, seq uint64) bool {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	if seq < c.acceptedSeq[kind] {
		return false
	}
	c.acceptedSeq[kind] = seq
	return true
}

func (c *Coordinator) commitToken(ctx context.Context, address string, view balance.View, seq uint64) bool {
	if !c.acceptSeq(KindToken, seq) {
		c.logger.Debug("discarding stale token balance completion", "seq", seq)
		return false
	}

	c.mu.Lock()
	if view.Equal(c.tokenView) {
		c.mu.Unlock()
		return false
	}
	c.tokenView = view
	c.revision++
	c.mu.Unlock()

	c.persist(ctx, KindToken, address, view)
	return true
}

func (c *Coordinator) commitNative(ctx context.Context, address string, view balance.View, seq uint64) bool {
	if !c.acceptSeq(KindNative, seq) {
		c.logger.Debug("discarding stale native balance completion", "seq", seq)
		return false
	}

	c.mu.Lock()
	if view.Equal(c.nativeView) {
		c.mu.Unlock()
		return false
	}
	c.nativeView = view
	c.revision++
	c.mu.Unlock()

	c.persist(ctx, KindNative, address, view)
	return true
}

func (c *Coordinator) commitHistory(records []history.TransactionRecord, seq uint64, silent bool) bool {
	if !c.acceptSeq("history", seq) {
		c.logger.Debug("discarding stale history completion", "seq", seq)
		return false
	}

	c.mu.Lock()
	if recordsEqual(c.records, records) {
		c.mu.Unlock()
		return false
	}
	// Whole-collection replacement: records are immutable once committed
	c.records = records
	if !silent {
		c.historyErr = ""
	}
	c.revision++
	c.mu.Unlock()
	return true
}

func (c *Coordinator) persist(ctx context.Context, kind, address string, view balance.View) {
	if c.cache == nil || address == "" || view.ErrorState != balance.ErrorNone {
		return
	}
	if err := c.cache.Set(ctx, kind, address, view); err != nil {
		c.logger.Debug("failed to persist balance snapshot", "kind", kind, "error", err)
	}
}

// ZeroTokenBalance forces the token view to zero, used when the session
// leaves the target network.
func (c *Coordinator) ZeroTokenBalance() {
	c.mu.Lock()
	c.tokenView = balance.NewView(balance.TokenDecimals)
	c.revision++
	c.mu.Unlock()
}

// Reset clears every view, used when the session disconnects
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.tokenView = balance.NewView(balance.TokenDecimals)
	c.nativeView = balance.NewView(balance.TokenDecimals)
	c.records = nil
	c.historyErr = ""
	c.loading = false
	c.revision++
	c.mu.Unlock()
}

// TokenBalance returns the committed token balance view
func (c *Coordinator) TokenBalance() balance.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokenView
}

// NativeBalance returns the committed native balance view
func (c *Coordinator) NativeBalance() balance.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nativeView
}

// Transactions returns the committed record collection and the history error
func (c *Coordinator) Transactions() ([]history.TransactionRecord, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records, c.historyErr
}

// Loading reports whether a debounced loading indicator should show
func (c *Coordinator) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Revision increments on every committed state change; consumers can poll it
// to detect updates cheaply.
func (c *Coordinator) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

func (c *Coordinator) bumpRevision() {
	c.mu.Lock()
	c.revision++
	c.mu.Unlock()
}

func (c *Coordinator) beginLoad() {
	c.inflightMu.Lock()
	c.inflight++
	c.inflightMu.Unlock()
}

func (c *Coordinator) markLoading() {
	c.inflightMu.Lock()
	stillInflight := c.inflight > 0
	c.inflightMu.Unlock()
	if !stillInflight {
		return
	}
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
}

func (c *Coordinator) endLoad() {
	c.inflightMu.Lock()
	c.inflight--
	done := c.inflight == 0
	c.inflightMu.Unlock()
	if done {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}
}

// recordsEqual compares two record collections structurally. Records hold
// only comparable fields, so element equality is plain ==.
func recordsEqual(a, b []history.TransactionRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
