package refresh

import (
	"context"

	"github.com/google/uuid"

	"github.com/aurevia/walletsync/internal/platform/balance"
	"github.com/aurevia/walletsync/internal/platform/history"
	"github.com/aurevia/walletsync/internal/platform/provider"
)

// SessionSource exposes the current wallet session to the coordinator
type SessionSource interface {
	Snapshot() provider.Session
}

// BalanceFetcher fetches balance views
type BalanceFetcher interface {
	FetchToken(ctx context.Context, in balance.TokenFetchInput, prev balance.View) balance.View
	FetchNative(ctx context.Context, address string, prev balance.View) balance.View
}

// HistoryLoader loads normalized transaction records
type HistoryLoader interface {
	Load(ctx context.Context, address string, userID *uuid.UUID) ([]history.TransactionRecord, error)
}

// SnapshotCache persists last-known balance views so a restart does not
// flicker displays back to zero. Implementations must be safe for concurrent
// use; a nil cache disables persistence.
type SnapshotCache interface {
	Get(ctx context.Context, kind, address string) (balance.View, bool, error)
	Set(ctx context.Context, kind, address string, view balance.View) error
}

// Visibility reports whether the consuming surface is foreground-visible.
// The silent tick checks it at tick time; manual refreshes bypass it.
type Visibility func() bool
