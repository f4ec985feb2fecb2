package history

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/aurevia/walletsync/internal/shared/errors"
	"github.com/aurevia/walletsync/pkg/logger"
)

// DefaultLimit caps how many rows one load returns
const DefaultLimit = 50

// Query is the disjunctive participant filter the store executes: rows match
// when the user id, the sender address, or the receiver address matches.
// At least one term must be present.
type Query struct {
	UserID  *uuid.UUID
	Address string
	Limit   int
}

// Store is the remote relational store surface this package reads from
type Store interface {
	// ListByParticipant returns rows matching the query, newest first
	ListByParticipant(ctx context.Context, q Query) ([]RawRecord, error)
}

// Loader aggregates transaction history for the active wallet session
type Loader struct {
	store  Store
	limit  int
	logger *logger.Logger
}

// NewLoader creates a history loader with the default row cap
func NewLoader(store Store, log *logger.Logger) *Loader {
	return NewLoaderWithLimit(store, DefaultLimit, log)
}

// NewLoaderWithLimit creates a history loader with a custom row cap
func NewLoaderWithLimit(store Store, limit int, log *logger.Logger) *Loader {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Loader{
		store:  store,
		limit:  limit,
		logger: log.WithField("component", "history"),
	}
}

// Load fetches and normalizes transaction records for the given identity.
// When neither a usable address nor user id is present it returns an empty
// collection without touching the store: an empty OR-filter must never be
// issued against the remote store.
func (l *Loader) Load(ctx context.Context, address string, userID *uuid.UUID) ([]TransactionRecord, error) {
	q := Query{Limit: l.limit}

	if userID != nil && *userID != uuid.Nil {
		q.UserID = userID
	}
	if address != "" {
		q.Address = address
	}

	if q.UserID == nil && q.Address == "" {
		l.logger.Debug("no filter term constructible, skipping store query")
		return []TransactionRecord{}, nil
	}

	rows, err := l.store.ListByParticipant(ctx, q)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.StoreQueryFailed("failed to load transactions", err)
	}

	records := make([]TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(row))
	}

	l.logger.Debug("transactions loaded", "count", len(records))
	return records, nil
}
