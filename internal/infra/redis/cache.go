package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurevia/walletsync/internal/platform/balance"
	"github.com/aurevia/walletsync/pkg/logger"
)

const (
	// DefaultTTL bounds how long a persisted balance view survives without a
	// successful refresh replacing it
	DefaultTTL = 24 * time.Hour

	// KeyPrefix is the prefix for balance snapshot keys
	KeyPrefix = "balance:"
)

// BalanceCache persists last-known balance views in Redis so a restart
// rehydrates displays instead of flickering them back to zero.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewBalanceCache creates a balance snapshot cache with the default TTL
func NewBalanceCache(client *redis.Client, log *logger.Logger) *BalanceCache {
	return NewBalanceCacheWithTTL(client, DefaultTTL, log)
}

// NewBalanceCacheWithTTL creates a balance snapshot cache with a custom TTL
func NewBalanceCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *BalanceCache {
	return &BalanceCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "balance_cache"),
	}
}

// cachedView is the wire shape of a persisted view. The raw balance is
// serialized as a decimal string because big.Int has no stable JSON form.
type cachedView struct {
	RawBalance     string             `json:"raw_balance"`
	Decimals       int                `json:"decimals"`
	DisplayBalance string             `json:"display_balance"`
	AsOf           time.Time          `json:"as_of"`
	ErrorState     balance.ErrorState `json:"error_state"`
	ErrorText      string             `json:"error,omitempty"`
}

// Get retrieves the persisted view for a balance kind and wallet address
func (c *BalanceCache) Get(ctx context.Context, kind, address string) (balance.View, bool, error) {
	key := c.key(kind, address)

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "kind", kind, "address", address)
		return balance.View{}, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "kind", kind, "error", err)
		return balance.View{}, false, fmt.Errorf("failed to get cached balance: %w", err)
	}

	var cached cachedView
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return balance.View{}, false, fmt.Errorf("failed to unmarshal cached balance: %w", err)
	}

	raw := new(big.Int)
	if _, ok := raw.SetString(cached.RawBalance, 10); !ok {
		return balance.View{}, false, fmt.Errorf("failed to parse cached balance: invalid number")
	}

	c.logger.Debug("cache hit", "kind", kind, "address", address)
	return balance.View{
		RawBalance:     raw,
		Decimals:       cached.Decimals,
		DisplayBalance: cached.DisplayBalance,
		AsOf:           cached.AsOf,
		ErrorState:     cached.ErrorState,
		ErrorText:      cached.ErrorText,
	}, true, nil
}

// Set persists a view for a balance kind and wallet address
func (c *BalanceCache) Set(ctx context.Context, kind, address string, view balance.View) error {
	key := c.key(kind, address)

	raw := "0"
	if view.RawBalance != nil {
		raw = view.RawBalance.String()
	}

	data, err := json.Marshal(cachedView{
		RawBalance:     raw,
		Decimals:       view.Decimals,
		DisplayBalance: view.DisplayBalance,
		AsOf:           view.AsOf,
		ErrorState:     view.ErrorState,
		ErrorText:      view.ErrorText,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal balance view: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "kind", kind, "error", err)
		return fmt.Errorf("failed to set cached balance: %w", err)
	}

	return nil
}

// Delete removes the persisted view for a balance kind and wallet address
func (c *BalanceCache) Delete(ctx context.Context, kind, address string) error {
	return c.client.Del(ctx, c.key(kind, address)).Err()
}

func (c *BalanceCache) key(kind, address string) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, kind, address)
}
