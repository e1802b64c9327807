package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultMaxEnergy is the starting and maximum energy pool per player
const DefaultMaxEnergy = 100

// ErrInsufficientEnergy is returned when a debit exceeds the pool.
// Balance carries the current balance so the caller can surface it.
type ErrInsufficientEnergy struct {
	Balance  int
	Required int
}

func (e *ErrInsufficientEnergy) Error() string {
	return fmt.Sprintf("insufficient energy (required: %d, current: %d)", e.Required, e.Balance)
}

// EnergyCache is the redis-backed energy ledger. Debits are atomic
// debit-or-fail operations; the engine never rolls one back itself but may
// issue a compensating credit via Credit.
type EnergyCache interface {
	Debit(ctx context.Context, playerID string, amount int) (int, error)
	Credit(ctx context.Context, playerID string, amount int) (int, error)
	Balance(ctx context.Context, playerID string) (int, error)
	Restore(ctx context.Context, playerID string) (int, error)
}

type energyCache struct {
	client    *redis.Client
	maxEnergy int
}

// NewEnergyCache creates a new energy ledger
func NewEnergyCache(client *redis.Client) EnergyCache {
	return &energyCache{
		client:    client,
		maxEnergy: DefaultMaxEnergy,
	}
}

func (c *energyCache) key(playerID string) string {
	return fmt.Sprintf("player:%s:energy", playerID)
}

// ensure initializes the pool to max on first touch
func (c *energyCache) ensure(ctx context.Context, playerID string) error {
	return c.client.SetNX(ctx, c.key(playerID), c.maxEnergy, 0).Err()
}

func (c *energyCache) Debit(ctx context.Context, playerID string, amount int) (int, error) {
	if amount == 0 {
		return c.Balance(ctx, playerID)
	}
	if err := c.ensure(ctx, playerID); err != nil {
		return 0, err
	}

	remaining, err := c.client.DecrBy(ctx, c.key(playerID), int64(amount)).Result()
	if err != nil {
		return 0, err
	}
	if remaining < 0 {
		// Underflow: put the debit back and fail with the real balance
		balance, err := c.client.IncrBy(ctx, c.key(playerID), int64(amount)).Result()
		if err != nil {
			return 0, err
		}
		return int(balance), &ErrInsufficientEnergy{Balance: int(balance), Required: amount}
	}
	return int(remaining), nil
}

func (c *energyCache) Credit(ctx context.Context, playerID string, amount int) (int, error) {
	if err := c.ensure(ctx, playerID); err != nil {
		return 0, err
	}
	balance, err := c.client.IncrBy(ctx, c.key(playerID), int64(amount)).Result()
	return int(balance), err
}

func (c *energyCache) Balance(ctx context.Context, playerID string) (int, error) {
	if err := c.ensure(ctx, playerID); err != nil {
		return 0, err
	}
	balance, err := c.client.Get(ctx, c.key(playerID)).Int()
	if err == redis.Nil {
		return c.maxEnergy, nil
	}
	return balance, err
}

func (c *energyCache) Restore(ctx context.Context, playerID string) (int, error) {
	if err := c.client.Set(ctx, c.key(playerID), c.maxEnergy, 0).Err(); err != nil {
		return 0, err
	}
	return c.maxEnergy, nil
}
