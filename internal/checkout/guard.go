package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gadgetshub/storefront-backend/pkg/redis"
)

// SubmitGuard serializes checkout submissions per customer. Acquire
// returns false while another submission for the same customer is in
// flight.
type SubmitGuard interface {
	Acquire(ctx context.Context, customerID uuid.UUID) (bool, error)
	Release(ctx context.Context, customerID uuid.UUID) error
}

// RedisGuard backs the guard with a SetNX lease so the invariant holds
// across replicas. The TTL bounds how long a crashed submission can
// keep a customer locked out.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard builds a guard on the shared redis client.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, customerID uuid.UUID) (bool, error) {
	return g.client.SetNX(ctx, g.client.CheckoutGuardKey(customerID.String()), "1", g.ttl)
}

func (g *RedisGuard) Release(ctx context.Context, customerID uuid.UUID) error {
	return g.client.Del(ctx, g.client.CheckoutGuardKey(customerID.String()))
}

// MemoryGuard keeps the lease in process memory. Used in tests and when
// running without redis.
type MemoryGuard struct {
	mu     sync.Mutex
	leases map[uuid.UUID]struct{}
}

// NewMemoryGuard builds an empty in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{leases: map[uuid.UUID]struct{}{}}
}

func (g *MemoryGuard) Acquire(ctx context.Context, customerID uuid.UUID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.leases[customerID]; held {
		return false, nil
	}
	g.leases[customerID] = struct{}{}
	return true, nil
}

func (g *MemoryGuard) Release(ctx context.Context, customerID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.leases, customerID)
	return nil
}
