package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// TenantRecord is the authoritative projection of a tenant consumed by
// the guard. The guard only ever reads it.
type TenantRecord struct {
	ID       string
	Name     string
	IsActive bool
	Plan     Plan
}

// TenantStore is the authoritative tenant lookup. Implementations return
// shared.ErrNotFound when the tenant does not exist.
type TenantStore interface {
	FindTenant(ctx context.Context, tenantID string) (TenantRecord, error)
}

// Clock abstracts time for TTL convergence tests.
type Clock func() time.Time

// Guard binds a request to exactly one tenant, taken only from the
// verified principal, and proves that tenant is allowed to operate. It
// reads through a validity cache and falls back to the authoritative
// store on miss or expiry.
type Guard struct {
	store   TenantStore
	cache   Store
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
	clock   Clock
	group   singleflight.Group
}

// GuardOption customises a Guard.
type GuardOption func(*Guard)

// WithClock substitutes the time source, for tests.
func WithClock(clock Clock) GuardOption {
	return func(g *Guard) { g.clock = clock }
}

// NewGuard constructs a Guard. ttl bounds snapshot staleness; timeout
// caps each authoritative fetch.
func NewGuard(store TenantStore, cache Store, ttl, timeout time.Duration, logger *slog.Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		store:   store,
		cache:   cache,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Guard resolves the only legitimate tenant scope for the request. Any
// tenant identifier the request payload carries independently must be
// overwritten with the returned value, never trusted.
func (g *Guard) Guard(ctx context.Context, p Principal) (string, error) {
	snap, err := g.snapshot(ctx, p)
	if err != nil {
		return "", err
	}
	if !snap.IsActive {
		return "", shared.ErrTenantDisabled
	}
	return p.TenantID, nil
}

// Plan returns the subscription plan of the principal's tenant, served
// from the same snapshot the guard resolves.
func (g *Guard) Plan(ctx context.Context, p Principal) (Plan, error) {
	snap, err := g.snapshot(ctx, p)
	if err != nil {
		return "", err
	}
	if !snap.IsActive {
		return "", shared.ErrTenantDisabled
	}
	return snap.Plan, nil
}

func (g *Guard) snapshot(ctx context.Context, p Principal) (Snapshot, error) {
	if p.TenantID == "" {
		return Snapshot{}, fmt.Errorf("token carries no tenant: %w", shared.ErrUnauthenticated)
	}

	key := ValidityKey(p.TenantID)
	payload, hit, err := g.cache.Get(ctx, key)
	if err != nil {
		// A broken cache degrades to the authoritative store; it must
		// never block legitimate requests.
		g.warn("tenant validity cache get", p.TenantID, err)
	} else if hit {
		var snap Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			g.warn("tenant validity cache decode", p.TenantID, err)
		} else if g.clock().Sub(snap.FetchedAt) <= g.ttl {
			return snap, nil
		}
	}

	return g.fetch(ctx, p.TenantID)
}

// fetch loads the authoritative record, deduplicating concurrent misses
// for the same tenant. Only an active tenant is cached; a freshly
// deactivated or missing tenant fails fast without populating the cache.
func (g *Guard) fetch(ctx context.Context, tenantID string) (Snapshot, error) {
	resultChan := g.group.DoChan(tenantID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()

		record, err := g.store.FindTenant(fetchCtx, tenantID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Collapse "does not exist" into the disabled outcome so
				// callers cannot probe which tenant ids exist.
				return Snapshot{}, shared.ErrTenantDisabled
			}
			return Snapshot{}, fmt.Errorf("access: fetch tenant: %w", err)
		}
		if !record.IsActive {
			return Snapshot{}, shared.ErrTenantDisabled
		}

		snap := Snapshot{
			IsActive:  true,
			Name:      record.Name,
			Plan:      record.Plan,
			FetchedAt: g.clock(),
		}
		payload, err := json.Marshal(snap)
		if err != nil {
			return Snapshot{}, fmt.Errorf("access: encode snapshot: %w", err)
		}
		if err := g.cache.Set(fetchCtx, ValidityKey(tenantID), payload, g.ttl); err != nil {
			g.warn("tenant validity cache set", tenantID, err)
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	}
}

// Invalidate removes the validity snapshot for one tenant. It is the
// only removal path besides TTL expiry; there is no wildcard variant.
func (g *Guard) Invalidate(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return errors.New("access: invalidate requires a tenant id")
	}
	return g.cache.Del(ctx, ValidityKey(tenantID))
}

// Warm re-primes the snapshot for one tenant. Used by the background
// warmup job; failures are the caller's to log.
func (g *Guard) Warm(ctx context.Context, tenantID string) error {
	_, err := g.fetch(ctx, tenantID)
	if errors.Is(err, shared.ErrTenantDisabled) {
		return nil
	}
	return err
}

func (g *Guard) warn(op, tenantID string, err error) {
	if g.logger == nil {
		return
	}
	g.logger.Warn(op, slog.String("tenant_id", tenantID), slog.Any("error", err))
}
