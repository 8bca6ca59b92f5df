package access

import (
	"context"
	"fmt"
	"time"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Unlimited marks a plan/resource pair with no cap.
const Unlimited = -1

// Limits maps plan tier to resource kind to maximum live count. A kind
// absent from a plan's map is not quota-limited for that plan.
type Limits map[Plan]map[Resource]int

// DefaultLimits returns the production plan limits. Only persons and
// programs are limited kinds; the top tier is unbounded.
func DefaultLimits() Limits {
	return Limits{
		PlanFree: {
			ResourcePersons:  30,
			ResourcePrograms: 5,
		},
		PlanBasic: {
			ResourcePersons:  300,
			ResourcePrograms: 50,
		},
		PlanPremium: {
			ResourcePersons:  Unlimited,
			ResourcePrograms: Unlimited,
		},
	}
}

// Counter reports the number of live instances of one resource kind for
// a tenant, using the resource's own definition of "live".
type Counter interface {
	CountLive(ctx context.Context, tenantID string) (int, error)
}

// Enforcer compares live counts against plan limits for create
// operations on quota-limited resource kinds.
//
// The check is advisory at check time only: two near-simultaneous
// creations can both pass and both land. The quota is a soft business
// limit, so that race is accepted rather than closed with locking.
type Enforcer struct {
	limits   Limits
	counters map[Resource]Counter
	timeout  time.Duration
}

// NewEnforcer constructs an Enforcer with one counter per limited kind.
func NewEnforcer(limits Limits, counters map[Resource]Counter, timeout time.Duration) *Enforcer {
	return &Enforcer{limits: limits, counters: counters, timeout: timeout}
}

// CheckQuota returns nil when a new instance of kind may be created for
// the tenant, or a QuotaExceededError carrying plan, kind, current and
// limit for the upgrade prompt.
func (e *Enforcer) CheckQuota(ctx context.Context, tenantID string, plan Plan, kind Resource) error {
	byKind, ok := e.limits[plan]
	if !ok {
		return fmt.Errorf("access: unknown plan %q: %w", plan, shared.ErrConfiguration)
	}
	limit, ok := byKind[kind]
	if !ok || limit == Unlimited {
		// Unbounded: skip the count query entirely.
		return nil
	}

	counter, ok := e.counters[kind]
	if !ok {
		return fmt.Errorf("access: no counter for %q: %w", kind, shared.ErrConfiguration)
	}

	countCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	current, err := counter.CountLive(countCtx, tenantID)
	if err != nil {
		return fmt.Errorf("access: count %s: %w", kind, err)
	}

	if current >= limit {
		return &shared.QuotaExceededError{
			Plan:    string(plan),
			Kind:    string(kind),
			Current: current,
			Limit:   limit,
		}
	}
	return nil
}
