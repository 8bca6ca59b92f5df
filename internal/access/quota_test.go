package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

type stubCounter struct {
	count int
	calls int
}

func (c *stubCounter) CountLive(ctx context.Context, tenantID string) (int, error) {
	c.calls++
	return c.count, nil
}

func newEnforcer(persons *stubCounter) *access.Enforcer {
	return access.NewEnforcer(access.DefaultLimits(), map[access.Resource]access.Counter{
		access.ResourcePersons: persons,
	}, time.Second)
}

func TestCheckQuotaAtLimit(t *testing.T) {
	counter := &stubCounter{count: 30}
	enforcer := newEnforcer(counter)

	err := enforcer.CheckQuota(context.Background(), "t1", access.PlanFree, access.ResourcePersons)
	require.Error(t, err)

	var quotaErr *shared.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	require.Equal(t, 30, quotaErr.Current)
	require.Equal(t, 30, quotaErr.Limit)
	require.Equal(t, string(access.PlanFree), quotaErr.Plan)
	require.Equal(t, string(access.ResourcePersons), quotaErr.Kind)
}

func TestCheckQuotaBelowLimit(t *testing.T) {
	counter := &stubCounter{count: 29}
	enforcer := newEnforcer(counter)

	err := enforcer.CheckQuota(context.Background(), "t1", access.PlanFree, access.ResourcePersons)
	require.NoError(t, err)
}

func TestCheckQuotaUnlimitedSkipsCounting(t *testing.T) {
	counter := &stubCounter{count: 1_000_000}
	enforcer := newEnforcer(counter)

	err := enforcer.CheckQuota(context.Background(), "t1", access.PlanPremium, access.ResourcePersons)
	require.NoError(t, err)
	require.Zero(t, counter.calls)
}

func TestCheckQuotaUnlimitedKindForPlan(t *testing.T) {
	// Users are not a limited kind on any plan.
	enforcer := newEnforcer(&stubCounter{})
	err := enforcer.CheckQuota(context.Background(), "t1", access.PlanFree, access.ResourceUsers)
	require.NoError(t, err)
}

func TestCheckQuotaUnknownPlanIsConfigurationError(t *testing.T) {
	enforcer := newEnforcer(&stubCounter{})
	err := enforcer.CheckQuota(context.Background(), "t1", access.Plan("PLATINUM"), access.ResourcePersons)
	require.ErrorIs(t, err, shared.ErrConfiguration)
}

func TestCheckQuotaMissingCounterIsConfigurationError(t *testing.T) {
	enforcer := access.NewEnforcer(access.DefaultLimits(), nil, time.Second)
	err := enforcer.CheckQuota(context.Background(), "t1", access.PlanFree, access.ResourcePersons)
	require.ErrorIs(t, err, shared.ErrConfiguration)
}
