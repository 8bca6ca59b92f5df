package tenants

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
)

type stubRepo struct {
	tenants map[string]Tenant
	failOn  string
}

func newStubRepo() *stubRepo {
	return &stubRepo{tenants: map[string]Tenant{}}
}

func (s *stubRepo) Get(_ context.Context, tenantID string) (Tenant, error) {
	t, ok := s.tenants[tenantID]
	if !ok {
		return Tenant{}, errors.New("tenants: not found")
	}
	return t, nil
}

func (s *stubRepo) Create(_ context.Context, t Tenant) error {
	if s.failOn == "create" {
		return errors.New("tenants: insert failed")
	}
	s.tenants[t.ID] = t
	return nil
}

func (s *stubRepo) SetActive(_ context.Context, tenantID string, active bool) error {
	if s.failOn == "setactive" {
		return errors.New("tenants: update failed")
	}
	t := s.tenants[tenantID]
	t.IsActive = active
	s.tenants[tenantID] = t
	return nil
}

func (s *stubRepo) SetPlan(_ context.Context, tenantID string, plan access.Plan) error {
	t := s.tenants[tenantID]
	t.Plan = plan
	s.tenants[tenantID] = t
	return nil
}

type recordingInvalidator struct {
	invalidated []string
	err         error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, tenantID string) error {
	r.invalidated = append(r.invalidated, tenantID)
	return r.err
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc := NewService(newStubRepo(), nil, slog.Default())

	// Caller mistakes classify as validation failures so they render
	// as 400, not 500.
	_, err := svc.Create(context.Background(), "   ", access.PlanFree)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), "Iglesia Central", access.Plan("GOLD"))
	require.ErrorIs(t, err, httpx.ErrValidation)

	created, err := svc.Create(context.Background(), "Iglesia Central", access.PlanBasic)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.True(t, created.IsActive)
	require.Equal(t, access.PlanBasic, created.Plan)
}

func TestServiceSetActiveInvalidatesSnapshot(t *testing.T) {
	repo := newStubRepo()
	repo.tenants["tenant-a"] = Tenant{ID: "tenant-a", IsActive: true, Plan: access.PlanFree}
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv, slog.Default())

	require.NoError(t, svc.SetActive(context.Background(), "tenant-a", false))
	require.Equal(t, []string{"tenant-a"}, inv.invalidated)
	require.False(t, repo.tenants["tenant-a"].IsActive)
}

func TestServiceSetActiveSkipsInvalidationOnRepoError(t *testing.T) {
	repo := newStubRepo()
	repo.failOn = "setactive"
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv, slog.Default())

	require.Error(t, svc.SetActive(context.Background(), "tenant-a", false))
	require.Empty(t, inv.invalidated)
}

func TestServiceSetPlanInvalidatesSnapshot(t *testing.T) {
	repo := newStubRepo()
	repo.tenants["tenant-a"] = Tenant{ID: "tenant-a", IsActive: true, Plan: access.PlanFree}
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv, slog.Default())

	require.ErrorIs(t, svc.SetPlan(context.Background(), "tenant-a", access.Plan("GOLD")), httpx.ErrValidation)
	require.Empty(t, inv.invalidated)

	require.NoError(t, svc.SetPlan(context.Background(), "tenant-a", access.PlanPremium))
	require.Equal(t, []string{"tenant-a"}, inv.invalidated)
	require.Equal(t, access.PlanPremium, repo.tenants["tenant-a"].Plan)
}

func TestServiceToleratesInvalidatorFailure(t *testing.T) {
	repo := newStubRepo()
	repo.tenants["tenant-a"] = Tenant{ID: "tenant-a", IsActive: true, Plan: access.PlanFree}
	inv := &recordingInvalidator{err: errors.New("redis down")}
	svc := NewService(repo, inv, slog.Default())

	// A cache failure must not fail the administrative write; the TTL
	// bounds how long the stale snapshot survives.
	require.NoError(t, svc.SetActive(context.Background(), "tenant-a", false))
	require.False(t, repo.tenants["tenant-a"].IsActive)
}
