package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

type stubRepo struct {
	users    map[string]User
	byToken  map[string]User
	override struct {
		enabled     bool
		permissions []string
		called      bool
	}
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[string]User{}, byToken: map[string]User{}}
}

func (s *stubRepo) List(_ context.Context, tenantID string) ([]User, error) {
	var out []User
	for _, u := range s.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, tenantID, id string) (User, error) {
	u, ok := s.users[id]
	if !ok || u.TenantID != tenantID {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) Create(_ context.Context, u User) error {
	s.users[u.ID] = u
	return nil
}

func (s *stubRepo) SetRole(_ context.Context, tenantID, id string, role string) error {
	u, ok := s.users[id]
	if !ok || u.TenantID != tenantID {
		return shared.ErrNotFound
	}
	u.Role = access.Role(role)
	s.users[id] = u
	return nil
}

func (s *stubRepo) SetOverride(_ context.Context, tenantID, id string, enabled bool, permissions []string) error {
	u, ok := s.users[id]
	if !ok || u.TenantID != tenantID {
		return shared.ErrNotFound
	}
	s.override.enabled = enabled
	s.override.permissions = permissions
	s.override.called = true
	return nil
}

func (s *stubRepo) FindByToken(_ context.Context, token string) (User, error) {
	u, ok := s.byToken[token]
	if !ok {
		return User{}, shared.ErrUnauthenticated
	}
	return u, nil
}

func TestServiceCreateNormalizesAndValidatesRole(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateInput{
		TenantID: "tenant-a",
		Email:    "  Maria@Example.COM ",
		Name:     " Maria Lopez ",
		Role:     " editor ",
	})
	require.NoError(t, err)
	require.Equal(t, "maria@example.com", created.Email)
	require.Equal(t, "Maria Lopez", created.Name)
	require.Equal(t, access.RoleEditor, created.Role)
	require.True(t, created.IsActive)
	require.False(t, created.Superuser)

	_, err = svc.Create(context.Background(), CreateInput{
		TenantID: "tenant-a",
		Email:    "x@example.com",
		Name:     "X",
		Role:     "OVERLORD",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestServiceInputMistakesAreValidationErrors(t *testing.T) {
	repo := newStubRepo()
	repo.users["u1"] = User{ID: "u1", TenantID: "tenant-a", Role: access.RoleViewer}
	svc := NewService(repo)

	// Caller mistakes must classify as validation failures, never as
	// internal errors.
	err := svc.SetRole(context.Background(), "tenant-a", "u1", "OVERLORD")
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.SetOverride(context.Background(), "tenant-a", "u1", OverrideInput{
		Enabled:     true,
		Permissions: []string{"PERSONS_DELTE"},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestServiceGetIsTenantScoped(t *testing.T) {
	repo := newStubRepo()
	repo.users["u1"] = User{ID: "u1", TenantID: "tenant-a", Role: access.RoleViewer}
	svc := NewService(repo)

	u, err := svc.Get(context.Background(), "tenant-a", "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	_, err = svc.Get(context.Background(), "tenant-b", "u1")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceSetOverrideValidatesPermissionKeys(t *testing.T) {
	repo := newStubRepo()
	repo.users["u1"] = User{ID: "u1", TenantID: "tenant-a", Role: access.RoleViewer}
	svc := NewService(repo)

	err := svc.SetOverride(context.Background(), "tenant-a", "u1", OverrideInput{
		Enabled:     true,
		Permissions: []string{"PROGRAMS_CREATE", "PERSONS_DELTE"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "PERSONS_DELTE")
	require.False(t, repo.override.called)
}

func TestServiceSetOverrideNormalizesEntries(t *testing.T) {
	repo := newStubRepo()
	repo.users["u1"] = User{ID: "u1", TenantID: "tenant-a", Role: access.RoleViewer}
	svc := NewService(repo)

	err := svc.SetOverride(context.Background(), "tenant-a", "u1", OverrideInput{
		Enabled:     true,
		Permissions: []string{" programs_create ", "", "PERSONS_READ"},
	})
	require.NoError(t, err)
	require.True(t, repo.override.enabled)
	require.Equal(t, []string{"PROGRAMS_CREATE", "PERSONS_READ"}, repo.override.permissions)
}

func TestServiceResolveMapsTokenToPrincipal(t *testing.T) {
	repo := newStubRepo()
	repo.byToken["tok-1"] = User{
		ID:                   "u1",
		TenantID:             "tenant-a",
		Role:                 access.RoleAdmin,
		UseCustomPermissions: true,
		CustomPermissions:    []string{"PROGRAMS_READ"},
	}
	svc := NewService(repo)

	p, err := svc.Resolve(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "u1", p.ID)
	require.Equal(t, "tenant-a", p.TenantID)
	require.Equal(t, access.RoleAdmin, p.Role)
	require.True(t, p.UseCustomPermissions)
	require.Equal(t, []string{"PROGRAMS_READ"}, p.CustomPermissions)
}

func TestServiceResolveRejectsUnknownOrEmptyCredential(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrUnauthenticated)

	_, err = svc.Resolve(context.Background(), "no-such-token")
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}
