package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]User, error)
	Get(ctx context.Context, tenantID, id string) (User, error)
	Create(ctx context.Context, u User) error
	SetRole(ctx context.Context, tenantID, id string, role string) error
	SetOverride(ctx context.Context, tenantID, id string, enabled bool, permissions []string) error
	FindByToken(ctx context.Context, token string) (User, error)
}

// Service handles user administration.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the tenant's users.
func (s *Service) List(ctx context.Context, tenantID string) ([]User, error) {
	return s.repo.List(ctx, tenantID)
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, tenantID, id string) (User, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// Create registers a new active user. The role must belong to the
// closed role set; superuser accounts cannot be created this way.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	role := access.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	if !role.Valid() {
		return User{}, fmt.Errorf("unknown role %q: %w", in.Role, ErrInvalidInput)
	}
	u := User{
		ID:       uuid.New().String(),
		TenantID: in.TenantID,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Name:     strings.TrimSpace(in.Name),
		Role:     role,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// SetRole changes a user's role.
func (s *Service) SetRole(ctx context.Context, tenantID, id string, roleName string) error {
	role := access.Role(strings.ToUpper(strings.TrimSpace(roleName)))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q: %w", roleName, ErrInvalidInput)
	}
	return s.repo.SetRole(ctx, tenantID, id, string(role))
}

// SetOverride replaces a user's custom permission configuration. Each
// entry must parse as RESOURCE_ACTION over the closed enum sets, so a
// typo cannot silently grant nothing forever.
func (s *Service) SetOverride(ctx context.Context, tenantID, id string, in OverrideInput) error {
	normalized := make([]string, 0, len(in.Permissions))
	for _, raw := range in.Permissions {
		key := strings.ToUpper(strings.TrimSpace(raw))
		if key == "" {
			continue
		}
		if !validPermissionKey(key) {
			return fmt.Errorf("invalid permission %q: %w", raw, ErrInvalidInput)
		}
		normalized = append(normalized, key)
	}
	return s.repo.SetOverride(ctx, tenantID, id, in.Enabled, normalized)
}

// Resolve implements access.Resolver: an opaque bearer token maps to a
// user, whose claims become the request principal.
func (s *Service) Resolve(ctx context.Context, rawCredential string) (access.Principal, error) {
	if rawCredential == "" {
		return access.Principal{}, shared.ErrUnauthenticated
	}
	u, err := s.repo.FindByToken(ctx, rawCredential)
	if err != nil {
		return access.Principal{}, err
	}
	return u.Principal(), nil
}

func validPermissionKey(key string) bool {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return false
	}
	resource := access.Resource(key[:idx])
	action := access.Action(key[idx+1:])
	return resource.Valid() && action.Valid()
}
