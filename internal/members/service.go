package members

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for members.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Member, error)
	Get(ctx context.Context, tenantID, id string) (Member, error)
	Create(ctx context.Context, m Member) error
	Update(ctx context.Context, m Member) error
	Delete(ctx context.Context, tenantID, id string) error
}

// Service handles member business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the tenant's live members.
func (s *Service) List(ctx context.Context, tenantID string) ([]Member, error) {
	return s.repo.List(ctx, tenantID)
}

// Get returns one member.
func (s *Service) Get(ctx context.Context, tenantID, id string) (Member, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// Create registers a new member. The input must already be scoped to the
// guard-resolved tenant via WithTenant.
func (s *Service) Create(ctx context.Context, in CreateInput) (Member, error) {
	m := Member{
		ID:        uuid.New().String(),
		TenantID:  in.TenantID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Member{}, err
	}
	return m, nil
}

// Update rewrites a member's mutable fields.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Member, error) {
	m := Member{
		ID:        id,
		TenantID:  in.TenantID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		IsActive:  in.IsActive,
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return Member{}, err
	}
	return s.repo.Get(ctx, in.TenantID, id)
}

// Delete soft-deletes a member.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}
