package programs

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for programs.
type RepositoryPort interface {
	List(ctx context.Context, tenantID string) ([]Program, error)
	Get(ctx context.Context, tenantID, id string) (Program, error)
	Create(ctx context.Context, p Program) error
	Update(ctx context.Context, p Program) error
	Delete(ctx context.Context, tenantID, id string) error
}

// Service handles program business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the tenant's live programs.
func (s *Service) List(ctx context.Context, tenantID string) ([]Program, error) {
	return s.repo.List(ctx, tenantID)
}

// Get returns one program.
func (s *Service) Get(ctx context.Context, tenantID, id string) (Program, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// Create registers a new program.
func (s *Service) Create(ctx context.Context, in CreateInput) (Program, error) {
	p := Program{
		ID:          uuid.New().String(),
		TenantID:    in.TenantID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		LeaderID:    in.LeaderID,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Program{}, err
	}
	return p, nil
}

// Update rewrites a program's mutable fields.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Program, error) {
	p := Program{
		ID:          id,
		TenantID:    in.TenantID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		LeaderID:    in.LeaderID,
		IsActive:    in.IsActive,
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return Program{}, err
	}
	return s.repo.Get(ctx, in.TenantID, id)
}

// Delete soft-deletes a program.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}
