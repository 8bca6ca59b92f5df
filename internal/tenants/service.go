package tenants

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
)

// RepositoryPort defines data access methods for tenants.
type RepositoryPort interface {
	Get(ctx context.Context, tenantID string) (Tenant, error)
	Create(ctx context.Context, t Tenant) error
	SetActive(ctx context.Context, tenantID string, active bool) error
	SetPlan(ctx context.Context, tenantID string, plan access.Plan) error
}

// Invalidator removes a tenant's cached validity snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// Service handles tenant administration. State-changing operations
// invalidate the validity cache so the change is honored without waiting
// for the TTL.
type Service struct {
	repo   RepositoryPort
	cache  Invalidator
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Get returns the tenant.
func (s *Service) Get(ctx context.Context, tenantID string) (Tenant, error) {
	return s.repo.Get(ctx, tenantID)
}

// Create registers a new active tenant.
func (s *Service) Create(ctx context.Context, name string, plan access.Plan) (Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tenant{}, fmt.Errorf("name required: %w", ErrInvalidInput)
	}
	if !plan.Valid() {
		return Tenant{}, fmt.Errorf("unknown plan %q: %w", plan, ErrInvalidInput)
	}
	t := Tenant{
		ID:       uuid.New().String(),
		Name:     name,
		Plan:     plan,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Tenant{}, err
	}
	return t, nil
}

// SetActive enables or disables the tenant and drops its snapshot.
func (s *Service) SetActive(ctx context.Context, tenantID string, active bool) error {
	if err := s.repo.SetActive(ctx, tenantID, active); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

// SetPlan changes the tenant's tier and drops its snapshot.
func (s *Service) SetPlan(ctx context.Context, tenantID string, plan access.Plan) error {
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q: %w", plan, ErrInvalidInput)
	}
	if err := s.repo.SetPlan(ctx, tenantID, plan); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID); err != nil && s.logger != nil {
		// The TTL still bounds how long the stale snapshot survives.
		s.logger.Warn("invalidate tenant snapshot", slog.String("tenant_id", tenantID), slog.Any("error", err))
	}
}
