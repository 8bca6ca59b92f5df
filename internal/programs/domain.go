package programs

import "time"

// Program is a recurring activity run by a congregation.
type Program struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LeaderID    string     `json:"leader_id"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// CreateInput carries the fields for a new program.
type CreateInput struct {
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	LeaderID    string `json:"leader_id"`
}

// WithTenant returns a copy of the input scoped to the given tenant.
func (in CreateInput) WithTenant(tenantID string) CreateInput {
	in.TenantID = tenantID
	return in
}

// UpdateInput carries the mutable fields of a program.
type UpdateInput struct {
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	LeaderID    string `json:"leader_id"`
	IsActive    bool   `json:"is_active"`
}

// WithTenant returns a copy of the input scoped to the given tenant.
func (in UpdateInput) WithTenant(tenantID string) UpdateInput {
	in.TenantID = tenantID
	return in
}
