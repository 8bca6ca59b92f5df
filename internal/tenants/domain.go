package tenants

import (
	"fmt"
	"time"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
)

// ErrInvalidInput flags caller mistakes (missing name, unknown plan) so
// they surface as 400, not 500.
var ErrInvalidInput = fmt.Errorf("tenants: invalid input: %w", httpx.ErrValidation)

// Tenant is one isolated congregation. The access core only reads
// IsActive and Plan; everything else belongs to the business layer.
type Tenant struct {
	ID        string
	Name      string
	Plan      access.Plan
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
