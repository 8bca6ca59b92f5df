package shared

import (
	"errors"
	"fmt"
)

// Stable machine-readable codes for access-control outcomes. These are
// the externally observable contract; handlers and clients key off the
// code, never off message text.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeTenantDisabled     = "TENANT_DISABLED"
	CodeForbidden          = "FORBIDDEN"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeConfigurationError = "CONFIGURATION_ERROR"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated indicates no verifiable principal, or a
	// principal that carries no tenant.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTenantDisabled covers both a missing and a deactivated tenant;
	// the two collapse into one message so callers cannot probe which
	// tenant ids exist.
	ErrTenantDisabled = errors.New("tenant is disabled")
	// ErrForbidden indicates the principal's role or override set does
	// not grant the attempted action.
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded indicates a plan limit was reached.
	ErrQuotaExceeded = errors.New("plan quota exceeded")
	// ErrConfiguration indicates a value outside the closed enum sets
	// reached the permission engine. Programmer error, not user error.
	ErrConfiguration = errors.New("access configuration error")
)

// ForbiddenError identifies the role and attempted (resource, action)
// pair for audit and operability.
type ForbiddenError struct {
	Role     string
	Resource string
	Action   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: role %s may not %s %s", e.Role, e.Action, e.Resource)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// QuotaExceededError carries enough detail for an upgrade-prompt UI.
type QuotaExceededError struct {
	Plan    string
	Kind    string
	Current int
	Limit   int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("plan %s allows %d %s, currently at %d", e.Plan, e.Limit, e.Kind, e.Current)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// CodeOf maps an error to its stable machine code, or "" when the error
// is not part of the access taxonomy.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrTenantDisabled):
		return CodeTenantDisabled
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, ErrConfiguration):
		return CodeConfigurationError
	default:
		return ""
	}
}
