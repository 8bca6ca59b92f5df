package access

import (
	"log/slog"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Engine evaluates whether a principal may perform an action on a
// resource. Both checks are pure predicates over the injected matrix and
// hierarchy; denial is a result, never an error.
type Engine struct {
	matrix     Matrix
	hierarchy  Hierarchy
	logger     *slog.Logger
	production bool
}

// NewEngine constructs an Engine. In non-production mode, calls with
// values outside the closed enum sets are logged loudly; in production
// they deny silently.
func NewEngine(matrix Matrix, hierarchy Hierarchy, logger *slog.Logger, production bool) *Engine {
	return &Engine{matrix: matrix, hierarchy: hierarchy, logger: logger, production: production}
}

// Allowed reports whether the principal may perform action on resource.
//
// Superusers pass unconditionally; they were still bound to one tenant by
// the guard, so the bypass is scoped to that tenant's data. When the
// custom override flag is set, the override list is the exclusive source
// of authority and the role matrix is not consulted.
func (e *Engine) Allowed(p Principal, resource Resource, action Action) bool {
	if !resource.Valid() || !action.Valid() {
		e.misconfigured("allowed", p, resource, action)
		return false
	}
	if p.Superuser {
		return true
	}
	if p.UseCustomPermissions {
		set := normalizePermissions(p.CustomPermissions)
		_, ok := set[PermissionKey(resource, action)]
		return ok
	}
	return e.matrix.grants(p.Role, resource, action)
}

// Check is Allowed with a typed error identifying the role and the
// attempted (resource, action) pair, for audit and operability.
func (e *Engine) Check(p Principal, resource Resource, action Action) error {
	if e.Allowed(p, resource, action) {
		return nil
	}
	return &shared.ForbiddenError{
		Role:     string(p.Role),
		Resource: string(resource),
		Action:   string(action),
	}
}

// AtLeast reports whether the principal's role sits at or above the
// required role in the hierarchy. An unknown principal role defaults to
// level zero; an unknown required role fails closed.
func (e *Engine) AtLeast(p Principal, required Role) bool {
	if !required.Valid() {
		e.misconfigured("at-least", p, "", "")
	}
	requiredLevel, ok := e.hierarchy[required]
	if !ok {
		requiredLevel = e.hierarchy.maxLevel() + 1
	}
	return e.hierarchy[p.Role] >= requiredLevel
}

func (e *Engine) misconfigured(check string, p Principal, resource Resource, action Action) {
	if e.production || e.logger == nil {
		if e.logger != nil {
			e.logger.Debug("access check outside closed enums",
				slog.String("check", check),
				slog.String("resource", string(resource)),
				slog.String("action", string(action)))
		}
		return
	}
	e.logger.Error("access check called with value outside closed enums",
		slog.String("check", check),
		slog.String("principal", p.ID),
		slog.String("role", string(p.Role)),
		slog.String("resource", string(resource)),
		slog.String("action", string(action)),
		slog.Any("error", shared.ErrConfiguration))
}
