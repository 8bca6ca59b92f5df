package access

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/httpx"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

// Resolver turns a raw credential into a verified principal. The
// returned tenant id and role must have been verified upstream, never
// client-asserted. Credential verification itself is out of scope here.
type Resolver interface {
	Resolve(ctx context.Context, rawCredential string) (Principal, error)
}

// Denial describes one rejected request for the audit trail.
type Denial struct {
	PrincipalID string
	TenantID    string
	Resource    string
	Action      string
	Code        string
	Detail      string
}

// Recorder persists denials. Recording is best effort; a failing
// recorder never changes the request outcome.
type Recorder interface {
	RecordDenial(ctx context.Context, d Denial)
}

// DecisionAllowed labels a passing permission check in metrics.
const DecisionAllowed = "ALLOWED"

// Metrics observes pipeline outcomes.
type Metrics interface {
	ObserveDecision(code string)
}

// Middleware wires the access pipeline into chi handlers. Stages run
// strictly in the order Authenticate, ResolveTenant, Require/RequireAtLeast,
// EnforceQuota; a later stage never runs when an earlier one failed.
type Middleware struct {
	Resolver Resolver
	Guard    *Guard
	Engine   *Engine
	Quota    *Enforcer
	Audit    Recorder
	Metrics  Metrics
	Logger   *slog.Logger
}

// Authenticate resolves the bearer credential into a principal and
// stores it in the request context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			m.deny(r, Denial{Code: shared.CodeUnauthenticated, Detail: "missing credential"})
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		principal, err := m.Resolver.Resolve(r.Context(), raw)
		if err != nil {
			m.deny(r, Denial{Code: shared.CodeUnauthenticated, Detail: "credential rejected"})
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// ResolveTenant runs the tenant guard and stores the resolved tenant id
// in the request context. Handlers must read the tenant id from context
// only; any tenant id in the payload is overwritten downstream.
func (m Middleware) ResolveTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			m.deny(r, Denial{Code: shared.CodeUnauthenticated, Detail: "no principal in context"})
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		tenantID, err := m.Guard.Guard(r.Context(), principal)
		if err != nil {
			m.deny(r, Denial{
				PrincipalID: principal.ID,
				TenantID:    principal.TenantID,
				Code:        shared.CodeOf(err),
			})
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithTenant(r.Context(), tenantID)))
	})
}

// Require ensures the principal may perform action on resource.
func (m Middleware) Require(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if err := m.Engine.Check(principal, resource, action); err != nil {
				m.deny(r, Denial{
					PrincipalID: principal.ID,
					TenantID:    principal.TenantID,
					Resource:    string(resource),
					Action:      string(action),
					Code:        shared.CodeForbidden,
				})
				httpx.RespondError(w, err)
				return
			}
			m.observe(DecisionAllowed)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAtLeast ensures the principal's role sits at or above the
// required role. Meant for operations that do not map cleanly onto one
// resource.
func (m Middleware) RequireAtLeast(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if !principal.Superuser && !m.Engine.AtLeast(principal, required) {
				m.deny(r, Denial{
					PrincipalID: principal.ID,
					TenantID:    principal.TenantID,
					Code:        shared.CodeForbidden,
					Detail:      "requires role " + string(required) + " or above",
				})
				httpx.RespondError(w, &shared.ForbiddenError{
					Role:     string(principal.Role),
					Resource: "role:" + string(required),
					Action:   "at-least",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceQuota gates creation of a quota-limited resource kind on the
// tenant's plan limit. Must be mounted after ResolveTenant.
func (m Middleware) EnforceQuota(kind Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, okPrincipal := PrincipalFromContext(r.Context())
			tenantID, okTenant := TenantFromContext(r.Context())
			if !okPrincipal || !okTenant {
				// Pipeline ordering bug in the surrounding code.
				m.logError("quota check before tenant resolution", kind)
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			plan, err := m.Guard.Plan(r.Context(), principal)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			if err := m.Quota.CheckQuota(r.Context(), tenantID, plan, kind); err != nil {
				m.deny(r, Denial{
					PrincipalID: principal.ID,
					TenantID:    tenantID,
					Resource:    string(kind),
					Action:      string(ActionCreate),
					Code:        shared.CodeOf(err),
					Detail:      err.Error(),
				})
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(r *http.Request, d Denial) {
	m.observe(d.Code)
	if m.Audit != nil {
		m.Audit.RecordDenial(r.Context(), d)
	}
	if m.Logger != nil {
		m.Logger.Info("access denied",
			slog.String("code", d.Code),
			slog.String("principal", d.PrincipalID),
			slog.String("tenant", d.TenantID),
			slog.String("resource", d.Resource),
			slog.String("action", d.Action),
			slog.String("path", r.URL.Path))
	}
}

func (m Middleware) observe(code string) {
	if m.Metrics != nil {
		m.Metrics.ObserveDecision(code)
	}
}

func (m Middleware) logError(msg string, kind Resource) {
	if m.Logger != nil {
		m.Logger.Error(msg, slog.String("kind", string(kind)))
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
