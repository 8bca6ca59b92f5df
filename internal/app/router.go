package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/members"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/observability"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/programs"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/tenants"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Access          access.Middleware
	TenantsHandler  *tenants.Handler
	MembersHandler  *members.Handler
	ProgramsHandler *programs.Handler
	UsersHandler    *users.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router. Every /api route runs behind the
// access pipeline in the fixed order authenticate, resolve tenant,
// permission, quota.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	acc := params.Access
	r.Route("/api", func(r chi.Router) {
		r.Use(acc.Authenticate)
		r.Use(acc.ResolveTenant)

		r.Route("/members", func(r chi.Router) {
			r.With(acc.Require(access.ResourcePersons, access.ActionRead)).Get("/", params.MembersHandler.List)
			r.With(acc.Require(access.ResourcePersons, access.ActionRead)).Get("/{id}", params.MembersHandler.Show)
			r.With(
				acc.Require(access.ResourcePersons, access.ActionCreate),
				acc.EnforceQuota(access.ResourcePersons),
			).Post("/", params.MembersHandler.Create)
			r.With(acc.Require(access.ResourcePersons, access.ActionUpdate)).Put("/{id}", params.MembersHandler.Update)
			r.With(acc.Require(access.ResourcePersons, access.ActionDelete)).Delete("/{id}", params.MembersHandler.Delete)
		})

		r.Route("/programs", func(r chi.Router) {
			r.With(acc.Require(access.ResourcePrograms, access.ActionRead)).Get("/", params.ProgramsHandler.List)
			r.With(acc.Require(access.ResourcePrograms, access.ActionRead)).Get("/{id}", params.ProgramsHandler.Show)
			r.With(
				acc.Require(access.ResourcePrograms, access.ActionCreate),
				acc.EnforceQuota(access.ResourcePrograms),
			).Post("/", params.ProgramsHandler.Create)
			r.With(acc.Require(access.ResourcePrograms, access.ActionUpdate)).Put("/{id}", params.ProgramsHandler.Update)
			r.With(acc.Require(access.ResourcePrograms, access.ActionDelete)).Delete("/{id}", params.ProgramsHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(acc.Require(access.ResourceUsers, access.ActionRead)).Get("/", params.UsersHandler.List)
			r.With(acc.Require(access.ResourceUsers, access.ActionRead)).Get("/{id}", params.UsersHandler.Show)
			r.With(acc.Require(access.ResourceUsers, access.ActionCreate)).Post("/", params.UsersHandler.Create)
			r.With(acc.Require(access.ResourceUsers, access.ActionUpdate)).Put("/{id}/role", params.UsersHandler.SetRole)
			r.With(acc.Require(access.ResourceUsers, access.ActionUpdate)).Put("/{id}/permissions", params.UsersHandler.SetOverride)
		})

		// Tenant administration does not map onto a single resource;
		// the hierarchical check gates it instead.
		r.Route("/tenant", func(r chi.Router) {
			r.Get("/", params.TenantsHandler.Show)
			r.With(acc.RequireAtLeast(access.RolePastor)).Post("/deactivate", params.TenantsHandler.Deactivate)
			r.With(acc.RequireAtLeast(access.RolePastor)).Put("/plan", params.TenantsHandler.ChangePlan)
		})
	})

	return r
}
